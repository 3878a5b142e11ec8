package catalog

import (
	"fmt"
	"strings"

	"github.com/git-pkgs/modmenu/internal/core"
	"github.com/git-pkgs/modmenu/internal/github"
	"github.com/git-pkgs/modmenu/internal/loader"
	"github.com/git-pkgs/modmenu/internal/output"

	// maven registers the "maven" kind for declared update sources.
	_ "github.com/git-pkgs/modmenu/internal/maven"
)

const (
	loaderID     = "fabricloader"
	silkLoaderID = "silkloader"
	silkRepo     = "SilkLoader/silk-loader"
)

// Provider is the integration point a mod implements to contribute a
// configuration panel or its own update checker. Either may be nil.
type Provider interface {
	ConfigFactory() ConfigFactory
	UpdateChecker() core.Checker
}

// HostRuntime describes the language runtime shown as the RuntimeID mod.
type HostRuntime struct {
	Version   string
	Vendor    string
	VendorURL string
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	tr         core.Translator
	runtime    HostRuntime
	providers  map[string]Provider
	client     *core.Client
	hostConfig ConfigFactory
}

// WithTranslator sets the translator for names, descriptions, links and
// update messages.
func WithTranslator(tr core.Translator) BuildOption {
	return func(o *buildOptions) {
		if tr != nil {
			o.tr = core.Chain{tr, core.DefaultTranslator}
		}
	}
}

// WithHostRuntime sets the details reported for the RuntimeID mod.
func WithHostRuntime(rt HostRuntime) BuildOption {
	return func(o *buildOptions) {
		o.runtime = rt
	}
}

// WithProviders registers integration providers keyed by the mod id they belong to.
func WithProviders(providers map[string]Provider) BuildOption {
	return func(o *buildOptions) {
		for id, p := range providers {
			o.providers[id] = p
		}
	}
}

// WithCheckerClient sets the HTTP client every built-in checker uses.
func WithCheckerClient(c *core.Client) BuildOption {
	return func(o *buildOptions) {
		o.client = c
	}
}

// WithHostConfigFactory sets the configuration panel of the HostID mod.
func WithHostConfigFactory(f ConfigFactory) BuildOption {
	return func(o *buildOptions) {
		o.hostConfig = f
	}
}

// Registry holds every known mod and the hierarchy between them. It is
// built once and read-only afterwards, except for each descriptor's
// update info.
type Registry struct {
	mods     map[string]*Descriptor
	order    []*Descriptor
	index    map[string]int
	children map[string][]string
	parents  map[string]string
}

// Build creates a descriptor for every container and every container they
// bundle, then links them into a hierarchy. The first container seen for an
// id wins.
func Build(containers []Container, opts ...BuildOption) *Registry {
	o := &buildOptions{
		tr:        core.DefaultTranslator,
		providers: make(map[string]Provider),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		o.client = core.DefaultClient()
	}

	r := &Registry{
		mods:     make(map[string]*Descriptor),
		index:    make(map[string]int),
		children: make(map[string][]string),
		parents:  make(map[string]string),
	}

	var register func(c Container)
	register = func(c Container) {
		id := c.ID()
		if strings.TrimSpace(id) == "" {
			output.Warn("skipping mod without an id", "name", c.Name())
			return
		}
		if _, dup := r.mods[id]; dup {
			output.Warn("duplicate mod id, keeping the first", "mod", id)
			return
		}
		d := newDescriptor(c, o)
		d.checker = resolveChecker(d, o)
		d.configFactory = resolveConfigFactory(d, o)
		r.mods[id] = d
		r.index[id] = len(r.order)
		r.order = append(r.order, d)

		for _, child := range c.Bundled() {
			register(child)
			r.link(id, child.ID())
		}
	}
	for _, c := range containers {
		register(c)
	}

	for _, d := range r.order {
		if d.parent != "" {
			r.link(d.parent, d.id)
		}
	}
	r.link(silkLoaderID, loaderID)

	return r
}

// link records parent as the parent of child. Later edges replace earlier
// ones for the same child.
func (r *Registry) link(parent, child string) {
	if parent == "" || child == "" || parent == child {
		return
	}
	if old, ok := r.parents[child]; ok {
		if old == parent {
			return
		}
		r.children[old] = remove(r.children[old], child)
		if len(r.children[old]) == 0 {
			delete(r.children, old)
		}
	}
	r.parents[child] = parent
	r.children[parent] = append(r.children[parent], child)
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, s := range ids {
		if s != id {
			out = append(out, s)
		}
	}
	return out
}

func resolveChecker(d *Descriptor, o *buildOptions) core.Checker {
	switch d.id {
	case loaderID:
		return loader.New(d.id, loader.WithClient(o.client), loader.WithTranslator(o.tr))
	case silkLoaderID:
		chk, err := github.New(d.id, silkRepo,
			github.WithClient(o.client),
			github.WithTranslator(o.tr),
			github.WithReleaseURL(func(string) string { return loader.UpdateURL }))
		if err != nil {
			output.Error("creating update checker", "mod", d.id, "err", err)
			return nil
		}
		return chk
	}

	if p, ok := o.providers[d.id]; ok && p != nil {
		if chk := p.UpdateChecker(); chk != nil {
			return chk
		}
	}

	src, ok, err := declaredSource(d)
	if err != nil {
		logDeclaration(err)
		return nil
	}
	if !ok {
		return nil
	}
	src.Translator = o.tr
	chk, cerr := core.New(src, o.client)
	if cerr != nil {
		output.Error("creating update checker", "mod", d.id, "kind", src.Kind, "err", cerr)
		return nil
	}
	return chk
}

// declaredSource reads the update source a mod declares under
// custom.modmenu.update.
func declaredSource(d *Descriptor) (core.Source, bool, *core.DeclarationError) {
	raw, ok := d.settings["update"]
	if !ok || raw == nil {
		return core.Source{}, false, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return core.Source{}, false, &core.DeclarationError{ModID: d.id, Field: "update", Reason: fmt.Sprintf("expected an object, got %T", raw)}
	}

	str := func(key string) string {
		s, _ := obj[key].(string)
		return strings.TrimSpace(s)
	}
	src := core.Source{Kind: str("type"), ModID: d.id}
	switch src.Kind {
	case "github":
		src.Identifier = str("repository")
	case "maven":
		src.Identifier = str("artifact")
		src.Repository = str("repository")
	case "loader":
		src.Repository = str("endpoint")
	case "":
		return core.Source{}, false, &core.DeclarationError{ModID: d.id, Field: "update.type", Reason: "missing"}
	default:
		return core.Source{}, false, &core.DeclarationError{ModID: d.id, Field: "update.type", Reason: fmt.Sprintf("unsupported kind %q", src.Kind)}
	}
	return src, true, nil
}

func resolveConfigFactory(d *Descriptor, o *buildOptions) ConfigFactory {
	if d.id == HostID {
		return o.hostConfig
	}
	if p, ok := o.providers[d.id]; ok && p != nil {
		return p.ConfigFactory()
	}
	return nil
}

// Get returns the descriptor for id.
func (r *Registry) Get(id string) (*Descriptor, bool) {
	d, ok := r.mods[id]
	return d, ok
}

// Mods returns every descriptor in build order.
func (r *Registry) Mods() []*Descriptor {
	return append([]*Descriptor(nil), r.order...)
}

// Len returns the number of registered mods.
func (r *Registry) Len() int { return len(r.order) }

// Children returns the ids of id's children in the order they were linked.
func (r *Registry) Children(id string) []string {
	return append([]string(nil), r.children[id]...)
}

// Parent returns the hierarchy parent of id. The parent may be an id with
// no registered mod.
func (r *Registry) Parent(id string) (string, bool) {
	p, ok := r.parents[id]
	return p, ok
}

// Hierarchy returns a copy of the child to parent map.
func (r *Registry) Hierarchy() map[string]string {
	out := make(map[string]string, len(r.parents))
	for k, v := range r.parents {
		out[k] = v
	}
	return out
}

// Root returns the root ancestor of d, or d itself when the parent chain
// loops.
func (r *Registry) Root(d *Descriptor) *Descriptor {
	return r.resolveRoot(d)
}

// resolveRoot walks the parent chain up to the last registered ancestor.
// A revisited id means a cycle; the starting mod is then its own root.
func (r *Registry) resolveRoot(d *Descriptor) *Descriptor {
	visited := make(map[string]bool)
	current := d
	for {
		parentID, ok := r.parents[current.id]
		if !ok {
			return current
		}
		if visited[current.id] {
			return d
		}
		visited[current.id] = true
		parent, ok := r.mods[parentID]
		if !ok {
			return current
		}
		current = parent
	}
}
