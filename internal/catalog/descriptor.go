package catalog

import (
	"fmt"
	"sort"
	"sync/atomic"

	spdxexp "github.com/github/go-spdx/v2/spdxexp"

	"github.com/git-pkgs/modmenu/internal/core"
	"github.com/git-pkgs/modmenu/internal/output"
)

const (
	// ModID is the catalog's own id and the custom metadata namespace.
	ModID = "modmenu"
	// RuntimeID is the synthetic mod standing for the language runtime.
	RuntimeID = "java"
	// HostID is the synthetic mod standing for the host application.
	HostID = "equilinox"

	// HostWebsite is the fixed website of the host application.
	HostWebsite = "https://www.equilinox.com/"

	sourcesLinkKey = "modmenu.sources"
)

// HostAuthors are the fixed credits of the host application.
var HostAuthors = []string{"ThinMatrix", "Jamal Green Music", "Dannek Studio"}

// ConfigFactory creates the configuration panel of a mod. Panels are owned
// by the presentation layer; the catalog only carries the factory.
type ConfigFactory func() any

// Contributor is a credited person with every role they hold.
type Contributor struct {
	Name  string
	Roles []string
}

// Credit groups the names credited under one role.
type Credit struct {
	Role  string
	Names []string
}

// Link is a labelled URL shown on a mod's page.
type Link struct {
	Key   string
	Label string
	URL   string
}

// Descriptor is the catalog entry for one mod. Everything except the update
// info is fixed once the registry is built.
type Descriptor struct {
	container Container

	id           string
	name         string
	description  string
	version      string
	authors      []string
	contributors []Contributor
	licenses     []string
	website      string
	issues       string
	links        []Link
	badges       []BadgeKind
	parent       string
	settings     map[string]any

	configFactory ConfigFactory
	checker       core.Checker
	updateInfo    atomic.Pointer[core.UpdateInfo]
}

func (d *Descriptor) ID() string          { return d.id }
func (d *Descriptor) Name() string        { return d.name }
func (d *Descriptor) Description() string { return d.description }
func (d *Descriptor) Version() string     { return d.version }
func (d *Descriptor) Website() string     { return d.website }

// IssueTracker returns the issue tracker URL, or "".
func (d *Descriptor) IssueTracker() string { return d.issues }

// Container returns the package the descriptor was built from.
func (d *Descriptor) Container() Container { return d.container }

// Authors returns the author names in declaration order.
func (d *Descriptor) Authors() []string {
	return append([]string(nil), d.authors...)
}

// Contributors returns the declared contributors, each with role "Contributor".
func (d *Descriptor) Contributors() []Contributor {
	out := make([]Contributor, len(d.contributors))
	for i, c := range d.contributors {
		out[i] = Contributor{Name: c.Name, Roles: append([]string(nil), c.Roles...)}
	}
	return out
}

// Credits merges authors under role "Author" into the contributors and
// groups names by role. Roles are sorted; names keep first-seen order.
func (d *Descriptor) Credits() []Credit {
	var order []string
	roles := make(map[string][]string)
	addRole := func(name, role string) {
		if _, ok := roles[name]; !ok {
			order = append(order, name)
		}
		for _, r := range roles[name] {
			if r == role {
				return
			}
		}
		roles[name] = append(roles[name], role)
	}
	for _, c := range d.contributors {
		for _, r := range c.Roles {
			addRole(c.Name, r)
		}
	}
	for _, a := range d.authors {
		addRole(a, "Author")
	}

	byRole := make(map[string][]string)
	for _, name := range order {
		for _, r := range roles[name] {
			byRole[r] = append(byRole[r], name)
		}
	}

	credits := make([]Credit, 0, len(byRole))
	for role, names := range byRole {
		credits = append(credits, Credit{Role: role, Names: names})
	}
	sort.Slice(credits, func(i, j int) bool { return credits[i].Role < credits[j].Role })
	return credits
}

// Licenses returns the declared licenses, deduplicated and sorted.
func (d *Descriptor) Licenses() []string {
	return append([]string(nil), d.licenses...)
}

// LicenseURL returns the SPDX page of license when it is a known SPDX
// identifier or expression.
func (d *Descriptor) LicenseURL(license string) (string, bool) {
	if valid, _ := spdxexp.ValidateLicenses([]string{license}); !valid {
		return "", false
	}
	return "https://spdx.org/licenses/" + license + ".html", true
}

// Links returns the mod's links sorted by key.
func (d *Descriptor) Links() []Link {
	return append([]Link(nil), d.links...)
}

// Badges returns the assigned and declared badges, plus BadgeUpdateAvailable
// once an update has been found.
func (d *Descriptor) Badges() []BadgeKind {
	out := append(make([]BadgeKind, 0, len(d.badges)+1), d.badges...)
	if d.UpdateInfo() != nil {
		out = append(out, BadgeUpdateAvailable)
	}
	return out
}

// Parent returns the declared parent id, or "" when none was declared.
func (d *Descriptor) Parent() string { return d.parent }

// IconPath returns the icon for size pixels. The synthetic runtime and host
// mods use icons bundled with the catalog itself.
func (d *Descriptor) IconPath(size int) (string, bool) {
	if d.id == RuntimeID || d.id == HostID {
		return fmt.Sprintf("assets/%s/%s_icon.png", ModID, d.id), true
	}
	if d.container == nil {
		return "", false
	}
	return d.container.IconPath(size)
}

// ConfigFactory returns the mod's configuration panel factory, or nil.
func (d *Descriptor) ConfigFactory() ConfigFactory { return d.configFactory }

// UpdateChecker returns the mod's update checker, or nil.
func (d *Descriptor) UpdateChecker() core.Checker { return d.checker }

// HasUpdateChecker reports whether the mod can be checked for updates.
func (d *Descriptor) HasUpdateChecker() bool { return d.checker != nil }

// UpdateInfo returns the update found for the mod, or nil.
func (d *Descriptor) UpdateInfo() *core.UpdateInfo { return d.updateInfo.Load() }

// SetUpdateInfo records info unless an update was already recorded. It
// reports whether info was stored.
func (d *Descriptor) SetUpdateInfo(info *core.UpdateInfo) bool {
	if info == nil {
		return false
	}
	return d.updateInfo.CompareAndSwap(nil, info)
}

// newDescriptor reads c's metadata. Malformed declarations are logged and
// skipped.
func newDescriptor(c Container, o *buildOptions) *Descriptor {
	id := c.ID()
	d := &Descriptor{
		container:   c,
		id:          id,
		name:        core.TranslateOr(o.tr, "modmenu.nameTranslation."+id, c.Name()),
		description: core.TranslateOr(o.tr, "modmenu.descriptionTranslation."+id, c.Description()),
		version:     c.Version(),
		issues:      c.Contact().Issues,
		website:     c.Contact().Homepage,
		licenses:    dedupeSorted(c.Licenses()),
	}
	for _, p := range c.Authors() {
		d.authors = append(d.authors, p.Name)
	}
	for _, p := range c.Contributors() {
		d.contributors = append(d.contributors, Contributor{Name: p.Name, Roles: []string{"Contributor"}})
	}

	switch id {
	case RuntimeID:
		d.name = "Java"
		d.description = "The Java runtime environment.\nRunning: " + c.Name()
		if o.runtime.Version != "" {
			d.version = o.runtime.Version
		}
		if o.runtime.Vendor != "" {
			d.authors = []string{o.runtime.Vendor}
		}
		if o.runtime.VendorURL != "" {
			d.website = o.runtime.VendorURL
		}
	case HostID:
		d.authors = append([]string(nil), HostAuthors...)
		d.website = HostWebsite
	}

	settings, ok := modSettings(c)
	d.settings = settings
	d.parent = resolveParent(id, settings)
	d.links = resolveLinks(id, settings, c.Contact(), o.tr)

	switch {
	case libraryIDs[id]:
		d.badges = []BadgeKind{BadgeLibrary}
	case hostIDs[id]:
		d.badges = []BadgeKind{BadgeHostApplication}
	case ok:
		d.badges = declaredBadges(id, settings)
	}
	return d
}

// modSettings returns the object stored under the catalog's namespace key.
func modSettings(c Container) (map[string]any, bool) {
	raw, ok := c.CustomValue(ModID)
	if !ok {
		return nil, false
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		logDeclaration(&core.DeclarationError{ModID: c.ID(), Field: ModID, Reason: fmt.Sprintf("expected an object, got %T", raw)})
		return nil, false
	}
	return obj, true
}

func resolveParent(id string, settings map[string]any) string {
	raw, ok := settings["parent"]
	if !ok || raw == nil {
		return ""
	}

	var parent string
	switch v := raw.(type) {
	case string:
		parent = v
	case map[string]any:
		pid, ok := v["id"].(string)
		if !ok {
			logDeclaration(&core.DeclarationError{ModID: id, Field: "parent", Reason: "object has no string id"})
			return ""
		}
		parent = pid
	default:
		logDeclaration(&core.DeclarationError{ModID: id, Field: "parent", Reason: fmt.Sprintf("expected a string or object, got %T", raw)})
		return ""
	}

	if parent == id {
		logDeclaration(&core.DeclarationError{ModID: id, Field: "parent", Reason: "mod declared itself as its own parent"})
		return ""
	}
	return parent
}

func resolveLinks(id string, settings map[string]any, contact Contact, tr core.Translator) []Link {
	declared := make(map[string]string)
	if raw, ok := settings["links"]; ok {
		obj, ok := raw.(map[string]any)
		if !ok {
			logDeclaration(&core.DeclarationError{ModID: id, Field: "links", Reason: fmt.Sprintf("expected an object, got %T", raw)})
		}
		for k, v := range obj {
			s, ok := v.(string)
			if !ok {
				logDeclaration(&core.DeclarationError{ModID: id, Field: "links." + k, Reason: fmt.Sprintf("expected a string, got %T", v)})
				continue
			}
			declared[k] = s
		}
	}
	_, hasSources := declared[sourcesLinkKey]
	_, hasPlainSources := declared["sources"]
	if !hasSources && !hasPlainSources && contact.Sources != "" {
		declared[sourcesLinkKey] = contact.Sources
	}

	links := make([]Link, 0, len(declared))
	for k, v := range declared {
		links = append(links, Link{
			Key:   k,
			Label: core.TranslateOr(tr, k, k),
			URL:   core.TranslateOr(tr, v, v),
		})
	}
	sort.Slice(links, func(i, j int) bool { return links[i].Key < links[j].Key })
	return links
}

func declaredBadges(id string, settings map[string]any) []BadgeKind {
	raw, ok := settings["badges"]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		logDeclaration(&core.DeclarationError{ModID: id, Field: "badges", Reason: fmt.Sprintf("expected a list, got %T", raw)})
		return nil
	}

	var badges []BadgeKind
	seen := make(map[BadgeKind]bool)
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			logDeclaration(&core.DeclarationError{ModID: id, Field: "badges", Reason: fmt.Sprintf("expected a string, got %T", item)})
			continue
		}
		kind, ok := ParseBadge(s)
		if !ok || !kind.Declarable() {
			output.Debug("ignoring badge", "mod", id, "badge", s)
			continue
		}
		if !seen[kind] {
			seen[kind] = true
			badges = append(badges, kind)
		}
	}
	return badges
}

func logDeclaration(err *core.DeclarationError) {
	output.Warn("malformed mod metadata", "mod", err.ModID, "err", err)
}

func dedupeSorted(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
