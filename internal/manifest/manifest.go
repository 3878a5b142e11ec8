// Package manifest reads mod metadata files (fabric.mod.json-shaped JSON or
// YAML) into catalog containers.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/git-pkgs/modmenu/internal/catalog"
)

// ErrNoID is returned for a mod entry without an id.
var ErrNoID = errors.New("mod has no id")

// Mod is a mod read from a manifest. It implements catalog.Container.
type Mod struct {
	id           string
	name         string
	description  string
	version      string
	authors      []catalog.Person
	contributors []catalog.Person
	licenses     []string
	contact      catalog.Contact
	icons        map[int]string
	icon         string
	custom       map[string]any
	bundled      []*Mod
}

var _ catalog.Container = (*Mod)(nil)

func (m *Mod) ID() string                     { return m.id }
func (m *Mod) Name() string                   { return m.name }
func (m *Mod) Description() string            { return m.description }
func (m *Mod) Version() string                { return m.version }
func (m *Mod) Authors() []catalog.Person      { return m.authors }
func (m *Mod) Contributors() []catalog.Person { return m.contributors }
func (m *Mod) Licenses() []string             { return m.licenses }
func (m *Mod) Contact() catalog.Contact       { return m.contact }

// CustomValue returns a top-level entry of the mod's custom metadata.
func (m *Mod) CustomValue(key string) (any, bool) {
	v, ok := m.custom[key]
	return v, ok
}

// IconPath returns the smallest icon at least size pixels wide, else the
// largest one. A single icon path serves every size.
func (m *Mod) IconPath(size int) (string, bool) {
	if m.icon != "" {
		return m.icon, true
	}
	if len(m.icons) == 0 {
		return "", false
	}
	sizes := make([]int, 0, len(m.icons))
	for s := range m.icons {
		sizes = append(sizes, s)
	}
	sort.Ints(sizes)
	for _, s := range sizes {
		if s >= size {
			return m.icons[s], true
		}
	}
	return m.icons[sizes[len(sizes)-1]], true
}

// Bundled returns the mods nested in this one.
func (m *Mod) Bundled() []catalog.Container {
	out := make([]catalog.Container, len(m.bundled))
	for i, b := range m.bundled {
		out[i] = b
	}
	return out
}

// BundledMods returns the nested mods with their concrete type.
func (m *Mod) BundledMods() []*Mod {
	return append([]*Mod(nil), m.bundled...)
}

// person decodes either "Name" or {"name": "Name", "contact": {...}}.
type person catalog.Person

func (p *person) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		p.Name = node.Value
		return nil
	}
	var obj struct {
		Name    string            `yaml:"name"`
		Contact map[string]string `yaml:"contact"`
	}
	if err := node.Decode(&obj); err != nil {
		return err
	}
	p.Name, p.Contact = obj.Name, obj.Contact
	return nil
}

// stringList decodes either a string or a list of strings.
type stringList []string

func (l *stringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*l = []string{node.Value}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*l = list
	return nil
}

// icon decodes either a path or a map of pixel size to path.
type icon struct {
	path  string
	sizes map[int]string
}

func (i *icon) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		i.path = node.Value
		return nil
	}
	var raw map[string]string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	i.sizes = make(map[int]string, len(raw))
	for k, v := range raw {
		size, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("icon size %q: %w", k, err)
		}
		i.sizes[size] = v
	}
	return nil
}

type document struct {
	ID           string            `yaml:"id"`
	Name         string            `yaml:"name"`
	Description  string            `yaml:"description"`
	Version      string            `yaml:"version"`
	Authors      []person          `yaml:"authors"`
	Contributors []person          `yaml:"contributors"`
	License      stringList        `yaml:"license"`
	Contact      map[string]string `yaml:"contact"`
	Icon         icon              `yaml:"icon"`
	Custom       map[string]any    `yaml:"custom"`
	Bundled      []document        `yaml:"bundled"`
	Mods         []document        `yaml:"mods"`
}

func (d document) mod() (*Mod, error) {
	if strings.TrimSpace(d.ID) == "" {
		return nil, fmt.Errorf("%w (name %q)", ErrNoID, d.Name)
	}
	m := &Mod{
		id:          d.ID,
		name:        d.Name,
		description: d.Description,
		version:     d.Version,
		licenses:    []string(d.License),
		contact: catalog.Contact{
			Homepage: d.Contact["homepage"],
			Issues:   d.Contact["issues"],
			Sources:  d.Contact["sources"],
		},
		icon:   d.Icon.path,
		icons:  d.Icon.sizes,
		custom: d.Custom,
	}
	if m.name == "" {
		m.name = d.ID
	}
	for _, p := range d.Authors {
		m.authors = append(m.authors, catalog.Person(p))
	}
	for _, p := range d.Contributors {
		m.contributors = append(m.contributors, catalog.Person(p))
	}
	for _, b := range d.Bundled {
		child, err := b.mod()
		if err != nil {
			return nil, fmt.Errorf("bundled in %s: %w", d.ID, err)
		}
		m.bundled = append(m.bundled, child)
	}
	return m, nil
}

// decode reads YAML, or JSON through a yaml.Node so tab-indented JSON
// decodes with the same rules.
func decode(data []byte, doc *document) error {
	if !json.Valid(data) {
		return yaml.Unmarshal(data, doc)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var node yaml.Node
	if err := node.Encode(raw); err != nil {
		return err
	}
	return node.Decode(doc)
}

// Parse decodes a manifest: a single mod object or {"mods": [...]}, as JSON
// or YAML.
func Parse(data []byte) ([]*Mod, error) {
	var doc document
	if err := decode(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}

	docs := doc.Mods
	if len(docs) == 0 {
		docs = []document{doc}
	}
	mods := make([]*Mod, 0, len(docs))
	for _, d := range docs {
		m, err := d.mod()
		if err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	return mods, nil
}

// Load reads the manifest at path.
func Load(path string) ([]*Mod, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	mods, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mods, nil
}

// LoadDir reads every .json, .yaml and .yml manifest in dir, in file name
// order.
func LoadDir(dir string) ([]*Mod, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading manifest directory: %w", err)
	}
	var mods []*Mod
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
		default:
			continue
		}
		loaded, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		mods = append(mods, loaded...)
	}
	return mods, nil
}

// LoadPath loads a manifest file or a directory of manifests.
func LoadPath(path string) ([]*Mod, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return Load(path)
}

// Containers converts mods for catalog.Build.
func Containers(mods []*Mod) []catalog.Container {
	out := make([]catalog.Container, len(mods))
	for i, m := range mods {
		out[i] = m
	}
	return out
}
