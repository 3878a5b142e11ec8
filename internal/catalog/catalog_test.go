package catalog

import (
	"context"

	"github.com/git-pkgs/modmenu/internal/core"
)

// testMod is an in-memory Container.
type testMod struct {
	id, name, description, version string
	authors, contributors          []Person
	licenses                       []string
	contact                        Contact
	custom                         map[string]any
	icons                          map[int]string
	bundled                        []Container
}

func (m *testMod) ID() string             { return m.id }
func (m *testMod) Name() string           { return m.name }
func (m *testMod) Description() string    { return m.description }
func (m *testMod) Version() string        { return m.version }
func (m *testMod) Authors() []Person      { return m.authors }
func (m *testMod) Contributors() []Person { return m.contributors }
func (m *testMod) Licenses() []string     { return m.licenses }
func (m *testMod) Contact() Contact       { return m.contact }
func (m *testMod) Bundled() []Container   { return m.bundled }

func (m *testMod) CustomValue(key string) (any, bool) {
	v, ok := m.custom[key]
	return v, ok
}

func (m *testMod) IconPath(size int) (string, bool) {
	p, ok := m.icons[size]
	return p, ok
}

func mod(id string) *testMod {
	return &testMod{id: id, name: id, version: "1.0.0"}
}

func withSettings(m *testMod, settings map[string]any) *testMod {
	if m.custom == nil {
		m.custom = map[string]any{}
	}
	m.custom[ModID] = settings
	return m
}

// testProvider contributes a checker and config factory for one mod.
type testProvider struct {
	checker core.Checker
	config  ConfigFactory
}

func (p testProvider) ConfigFactory() ConfigFactory { return p.config }
func (p testProvider) UpdateChecker() core.Checker  { return p.checker }

func checkerFunc(fn func(ctx context.Context, current string, pref core.Channel) (*core.UpdateInfo, error)) core.Checker {
	return core.CheckerFunc(fn)
}

func ids(mods []*Descriptor) []string {
	out := make([]string, len(mods))
	for i, d := range mods {
		out[i] = d.ID()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
