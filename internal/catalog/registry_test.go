package catalog

import (
	"context"
	"testing"

	"github.com/git-pkgs/modmenu/internal/core"
	"github.com/git-pkgs/modmenu/internal/github"
	"github.com/git-pkgs/modmenu/internal/loader"
	"github.com/git-pkgs/modmenu/internal/maven"
)

func TestBuildRegistersBundled(t *testing.T) {
	inner := mod("inner")
	lib := mod("lib")
	lib.bundled = []Container{inner}
	outer := mod("outer")
	outer.bundled = []Container{lib}

	r := build(outer)

	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
	if got := ids(r.Mods()); !equalStrings(got, []string{"outer", "lib", "inner"}) {
		t.Errorf("Mods() = %v", got)
	}
	if got := r.Children("outer"); !equalStrings(got, []string{"lib"}) {
		t.Errorf("Children(outer) = %v", got)
	}
	if p, ok := r.Parent("inner"); !ok || p != "lib" {
		t.Errorf("Parent(inner) = %q, %v", p, ok)
	}
	if root := r.Root(mustGet(t, r, "inner")); root.ID() != "outer" {
		t.Errorf("Root(inner) = %q, want outer", root.ID())
	}
}

func TestBuildDuplicateFirstWins(t *testing.T) {
	first := mod("dup")
	first.name = "First"
	second := mod("dup")
	second.name = "Second"

	r := build(first, second)
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	if got := mustGet(t, r, "dup").Name(); got != "First" {
		t.Errorf("Name() = %q, want First", got)
	}
}

func TestBuildDeclaredParentEdges(t *testing.T) {
	r := build(
		mod("base"),
		withSettings(mod("addon"), map[string]any{"parent": "base"}),
		withSettings(mod("orphan"), map[string]any{"parent": map[string]any{"id": "missing"}}),
	)

	if got := r.Children("base"); !equalStrings(got, []string{"addon"}) {
		t.Errorf("Children(base) = %v", got)
	}
	// A parent id with no registered mod is kept in the hierarchy but the
	// child is its own root.
	if p, ok := r.Parent("orphan"); !ok || p != "missing" {
		t.Errorf("Parent(orphan) = %q, %v", p, ok)
	}
	orphan := mustGet(t, r, "orphan")
	if r.Root(orphan) != orphan {
		t.Error("orphan should be its own root")
	}

	h := r.Hierarchy()
	h["addon"] = "changed"
	if p, _ := r.Parent("addon"); p != "base" {
		t.Error("Hierarchy() should return a copy")
	}
}

func TestBuildLoaderEdge(t *testing.T) {
	silk := mod("silkloader")
	silk.bundled = []Container{mod("silk-api")}
	r := build(mod("fabricloader"), silk)

	if p, ok := r.Parent("fabricloader"); !ok || p != "silkloader" {
		t.Errorf("Parent(fabricloader) = %q, %v", p, ok)
	}
	if got := r.Children("silkloader"); !equalStrings(got, []string{"silk-api", "fabricloader"}) {
		t.Errorf("Children(silkloader) = %v", got)
	}
}

func TestBuiltinCheckers(t *testing.T) {
	r := build(mod("fabricloader"), mod("silkloader"), mod("plain"))

	if _, ok := mustGet(t, r, "fabricloader").UpdateChecker().(*loader.Checker); !ok {
		t.Errorf("fabricloader checker = %T", mustGet(t, r, "fabricloader").UpdateChecker())
	}
	gh, ok := mustGet(t, r, "silkloader").UpdateChecker().(*github.Checker)
	if !ok {
		t.Fatalf("silkloader checker = %T", mustGet(t, r, "silkloader").UpdateChecker())
	}
	if gh.Owner() != "SilkLoader" || gh.Repo() != "silk-loader" {
		t.Errorf("silkloader repo = %s/%s", gh.Owner(), gh.Repo())
	}
	if mustGet(t, r, "plain").HasUpdateChecker() {
		t.Error("plain mod should have no checker")
	}
}

func TestProviderChecker(t *testing.T) {
	called := false
	chk := checkerFunc(func(ctx context.Context, current string, pref core.Channel) (*core.UpdateInfo, error) {
		called = true
		return nil, nil
	})
	panel := func() any { return "panel" }

	r := Build([]Container{mod("fancy")}, WithProviders(map[string]Provider{
		"fancy": testProvider{checker: chk, config: panel},
	}))
	d := mustGet(t, r, "fancy")

	if !d.HasUpdateChecker() {
		t.Fatal("expected the provider's checker")
	}
	_, _ = d.UpdateChecker().CheckForUpdates(context.Background(), "1.0.0", core.Release)
	if !called {
		t.Error("provider checker was not used")
	}
	if d.ConfigFactory() == nil || d.ConfigFactory()() != "panel" {
		t.Error("provider config factory was not used")
	}
}

func TestHostConfigFactory(t *testing.T) {
	r := Build([]Container{mod(HostID)}, WithHostConfigFactory(func() any { return "options" }))
	if f := mustGet(t, r, HostID).ConfigFactory(); f == nil || f() != "options" {
		t.Error("host config factory was not attached")
	}
}

func TestDeclaredUpdateSources(t *testing.T) {
	r := build(
		withSettings(mod("gh"), map[string]any{
			"update": map[string]any{"type": "github", "repository": "example/gh-mod"},
		}),
		withSettings(mod("mvn"), map[string]any{
			"update": map[string]any{"type": "maven", "repository": "https://maven.example.com", "artifact": "org.example:mvn"},
		}),
		withSettings(mod("badrepo"), map[string]any{
			"update": map[string]any{"type": "github", "repository": "no-slash"},
		}),
		withSettings(mod("unknown"), map[string]any{
			"update": map[string]any{"type": "curseforge"},
		}),
		withSettings(mod("shape"), map[string]any{"update": "github"}),
	)

	if gh, ok := mustGet(t, r, "gh").UpdateChecker().(*github.Checker); !ok || gh.Repo() != "gh-mod" {
		t.Errorf("gh checker = %T", mustGet(t, r, "gh").UpdateChecker())
	}
	if mc, ok := mustGet(t, r, "mvn").UpdateChecker().(*maven.Checker); !ok || mc.ArtifactID() != "mvn" {
		t.Errorf("mvn checker = %T", mustGet(t, r, "mvn").UpdateChecker())
	}
	for _, id := range []string{"badrepo", "unknown", "shape"} {
		if mustGet(t, r, id).HasUpdateChecker() {
			t.Errorf("%s should have no checker", id)
		}
	}
}
