package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/git-pkgs/modmenu/internal/core"
	"github.com/git-pkgs/modmenu/internal/version"
)

func testClient() *core.Client {
	return core.NewClient(core.WithMaxRetries(0))
}

func releasesServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/SilkLoader/silk-loader/releases" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestParseRepo(t *testing.T) {
	tests := []struct {
		input   string
		owner   string
		repo    string
		wantErr bool
	}{
		{"SilkLoader/silk-loader", "SilkLoader", "silk-loader", false},
		{"https://github.com/SilkLoader/silk-loader", "SilkLoader", "silk-loader", false},
		{"https://github.com/SilkLoader/silk-loader/releases", "SilkLoader", "silk-loader", false},
		{"https://github.com/SilkLoader/silk-loader.git", "SilkLoader", "silk-loader", false},
		{"SilkLoader/silk-loader.git", "SilkLoader", "silk-loader", false},
		{"SilkLoader/.git", "", "", true},
		{"https://github.com/SilkLoader/.git", "", "", true},
		{"silk-loader", "", "", true},
		{"/silk-loader", "", "", true},
		{"SilkLoader/", "", "", true},
		{"a/b/c", "", "", true},
		{"https://github.com", "", "", true},
		{"https://github.com/SilkLoader", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		owner, repo, err := ParseRepo(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRepo(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			var idErr *core.IdentifierError
			if !errors.As(err, &idErr) {
				t.Errorf("ParseRepo(%q) error type = %T, want *core.IdentifierError", tt.input, err)
			}
			continue
		}
		if owner != tt.owner || repo != tt.repo {
			t.Errorf("ParseRepo(%q) = (%q, %q), want (%q, %q)", tt.input, owner, repo, tt.owner, tt.repo)
		}
	}
}

func TestNewRejectsMalformedIdentifier(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	_, err := New("silkloader", "not-a-repo", WithBaseURL(server.URL))
	var idErr *core.IdentifierError
	if !errors.As(err, &idErr) {
		t.Fatalf("expected *core.IdentifierError, got %v", err)
	}
	if requests != 0 {
		t.Errorf("expected no requests, got %d", requests)
	}
}

func TestCheckForUpdates_PicksGreatestStable(t *testing.T) {
	server := releasesServer(t, http.StatusOK, `[
		{"tag_name": "v1.2.0", "prerelease": false},
		{"tag_name": "v1.3.0", "prerelease": false},
		{"tag_name": "v2.0.0-beta.1", "prerelease": true},
		{"tag_name": "v9.9.9", "prerelease": false, "draft": true}
	]`)

	c, err := New("silkloader", "SilkLoader/silk-loader", WithBaseURL(server.URL), WithClient(testClient()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	info, err := c.CheckForUpdates(context.Background(), "1.2.0", core.Release)
	if err != nil {
		t.Fatalf("CheckForUpdates failed: %v", err)
	}
	if info == nil {
		t.Fatal("expected an update")
	}
	if info.Version != "1.3.0" {
		t.Errorf("version = %q, want %q", info.Version, "1.3.0")
	}
	if info.Channel != core.Release {
		t.Errorf("channel = %v, want Release", info.Channel)
	}
	if info.URL != "https://github.com/SilkLoader/silk-loader/releases/v1.3.0" {
		t.Errorf("url = %q", info.URL)
	}
	if info.Message != "Version 1.3.0 (Release)" {
		t.Errorf("message = %q", info.Message)
	}
}

func TestCheckForUpdates_BetaPreferenceIncludesPrereleases(t *testing.T) {
	server := releasesServer(t, http.StatusOK, `[
		{"tag_name": "v1.3.0", "prerelease": false},
		{"tag_name": "v2.0.0-beta.1", "prerelease": true}
	]`)

	c, err := New("silkloader", "SilkLoader/silk-loader", WithBaseURL(server.URL), WithClient(testClient()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	info, err := c.CheckForUpdates(context.Background(), "1.2.0", core.Beta)
	if err != nil {
		t.Fatalf("CheckForUpdates failed: %v", err)
	}
	if info == nil || info.Version != "2.0.0-beta.1" {
		t.Fatalf("expected 2.0.0-beta.1, got %+v", info)
	}
	if info.Channel != core.Beta {
		t.Errorf("channel = %v, want Beta", info.Channel)
	}
}

func TestCheckForUpdates_NoNewerRelease(t *testing.T) {
	server := releasesServer(t, http.StatusOK, `[{"tag_name": "v1.2.0"}, {"tag_name": "v1.1.0"}]`)

	c, _ := New("silkloader", "SilkLoader/silk-loader", WithBaseURL(server.URL), WithClient(testClient()))
	info, err := c.CheckForUpdates(context.Background(), "1.2.0", core.Release)
	if err != nil {
		t.Fatalf("CheckForUpdates failed: %v", err)
	}
	if info != nil {
		t.Errorf("expected no update, got %+v", info)
	}
}

func TestCheckForUpdates_SkipsUnparseableTags(t *testing.T) {
	server := releasesServer(t, http.StatusOK, `[
		{"tag_name": "nightly"},
		{"tag_name": "v1.4.0"},
		{"tag_name": "release-candidate"}
	]`)

	c, _ := New("silkloader", "SilkLoader/silk-loader", WithBaseURL(server.URL), WithClient(testClient()))
	info, err := c.CheckForUpdates(context.Background(), "1.0.0", core.Release)
	if err != nil {
		t.Fatalf("CheckForUpdates failed: %v", err)
	}
	if info == nil || info.Version != "1.4.0" {
		t.Fatalf("expected 1.4.0, got %+v", info)
	}
}

func TestParseRepoFormsAgree(t *testing.T) {
	for _, pair := range [][2]string{
		{"o/x", "https://github.com/o/x"},
		{"o/x.git", "https://github.com/o/x.git"},
		{"o/x.git", "https://github.com/o/x"},
	} {
		shortOwner, shortRepo, err := ParseRepo(pair[0])
		if err != nil {
			t.Fatalf("ParseRepo(%q) failed: %v", pair[0], err)
		}
		urlOwner, urlRepo, err := ParseRepo(pair[1])
		if err != nil {
			t.Fatalf("ParseRepo(%q) failed: %v", pair[1], err)
		}
		if shortOwner != urlOwner || shortRepo != urlRepo {
			t.Errorf("ParseRepo(%q) = (%q, %q), ParseRepo(%q) = (%q, %q)",
				pair[0], shortOwner, shortRepo, pair[1], urlOwner, urlRepo)
		}
	}
}

func TestCheckForUpdates_SkipsMalformedEntries(t *testing.T) {
	server := releasesServer(t, http.StatusOK, `[
		"v9.0.0",
		42,
		null,
		{"tag_name": 5},
		{"tag_name": "v1.4.0"},
		["v8.0.0"]
	]`)

	c, _ := New("silkloader", "SilkLoader/silk-loader", WithBaseURL(server.URL), WithClient(testClient()))
	info, err := c.CheckForUpdates(context.Background(), "1.0.0", core.Release)
	if err != nil {
		t.Fatalf("CheckForUpdates failed: %v", err)
	}
	if info == nil || info.Version != "1.4.0" {
		t.Fatalf("expected 1.4.0, got %+v", info)
	}
}

func TestCheckForUpdates_TiesKeepFirst(t *testing.T) {
	server := releasesServer(t, http.StatusOK, `[
		{"tag_name": "v2.0.0+first"},
		{"tag_name": "v2.0.0+second"}
	]`)

	c, _ := New("silkloader", "SilkLoader/silk-loader", WithBaseURL(server.URL), WithClient(testClient()))
	info, err := c.CheckForUpdates(context.Background(), "1.0.0", core.Release)
	if err != nil {
		t.Fatalf("CheckForUpdates failed: %v", err)
	}
	if info == nil || info.URL != "https://github.com/SilkLoader/silk-loader/releases/v2.0.0+first" {
		t.Fatalf("expected first of the tied releases, got %+v", info)
	}
}

func TestCheckForUpdates_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		current string
	}{
		{"server error", http.StatusInternalServerError, `oops`, "1.0.0"},
		{"not found", http.StatusNotFound, `{}`, "1.0.0"},
		{"not an array", http.StatusOK, `{"message": "hello"}`, "1.0.0"},
		{"unparseable installed version", http.StatusOK, `[{"tag_name": "v1.0.0"}]`, "banana"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := releasesServer(t, tt.status, tt.body)
			c, _ := New("silkloader", "SilkLoader/silk-loader", WithBaseURL(server.URL), WithClient(testClient()))

			info, err := c.CheckForUpdates(context.Background(), tt.current, core.Release)
			if info != nil {
				t.Errorf("expected no update info, got %+v", info)
			}
			var checkErr *core.CheckError
			if !errors.As(err, &checkErr) {
				t.Fatalf("expected *core.CheckError, got %v", err)
			}
			if checkErr.ModID != "silkloader" {
				t.Errorf("ModID = %q, want silkloader", checkErr.ModID)
			}
		})
	}
}

func TestCheckForUpdates_NotInstalled(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(`[{"tag_name": "v9.0.0"}]`))
	}))
	defer server.Close()

	c, _ := New("silkloader", "SilkLoader/silk-loader", WithBaseURL(server.URL), WithClient(testClient()))
	info, err := c.CheckForUpdates(context.Background(), "", core.Release)
	if err != nil || info != nil {
		t.Fatalf("expected (nil, nil), got (%+v, %v)", info, err)
	}
	if requests != 0 {
		t.Errorf("expected no requests, got %d", requests)
	}
}

func TestCheckForUpdates_CustomHooks(t *testing.T) {
	server := releasesServer(t, http.StatusOK, `[{"tag_name": "release-3"}, {"tag_name": "release-5"}]`)

	c, err := New("silkloader", "SilkLoader/silk-loader",
		WithBaseURL(server.URL),
		WithClient(testClient()),
		WithTagParser(func(tag string) (version.Version, error) {
			return version.Parse(tag[len("release-"):])
		}),
		WithReleaseURL(func(tag string) string { return "https://example.com/" + tag }),
		WithChannelFunc(func(version.Version, bool) core.Channel { return core.Alpha }),
		WithTranslator(core.MapTranslator{
			"modmenu.update.version":       "v%s [%s]",
			"modmenu.update.channel.alpha": "α",
		}),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	info, err := c.CheckForUpdates(context.Background(), "4", core.Release)
	if err != nil {
		t.Fatalf("CheckForUpdates failed: %v", err)
	}
	if info == nil {
		t.Fatal("expected an update")
	}
	if info.URL != "https://example.com/release-5" {
		t.Errorf("url = %q", info.URL)
	}
	if info.Channel != core.Alpha {
		t.Errorf("channel = %v, want Alpha", info.Channel)
	}
	if info.Message != "v5 [α]" {
		t.Errorf("message = %q", info.Message)
	}
}

func TestURLs(t *testing.T) {
	c, err := NewWithRepo("silkloader", "SilkLoader", "silk-installer")
	if err != nil {
		t.Fatalf("NewWithRepo failed: %v", err)
	}
	urls := c.URLs()
	if got := urls.Repository(); got != "https://github.com/SilkLoader/silk-installer" {
		t.Errorf("Repository() = %q", got)
	}
	if got := urls.Latest(); got != "https://github.com/SilkLoader/silk-installer/releases/latest" {
		t.Errorf("Latest() = %q", got)
	}
}

func TestRegistered(t *testing.T) {
	chk, err := core.New(core.Source{Kind: "github", ModID: "x", Identifier: "owner/name"}, testClient())
	if err != nil {
		t.Fatalf("core.New failed: %v", err)
	}
	if _, ok := chk.(*Checker); !ok {
		t.Errorf("expected *Checker, got %T", chk)
	}
}
