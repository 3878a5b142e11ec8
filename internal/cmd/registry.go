package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/git-pkgs/modmenu/internal/catalog"
	"github.com/git-pkgs/modmenu/internal/core"
	"github.com/git-pkgs/modmenu/internal/github"
	"github.com/git-pkgs/modmenu/internal/manifest"
)

// defaultTimeout bounds update checks and the requests they make.
const defaultTimeout = 30 * time.Second

// buildRegistry loads the manifests at path into a registry whose checkers
// give up on a request after timeout.
func buildRegistry(path string, timeout time.Duration) (*catalog.Registry, error) {
	if path == "" {
		return nil, fmt.Errorf("--manifest is required")
	}
	mods, err := manifest.LoadPath(path)
	if err != nil {
		return nil, err
	}
	return catalog.Build(manifest.Containers(mods),
		catalog.WithCheckerClient(core.NewClient(core.WithTimeout(timeout), core.WithAuth(githubAuth))),
		catalog.WithHostRuntime(catalog.HostRuntime{Version: runtime.Version(), Vendor: "The Go Authors", VendorURL: "https://go.dev/"}),
	), nil
}

// githubAuth sends GITHUB_TOKEN, when set, to the GitHub API only.
func githubAuth(url string) (string, string) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" || !strings.HasPrefix(url, github.DefaultAPIURL+"/") {
		return "", ""
	}
	return "Authorization", "Bearer " + token
}
