// Package github provides an update checker backed by the GitHub Releases API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/git-pkgs/modmenu/internal/core"
	"github.com/git-pkgs/modmenu/internal/output"
	"github.com/git-pkgs/modmenu/internal/version"
)

const (
	DefaultAPIURL = "https://api.github.com"
	kind          = "github"
)

func init() {
	core.Register(kind, func(src core.Source, client *core.Client) (core.Checker, error) {
		return New(src.ModID, src.Identifier, WithClient(client), WithTranslator(src.Translator))
	})
}

// ReleaseURLFunc maps a release tag to the page users are sent to.
type ReleaseURLFunc func(tag string) string

// ChannelFunc classifies a selected release.
type ChannelFunc func(v version.Version, prerelease bool) core.Channel

// Checker reports newer GitHub releases of one repository.
type Checker struct {
	modID  string
	owner  string
	repo   string
	apiURL string
	client *core.Client
	tr     core.Translator
	urls   *URLs

	releaseURL ReleaseURLFunc
	channel    ChannelFunc
	parseTag   core.ParseFunc
}

// Option configures a Checker.
type Option func(*Checker)

// WithClient sets the HTTP client.
func WithClient(c *core.Client) Option {
	return func(ch *Checker) {
		if c != nil {
			ch.client = c
		}
	}
}

// WithBaseURL overrides the API base URL, primarily for test servers.
func WithBaseURL(base string) Option {
	return func(ch *Checker) {
		ch.apiURL = strings.TrimRight(base, "/")
	}
}

// WithReleaseURL overrides the release page URL builder.
func WithReleaseURL(fn ReleaseURLFunc) Option {
	return func(ch *Checker) {
		ch.releaseURL = fn
	}
}

// WithChannelFunc overrides how the selected release is classified.
func WithChannelFunc(fn ChannelFunc) Option {
	return func(ch *Checker) {
		ch.channel = fn
	}
}

// WithTagParser overrides how release tags are parsed into versions.
func WithTagParser(fn core.ParseFunc) Option {
	return func(ch *Checker) {
		ch.parseTag = fn
	}
}

// WithTranslator sets the translator used for the update message.
func WithTranslator(tr core.Translator) Option {
	return func(ch *Checker) {
		if tr != nil {
			ch.tr = tr
		}
	}
}

// New creates a checker for modID from a repository identifier in
// "owner/name" or "https://github.com/owner/name" form. Malformed
// identifiers are rejected with a *core.IdentifierError.
func New(modID, identifier string, opts ...Option) (*Checker, error) {
	owner, repo, err := ParseRepo(identifier)
	if err != nil {
		return nil, err
	}
	return NewWithRepo(modID, owner, repo, opts...)
}

// NewWithRepo creates a checker from an explicit owner and repository name.
func NewWithRepo(modID, owner, repo string, opts ...Option) (*Checker, error) {
	switch {
	case strings.TrimSpace(modID) == "":
		return nil, &core.IdentifierError{Kind: "mod id", Input: modID, Reason: "must not be blank"}
	case strings.TrimSpace(owner) == "":
		return nil, &core.IdentifierError{Kind: "repository owner", Input: owner, Reason: "must not be blank"}
	case strings.TrimSpace(repo) == "":
		return nil, &core.IdentifierError{Kind: "repository name", Input: repo, Reason: "must not be blank"}
	}

	c := &Checker{
		modID:  modID,
		owner:  owner,
		repo:   repo,
		apiURL: DefaultAPIURL,
		tr:     core.DefaultTranslator,
		urls:   &URLs{owner: owner, repo: repo},
		channel: func(_ version.Version, prerelease bool) core.Channel {
			if prerelease {
				return core.Beta
			}
			return core.Release
		},
		parseTag: func(tag string) (version.Version, error) {
			return version.Parse(version.StripV(tag))
		},
	}
	c.releaseURL = c.urls.Release
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = core.DefaultClient()
	}
	return c, nil
}

// ParseRepo extracts owner and repository name from "owner/name" or a URL
// whose path starts with /owner/name.
func ParseRepo(identifier string) (owner, repo string, err error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", "", &core.IdentifierError{Kind: "repository", Input: identifier, Reason: "must not be blank"}
	}

	if strings.Contains(identifier, "://") {
		u, parseErr := url.Parse(identifier)
		if parseErr != nil {
			return "", "", &core.IdentifierError{Kind: "repository", Input: identifier, Reason: "invalid URL", Err: parseErr}
		}
		path := strings.Trim(u.Path, "/")
		if path == "" {
			return "", "", &core.IdentifierError{Kind: "repository", Input: identifier, Reason: "URL has no repository path"}
		}
		parts := strings.Split(path, "/")
		if len(parts) < 2 || parts[0] == "" || repoName(parts[1]) == "" {
			return "", "", &core.IdentifierError{Kind: "repository", Input: identifier, Reason: "could not extract owner and repository name from URL"}
		}
		return parts[0], repoName(parts[1]), nil
	}

	parts := strings.Split(identifier, "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(repoName(parts[1])) == "" {
		return "", "", &core.IdentifierError{
			Kind:   "repository",
			Input:  identifier,
			Reason: "must be 'owner/name' with two non-empty parts",
		}
	}
	return parts[0], repoName(parts[1]), nil
}

// repoName drops the ".git" suffix of a clone path.
func repoName(s string) string {
	return strings.TrimSuffix(s, ".git")
}

// Owner returns the repository owner.
func (c *Checker) Owner() string { return c.owner }

// Repo returns the repository name.
func (c *Checker) Repo() string { return c.repo }

// URLs returns the URL builder for this repository.
func (c *Checker) URLs() *URLs { return c.urls }

type release struct {
	TagName    string `json:"tag_name"`
	Prerelease bool   `json:"prerelease"`
	Draft      bool   `json:"draft"`
}

// CheckForUpdates implements core.Checker.
func (c *Checker) CheckForUpdates(ctx context.Context, current string, pref core.Channel) (*core.UpdateInfo, error) {
	if current == "" {
		output.Info("skipping update check, mod is not loaded", "mod", c.modID)
		return nil, nil
	}

	var raw []json.RawMessage
	if err := c.client.GetJSON(ctx, c.releasesURL(), &raw); err != nil {
		return nil, core.NewCheckError(c.modID, "fetching releases", err)
	}
	releases := core.DecodeObjects[release](raw, func(_ json.RawMessage, err error) {
		output.Warn("skipping malformed release entry", "mod", c.modID, "err", err)
	})

	candidates := make([]release, 0, len(releases))
	for _, r := range releases {
		if r.Draft || pref.Excludes(r.Prerelease) {
			continue
		}
		candidates = append(candidates, r)
	}

	latest, latestVersion, found := core.SelectLatest(candidates,
		func(r release) (version.Version, error) { return c.parseTag(r.TagName) },
		func(r release, err error) {
			output.Warn("skipping release with unparseable tag", "mod", c.modID, "tag", r.TagName, "err", err)
		})
	if !found {
		return nil, nil
	}

	newer, err := core.IsNewer(latestVersion, current)
	if err != nil {
		return nil, core.NewCheckError(c.modID, "parsing installed version", err)
	}
	if !newer {
		return nil, nil
	}

	return core.NewUpdateInfo(c.tr, c.releaseURL(latest.TagName), latestVersion.String(),
		c.channel(latestVersion, latest.Prerelease)), nil
}

func (c *Checker) releasesURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/releases", c.apiURL, url.PathEscape(c.owner), url.PathEscape(c.repo))
}

// URLs builds browser URLs for a repository.
type URLs struct {
	owner string
	repo  string
}

// Repository returns the repository home page.
func (u *URLs) Repository() string {
	return fmt.Sprintf("https://github.com/%s/%s", u.owner, u.repo)
}

// Release returns the page of the release tagged tag.
func (u *URLs) Release(tag string) string {
	return fmt.Sprintf("https://github.com/%s/%s/releases/%s", u.owner, u.repo, tag)
}

// Latest returns the page redirecting to the latest release.
func (u *URLs) Latest() string {
	return fmt.Sprintf("https://github.com/%s/%s/releases/latest", u.owner, u.repo)
}
