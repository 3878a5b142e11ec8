// Package loader checks the platform loader's version feed for updates.
package loader

import (
	"context"
	"encoding/json"

	"github.com/git-pkgs/modmenu/internal/core"
	"github.com/git-pkgs/modmenu/internal/output"
	"github.com/git-pkgs/modmenu/internal/version"
)

const (
	// Endpoint lists every published loader version.
	Endpoint = "https://meta.fabricmc.net/v2/versions/loader"
	// UpdateURL is where users go to install a newer loader.
	UpdateURL = "https://github.com/SilkLoader/silk-installer/releases/latest"

	kind = "loader"
)

func init() {
	core.Register(kind, func(src core.Source, client *core.Client) (core.Checker, error) {
		opts := []Option{WithClient(client), WithTranslator(src.Translator)}
		if src.Repository != "" {
			opts = append(opts, WithEndpoint(src.Repository))
		}
		return New(src.ModID, opts...), nil
	})
}

// Checker reports newer loader versions.
type Checker struct {
	modID    string
	endpoint string
	client   *core.Client
	tr       core.Translator
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

// WithEndpoint overrides the feed URL.
func WithEndpoint(u string) Option {
	return func(ch *Checker) {
		ch.endpoint = u
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

// New creates a loader checker reporting under modID.
func New(modID string, opts ...Option) *Checker {
	c := &Checker{
		modID:    modID,
		endpoint: Endpoint,
		tr:       core.DefaultTranslator,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = core.DefaultClient()
	}
	return c
}

type entry struct {
	Version string `json:"version"`
	Stable  *bool  `json:"stable"`
}

func (e entry) stable() bool {
	return e.Stable != nil && *e.Stable
}

// CheckForUpdates implements core.Checker.
func (c *Checker) CheckForUpdates(ctx context.Context, current string, pref core.Channel) (*core.UpdateInfo, error) {
	if current == "" {
		output.Info("skipping update check, loader is not loaded", "mod", c.modID)
		return nil, nil
	}

	var raw []json.RawMessage
	if err := c.client.GetJSON(ctx, c.endpoint, &raw); err != nil {
		return nil, core.NewCheckError(c.modID, "fetching loader versions", err)
	}
	entries := core.DecodeObjects[entry](raw, func(_ json.RawMessage, err error) {
		output.Warn("skipping malformed loader version entry", "mod", c.modID, "err", err)
	})

	candidates := make([]entry, 0, len(entries))
	for _, e := range entries {
		if pref.Excludes(!e.stable()) {
			continue
		}
		candidates = append(candidates, e)
	}

	latest, latestVersion, found := core.SelectLatest(candidates,
		func(e entry) (version.Version, error) { return version.Parse(e.Version) },
		func(e entry, err error) {
			output.Warn("skipping unparseable loader version", "mod", c.modID, "version", e.Version, "err", err)
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

	channel := core.Release
	if !latest.stable() {
		channel = core.Beta
	}
	return core.NewUpdateInfo(c.tr, UpdateURL, latestVersion.String(), channel), nil
}
