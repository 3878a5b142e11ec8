// Package core provides the shared update-checking types and the checker registry.
package core

import (
	"fmt"
	"strings"
)

// Channel is an update-stability tier. It classifies a discovered release and,
// as a user preference, filters which candidates are considered.
type Channel int

const (
	Alpha Channel = iota
	Beta
	Release
)

var channelNames = [...]string{"alpha", "beta", "release"}

// String returns the lowercase channel name.
func (c Channel) String() string {
	if c < Alpha || c > Release {
		return fmt.Sprintf("channel(%d)", int(c))
	}
	return channelNames[c]
}

// ParseChannel parses a channel name case-insensitively.
func ParseChannel(s string) (Channel, error) {
	for i, name := range channelNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Channel(i), nil
		}
	}
	return Release, fmt.Errorf("unknown update channel %q", s)
}

// Excludes reports whether a candidate flagged as unstable (prerelease,
// snapshot, not marked stable) is filtered out under preference c.
// Only the Release preference filters anything.
func (c Channel) Excludes(unstable bool) bool {
	return c == Release && unstable
}

// MarshalText implements encoding.TextMarshaler.
func (c Channel) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Channel) UnmarshalText(b []byte) error {
	parsed, err := ParseChannel(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UpdateInfo describes a newer release found for a mod. It is immutable once built.
type UpdateInfo struct {
	Message string  // localized, ready to display
	URL     string  // release page
	Version string  // friendly version string of the release
	Channel Channel // stability of the release
}

// NewUpdateInfo builds an UpdateInfo with its message localized through tr.
// A nil tr uses DefaultTranslator.
func NewUpdateInfo(tr Translator, url, version string, channel Channel) *UpdateInfo {
	if tr == nil {
		tr = DefaultTranslator
	}
	channelName := TranslateOr(tr, "modmenu.update.channel."+channel.String(), channel.String())
	return &UpdateInfo{
		Message: TranslateOr(tr, "modmenu.update.version", fmt.Sprintf("%s (%s)", version, channelName), version, channelName),
		URL:     url,
		Version: version,
		Channel: channel,
	}
}

// Source is a declarative description of where a mod publishes releases.
// Mods write it into their metadata; the registry turns it into a Checker
// through the factory registered for Kind.
type Source struct {
	Kind       string // "github", "maven", "loader", ...
	ModID      string // mod the releases belong to
	Identifier string // owner/name, group:artifact, PURL, ...
	Repository string // repository base URL where the kind needs one

	// Translator localizes update messages; nil uses DefaultTranslator.
	Translator Translator
}
