// Package version parses and orders the version strings published by mods
// and their remote release sources.
package version

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrInvalid is returned when a string is not a semantic version.
var ErrInvalid = errors.New("invalid version")

// Version is a parsed semantic version. The zero value is not a valid version
// and sorts before every parsed one.
type Version struct {
	raw       string
	canonical string
}

// Parse parses s as major[.minor[.patch]][-prerelease][+build].
// A leading "v" is rejected; callers dealing with git tags should use StripV first.
func Parse(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed[0] < '0' || trimmed[0] > '9' {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	v := "v" + trimmed
	if !semver.IsValid(v) {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return Version{raw: trimmed, canonical: v}, nil
}

// MustParse is like Parse but panics on malformed input. Intended for constants and tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// StripV removes a single leading "v" or "V" from a release tag.
func StripV(tag string) string {
	if len(tag) > 1 && (tag[0] == 'v' || tag[0] == 'V') {
		return tag[1:]
	}
	return tag
}

// Compare returns -1, 0 or +1 following semantic-versioning precedence.
// Build metadata does not take part in the ordering.
func (v Version) Compare(other Version) int {
	switch {
	case v.IsZero() && other.IsZero():
		return 0
	case v.IsZero():
		return -1
	case other.IsZero():
		return 1
	}
	return semver.Compare(v.canonical, other.canonical)
}

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

// Equal reports whether v and other have the same precedence.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// IsZero reports whether v is the unparsed zero value.
func (v Version) IsZero() bool {
	return v.canonical == ""
}

// Prerelease returns the prerelease suffix without the leading "-", or "".
func (v Version) Prerelease() string {
	return strings.TrimPrefix(semver.Prerelease(v.canonical), "-")
}

// String returns the version as it was written.
func (v Version) String() string {
	return v.raw
}
