package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/git-pkgs/modmenu/internal/version"
)

// Checker looks up whether a newer release of a mod exists.
//
// current is the installed version; an empty string means the mod is not
// installed, and implementations report no update. pref filters candidates.
// A nil *UpdateInfo with a nil error means no update. Failures are returned
// as *CheckError.
type Checker interface {
	CheckForUpdates(ctx context.Context, current string, pref Channel) (*UpdateInfo, error)
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context, current string, pref Channel) (*UpdateInfo, error)

// CheckForUpdates implements Checker.
func (f CheckerFunc) CheckForUpdates(ctx context.Context, current string, pref Channel) (*UpdateInfo, error) {
	return f(ctx, current, pref)
}

// ParseFunc parses a raw candidate (tag, version string) into a Version.
type ParseFunc func(raw string) (version.Version, error)

// SelectLatest returns the candidate with the strictly greatest version.
// Candidates are visited in order and a later candidate replaces the best so
// far only when it is strictly greater, so ties keep the first seen.
// Candidates that fail to parse are passed to onSkip and ignored.
func SelectLatest[T any](items []T, parse func(T) (version.Version, error), onSkip func(T, error)) (best T, bestVersion version.Version, found bool) {
	for _, item := range items {
		v, err := parse(item)
		if err != nil {
			if onSkip != nil {
				onSkip(item, err)
			}
			continue
		}
		if !found || v.Compare(bestVersion) > 0 {
			best, bestVersion, found = item, v, true
		}
	}
	return best, bestVersion, found
}

// IsNewer parses current and reports whether latest is strictly greater.
func IsNewer(latest version.Version, current string) (bool, error) {
	installed, err := version.Parse(current)
	if err != nil {
		return false, err
	}
	return latest.Compare(installed) > 0, nil
}

var errNotObject = errors.New("not a JSON object")

// DecodeObjects decodes every element of items that is a JSON object into a T.
// Other elements, and objects that do not decode, go to onSkip and are left out.
func DecodeObjects[T any](items []json.RawMessage, onSkip func(raw json.RawMessage, err error)) []T {
	out := make([]T, 0, len(items))
	for _, raw := range items {
		if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
			onSkip(raw, errNotObject)
			continue
		}
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			onSkip(raw, err)
			continue
		}
		out = append(out, item)
	}
	return out
}
