package core

import "fmt"

// Translator looks up localized strings. It returns false when key has no
// translation, so callers can fall back to untranslated text.
type Translator interface {
	Translate(key string, args ...any) (string, bool)
}

// MapTranslator translates from an in-memory table of format strings.
type MapTranslator map[string]string

// Translate implements Translator.
func (m MapTranslator) Translate(key string, args ...any) (string, bool) {
	format, ok := m[key]
	if !ok {
		return "", false
	}
	if len(args) == 0 {
		return format, true
	}
	return fmt.Sprintf(format, args...), true
}

// DefaultTranslator holds the English strings the core itself needs.
var DefaultTranslator Translator = MapTranslator{
	"modmenu.update.version":         "Version %s (%s)",
	"modmenu.update.channel.alpha":   "Alpha",
	"modmenu.update.channel.beta":    "Beta",
	"modmenu.update.channel.release": "Release",
	"modmenu.sources":                "Sources",
	"modmenu.badge.library":          "Library",
	"modmenu.badge.deprecated":       "Deprecated",
	"modmenu.badge.host":             "Equilinox",
	"modmenu.badge.update":           "Update",
}

// TranslateOr translates key, returning fallback when tr is nil or has no entry.
func TranslateOr(tr Translator, key, fallback string, args ...any) string {
	if tr == nil {
		return fallback
	}
	if s, ok := tr.Translate(key, args...); ok {
		return s
	}
	return fallback
}

// Chain tries each translator in order.
type Chain []Translator

// Translate implements Translator.
func (c Chain) Translate(key string, args ...any) (string, bool) {
	for _, tr := range c {
		if tr == nil {
			continue
		}
		if s, ok := tr.Translate(key, args...); ok {
			return s, true
		}
	}
	return "", false
}
