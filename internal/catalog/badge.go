package catalog

// BadgeKind is a short categorical tag shown next to a mod.
type BadgeKind int

const (
	BadgeLibrary BadgeKind = iota
	BadgeDeprecated
	BadgeHostApplication
	BadgeUpdateAvailable
)

var badgeIDs = map[BadgeKind]string{
	BadgeLibrary:         "library",
	BadgeDeprecated:      "deprecated",
	BadgeHostApplication: "host",
	BadgeUpdateAvailable: "update",
}

// String returns the badge id used in metadata and styles.
func (b BadgeKind) String() string {
	if id, ok := badgeIDs[b]; ok {
		return id
	}
	return "unknown"
}

// Declarable reports whether mods may declare the badge themselves.
func (b BadgeKind) Declarable() bool {
	return b == BadgeLibrary || b == BadgeDeprecated
}

// TranslationKey returns the key of the badge's display label.
func (b BadgeKind) TranslationKey() string {
	return "modmenu.badge." + b.String()
}

// ParseBadge looks a badge up by id.
func ParseBadge(id string) (BadgeKind, bool) {
	for kind, s := range badgeIDs {
		if s == id {
			return kind, true
		}
	}
	return 0, false
}

// Badges assigned by id rather than declared.
var (
	libraryIDs = map[string]bool{"fabricloader": true, "mixinextras": true, RuntimeID: true}
	hostIDs    = map[string]bool{HostID: true}
)
