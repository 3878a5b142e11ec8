// Package catalog builds the mod registry: one Descriptor per installed
// package, the parent/child hierarchy between them, the update checks run
// against them and the order they are listed in.
package catalog

// Person is an author or contributor declared by a mod.
type Person struct {
	Name    string
	Contact map[string]string
}

// Contact holds the well-known contact URLs of a mod. Empty means absent.
type Contact struct {
	Homepage string
	Issues   string
	Sources  string
}

// Container is an installed package as reported by the host's loader.
type Container interface {
	ID() string
	Name() string
	Description() string
	Version() string
	Authors() []Person
	Contributors() []Person
	Licenses() []string
	Contact() Contact

	// CustomValue returns the decoded value of a top-level custom metadata
	// key: string, bool, number, []any or map[string]any.
	CustomValue(key string) (any, bool)

	// IconPath returns the path of the icon best matching size pixels.
	IconPath(size int) (string, bool)

	// Bundled returns the packages shipped inside this one.
	Bundled() []Container
}
