// Package modmenu catalogs installed mods, groups them under their parents
// and checks remote sources for newer releases.
//
// Basic usage:
//
//	import (
//		"context"
//		"github.com/git-pkgs/modmenu"
//	)
//
//	reg := modmenu.Build(containers)
//	run := reg.CheckForUpdates(context.Background(), modmenu.DefaultPreferences())
//	<-run.Done()
//	for _, mod := range reg.Sorted(modmenu.AToZ) {
//		fmt.Println(mod.Name(), mod.UpdateInfo())
//	}
//
// Every built-in checker kind is registered by this package. Importing the
// all subpackage does the same for programs using the core registry only:
//
//	import _ "github.com/git-pkgs/modmenu/all"
package modmenu

import (
	_ "github.com/git-pkgs/modmenu/all"
	"github.com/git-pkgs/modmenu/client"
	"github.com/git-pkgs/modmenu/internal/catalog"
	"github.com/git-pkgs/modmenu/internal/core"
	"github.com/git-pkgs/modmenu/internal/version"
)

// Re-export types from internal/catalog
type (
	// Registry holds every known mod and the hierarchy between them.
	Registry = catalog.Registry

	// Descriptor is the catalog entry for one mod.
	Descriptor = catalog.Descriptor

	// Container is an installed package as reported by the host's loader.
	Container = catalog.Container

	Person      = catalog.Person
	Contact     = catalog.Contact
	Contributor = catalog.Contributor
	Credit      = catalog.Credit
	Link        = catalog.Link
	BadgeKind   = catalog.BadgeKind

	// Provider lets a mod contribute a config panel or update checker.
	Provider      = catalog.Provider
	ConfigFactory = catalog.ConfigFactory
	HostRuntime   = catalog.HostRuntime
	BuildOption   = catalog.BuildOption

	Preferences = catalog.Preferences
	SortOrder   = catalog.SortOrder
	CheckRun    = catalog.CheckRun
	CheckOption = catalog.CheckOption
	Result      = catalog.Result
)

// Re-export types from internal/core
type (
	// Checker looks up whether a newer release of a mod exists.
	Checker     = core.Checker
	CheckerFunc = core.CheckerFunc
	UpdateInfo  = core.UpdateInfo
	Channel     = core.Channel
	Source      = core.Source
	Translator  = core.Translator

	CheckError       = core.CheckError
	IdentifierError  = core.IdentifierError
	DeclarationError = core.DeclarationError
)

// Version is a parsed semantic version.
type Version = version.Version

// Client is the HTTP client checkers use.
type Client = client.Client

// Option configures a Client.
type Option = client.Option

// Re-export constants
const (
	Alpha   = core.Alpha
	Beta    = core.Beta
	Release = core.Release

	AToZ            = catalog.AToZ
	ZToA            = catalog.ZToA
	UpdateAvailable = catalog.UpdateAvailable

	BadgeLibrary         = catalog.BadgeLibrary
	BadgeDeprecated      = catalog.BadgeDeprecated
	BadgeHostApplication = catalog.BadgeHostApplication
	BadgeUpdateAvailable = catalog.BadgeUpdateAvailable

	RuntimeID = catalog.RuntimeID
	HostID    = catalog.HostID
)

// Re-export errors
var (
	ErrNotFound       = client.ErrNotFound
	ErrInvalidVersion = version.ErrInvalid
)

// Build creates the registry for containers and everything they bundle.
func Build(containers []Container, opts ...BuildOption) *Registry {
	return catalog.Build(containers, opts...)
}

// Build options.
var (
	WithTranslator        = catalog.WithTranslator
	WithHostRuntime       = catalog.WithHostRuntime
	WithProviders         = catalog.WithProviders
	WithCheckerClient     = catalog.WithCheckerClient
	WithHostConfigFactory = catalog.WithHostConfigFactory
	OnResult              = catalog.OnResult
)

// DefaultPreferences sorts A to Z and checks for release updates.
func DefaultPreferences() Preferences {
	return catalog.DefaultPreferences()
}

// ParseSortOrder parses "A_Z", "Z_A" or "UPDATE_AVAILABLE".
func ParseSortOrder(s string) (SortOrder, error) {
	return catalog.ParseSortOrder(s)
}

// ParseChannel parses "alpha", "beta" or "release".
func ParseChannel(s string) (Channel, error) {
	return core.ParseChannel(s)
}

// ParseVersion parses a semantic version without a leading "v".
func ParseVersion(s string) (Version, error) {
	return version.Parse(s)
}

// PoolSize is the number of update checks run at once.
func PoolSize() int {
	return catalog.PoolSize()
}

// NewChecker creates a checker for a declared update source.
// If c is nil, DefaultClient() is used.
func NewChecker(src Source, c *Client) (Checker, error) {
	return core.New(src, c)
}

// SupportedKinds returns all registered update source kinds.
func SupportedKinds() []string {
	return core.SupportedKinds()
}

// DefaultClient returns a client with sensible defaults:
// - 30s timeout
// - 3 retries with exponential backoff
// - Retry on 429 and 5xx responses
func DefaultClient() *Client {
	return client.DefaultClient()
}

// NewClient creates a new client with the given options.
func NewClient(opts ...Option) *Client {
	return client.NewClient(opts...)
}

// WithTimeout sets the HTTP client timeout.
var WithTimeout = client.WithTimeout

// WithMaxRetries sets the maximum number of retries.
var WithMaxRetries = client.WithMaxRetries
