package core

import (
	"github.com/git-pkgs/modmenu/client"
)

// Type aliases so checker implementations only import core.
type (
	Client         = client.Client
	Option         = client.Option
	HTTPError      = client.HTTPError
	RateLimitError = client.RateLimitError
)

// Function aliases.
var (
	DefaultClient  = client.DefaultClient
	NewClient      = client.NewClient
	WithTimeout    = client.WithTimeout
	WithMaxRetries = client.WithMaxRetries
	WithAuth       = client.WithAuth
)
