// Package all registers every built-in update checker kind.
//
// Import this package for side effects:
//
//	import _ "github.com/git-pkgs/modmenu/all"
package all

import (
	_ "github.com/git-pkgs/modmenu/internal/github"
	_ "github.com/git-pkgs/modmenu/internal/loader"
	_ "github.com/git-pkgs/modmenu/internal/maven"
)
