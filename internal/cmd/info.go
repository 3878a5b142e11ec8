package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/git-pkgs/modmenu/internal/catalog"
	"github.com/git-pkgs/modmenu/internal/github"
	"github.com/git-pkgs/modmenu/internal/loader"
	"github.com/git-pkgs/modmenu/internal/maven"
	"github.com/git-pkgs/modmenu/internal/output"
)

type infoOptions struct {
	manifest string
}

func newInfoCmd(g *globals) *cobra.Command {
	opts := &infoOptions{}
	cmd := &cobra.Command{
		Use:   "info <mod-id>",
		Short: "Show the details of one mod",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.OutOrStdout(), opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.manifest, "manifest", "m", "", "Manifest file or directory")

	return cmd
}

func runInfo(w io.Writer, opts *infoOptions, id string) error {
	reg, err := buildRegistry(opts.manifest, defaultTimeout)
	if err != nil {
		return err
	}
	d, ok := reg.Get(id)
	if !ok {
		return fmt.Errorf("no mod with id %q", id)
	}

	_, _ = fmt.Fprintf(w, "%s %s\n", output.StyleName.Render(d.Name()), output.StyleDim.Render(d.Version()))
	if d.Description() != "" {
		_, _ = fmt.Fprintln(w, d.Description())
	}
	if parent := d.Parent(); parent != "" {
		_, _ = fmt.Fprintf(w, "Parent: %s\n", parent)
	}
	if source := updateSource(d); source != "" {
		_, _ = fmt.Fprintf(w, "Update source: %s\n", source)
	}

	if licenses := d.Licenses(); len(licenses) > 0 {
		_, _ = fmt.Fprintln(w, "Licenses:")
		for _, l := range licenses {
			if u, ok := d.LicenseURL(l); ok {
				_, _ = fmt.Fprintf(w, "  %s %s\n", l, output.StyleDim.Render(u))
			} else {
				_, _ = fmt.Fprintf(w, "  %s\n", l)
			}
		}
	}
	if credits := d.Credits(); len(credits) > 0 {
		_, _ = fmt.Fprintln(w, "Credits:")
		for _, c := range credits {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", c.Role, strings.Join(c.Names, ", "))
		}
	}
	if links := d.Links(); len(links) > 0 {
		_, _ = fmt.Fprintln(w, "Links:")
		for _, l := range links {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", l.Label, l.URL)
		}
	}
	return nil
}

// updateSource describes where the mod's checker looks for releases.
func updateSource(d *catalog.Descriptor) string {
	switch c := d.UpdateChecker().(type) {
	case *github.Checker:
		return fmt.Sprintf("%s (latest: %s)", c.URLs().Repository(), c.URLs().Latest())
	case *maven.Checker:
		return fmt.Sprintf("%s (metadata: %s)", c.PURL(), c.URLs().Metadata())
	case *loader.Checker:
		return "loader version feed (install: " + loader.UpdateURL + ")"
	case nil:
		return ""
	default:
		return "provided by the mod"
	}
}
