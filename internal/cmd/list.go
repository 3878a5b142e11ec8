package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/git-pkgs/modmenu/internal/catalog"
	"github.com/git-pkgs/modmenu/internal/core"
	"github.com/git-pkgs/modmenu/internal/output"
)

type listOptions struct {
	manifest string
	sort     string
	channel  string
	check    bool
	timeout  time.Duration
}

func newListCmd(g *globals) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List mods grouped under their parents",
		Long: `List the mods described by a manifest file or directory.

Children are shown beneath their root mod. With --check, update checks run
before the list is printed and mods with an update get a badge.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), cmd.OutOrStdout(), g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.manifest, "manifest", "m", "", "Manifest file or directory")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Sort order: A_Z, Z_A, UPDATE_AVAILABLE (default from preferences)")
	cmd.Flags().StringVar(&opts.channel, "channel", "", "Update channel: alpha, beta, release (default from preferences)")
	cmd.Flags().BoolVar(&opts.check, "check", false, "Check for updates before listing")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "Time limit for update checks")

	return cmd
}

func runList(ctx context.Context, w io.Writer, g *globals, opts *listOptions) error {
	prefs, err := applyOverrides(g.prefs, opts.sort, opts.channel)
	if err != nil {
		return err
	}
	reg, err := buildRegistry(opts.manifest, opts.timeout)
	if err != nil {
		return err
	}

	if opts.check && !prefs.EnableUpdateChecks {
		output.Warn("update checking is disabled in preferences, ignoring --check")
	}
	if opts.check && prefs.EnableUpdateChecks {
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithTimeout(ctx, opts.timeout)
		defer cancel()
		run := reg.CheckForUpdates(ctx, prefs)
		select {
		case <-run.Done():
		case <-ctx.Done():
			output.Warn("update checks still running, listing what has finished", "timeout", opts.timeout)
		}
	}

	render(w, reg, reg.Sorted(prefs.SortOrder))
	return nil
}

func applyOverrides(prefs catalog.Preferences, sort, channel string) (catalog.Preferences, error) {
	if sort != "" {
		order, err := catalog.ParseSortOrder(sort)
		if err != nil {
			return prefs, err
		}
		prefs.SortOrder = order
	}
	if channel != "" {
		ch, err := core.ParseChannel(channel)
		if err != nil {
			return prefs, err
		}
		prefs.UpdateChannel = ch
	}
	return prefs, nil
}

// render prints mods one per line, indented by their depth below their root.
func render(w io.Writer, reg *catalog.Registry, mods []*catalog.Descriptor) {
	for _, d := range mods {
		var b strings.Builder
		b.WriteString(strings.Repeat("  ", depth(reg, d)))
		b.WriteString(output.StyleName.Render(d.Name()))
		if d.Version() != "" {
			b.WriteString(" " + output.StyleDim.Render(d.Version()))
		}
		for _, badge := range d.Badges() {
			label := core.TranslateOr(core.DefaultTranslator, badge.TranslationKey(), badge.String())
			b.WriteString(" " + output.Badge(badge.String(), label))
		}
		if info := d.UpdateInfo(); info != nil {
			b.WriteString(" " + output.StyleDim.Render(fmt.Sprintf("-> %s %s", info.Message, info.URL)))
		}
		_, _ = fmt.Fprintln(w, b.String())
	}
}

// depth counts the registered ancestors between d and its root.
func depth(reg *catalog.Registry, d *catalog.Descriptor) int {
	root := reg.Root(d)
	n := 0
	current := d
	for current != root {
		parentID, ok := reg.Parent(current.ID())
		if !ok {
			break
		}
		parent, ok := reg.Get(parentID)
		if !ok {
			break
		}
		current = parent
		n++
	}
	return n
}
