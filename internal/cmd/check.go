package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/git-pkgs/modmenu/internal/catalog"
	"github.com/git-pkgs/modmenu/internal/output"
)

type checkOptions struct {
	manifest string
	channel  string
	timeout  time.Duration
}

func newCheckCmd(g *globals) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check every mod with an update source for newer releases",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), cmd.OutOrStdout(), g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.manifest, "manifest", "m", "", "Manifest file or directory")
	cmd.Flags().StringVar(&opts.channel, "channel", "", "Update channel: alpha, beta, release (default from preferences)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "Time limit for update checks")

	return cmd
}

func runCheck(ctx context.Context, w io.Writer, g *globals, opts *checkOptions) error {
	prefs, err := applyOverrides(g.prefs, "", opts.channel)
	if err != nil {
		return err
	}
	if !prefs.EnableUpdateChecks {
		_, _ = fmt.Fprintln(w, "update checking is disabled in preferences")
		return nil
	}
	reg, err := buildRegistry(opts.manifest, opts.timeout)
	if err != nil {
		return err
	}

	checkable := 0
	for _, d := range reg.Mods() {
		if d.HasUpdateChecker() {
			checkable++
		}
	}
	if checkable == 0 {
		_, _ = fmt.Fprintln(w, "no mods with an update source")
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	var mu sync.Mutex
	run := reg.CheckForUpdates(ctx, prefs, catalog.OnResult(func(res catalog.Result) {
		mu.Lock()
		defer mu.Unlock()
		printResult(w, reg, res)
	}))
	<-run.Done()

	updates := 0
	for _, res := range run.Results() {
		if res.Info != nil {
			updates++
		}
	}
	_, _ = fmt.Fprintf(w, "%d of %d mods have updates\n", updates, checkable)
	return nil
}

func printResult(w io.Writer, reg *catalog.Registry, res catalog.Result) {
	name := res.ModID
	version := ""
	if d, ok := reg.Get(res.ModID); ok {
		name, version = d.Name(), d.Version()
	}
	switch {
	case res.Err != nil:
		_, _ = fmt.Fprintf(w, "%s %s\n", output.StyleName.Render(name), output.StyleDim.Render("check failed: "+res.Err.Error()))
	case res.Info != nil:
		_, _ = fmt.Fprintf(w, "%s %s -> %s %s\n", output.StyleName.Render(name), version,
			output.Badge("update", res.Info.Message), res.Info.URL)
	default:
		_, _ = fmt.Fprintf(w, "%s %s %s\n", output.StyleName.Render(name), version, output.StyleDim.Render("up to date"))
	}
}
