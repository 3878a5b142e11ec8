package catalog

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/git-pkgs/modmenu/internal/core"
	"github.com/git-pkgs/modmenu/internal/output"
)

// Preferences are the user settings the catalog reads.
type Preferences struct {
	SortOrder          SortOrder
	UpdateChannel      core.Channel
	EnableUpdateChecks bool
}

// DefaultPreferences sorts A to Z and checks for release updates.
func DefaultPreferences() Preferences {
	return Preferences{
		SortOrder:          AToZ,
		UpdateChannel:      core.Release,
		EnableUpdateChecks: true,
	}
}

// PoolSize is the number of update checks run at once.
func PoolSize() int {
	return max(2, min(runtime.NumCPU(), 4))
}

// Result is the outcome of one mod's update check.
type Result struct {
	ModID string
	Info  *core.UpdateInfo
	Err   error
}

// CheckOption configures an update run.
type CheckOption func(*checkOptions)

type checkOptions struct {
	onResult func(Result)
}

// OnResult calls fn after each check finishes. fn may be called from
// several goroutines at once.
func OnResult(fn func(Result)) CheckOption {
	return func(o *checkOptions) {
		o.onResult = fn
	}
}

// CheckRun tracks the update checks started by CheckForUpdates. Callers do
// not have to wait on it; results land on the descriptors as they arrive.
type CheckRun struct {
	done    chan struct{}
	mu      sync.Mutex
	results map[string]Result
}

// Done is closed once every check has finished.
func (c *CheckRun) Done() <-chan struct{} { return c.done }

// Wait blocks until every check has finished.
func (c *CheckRun) Wait() { <-c.done }

// Results returns the outcomes recorded so far, keyed by mod id.
func (c *CheckRun) Results() map[string]Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]Result, len(c.results))
	for k, v := range c.results {
		out[k] = v
	}
	return out
}

func (c *CheckRun) record(res Result) {
	c.mu.Lock()
	c.results[res.ModID] = res
	c.mu.Unlock()
}

// CheckForUpdates starts one update check per mod that has a checker and
// returns without waiting for them. At most PoolSize checks run at once.
// A failing or panicking check is logged and never affects the others.
func (r *Registry) CheckForUpdates(ctx context.Context, prefs Preferences, opts ...CheckOption) *CheckRun {
	o := &checkOptions{}
	for _, opt := range opts {
		opt(o)
	}
	run := &CheckRun{
		done:    make(chan struct{}),
		results: make(map[string]Result),
	}
	if !prefs.EnableUpdateChecks {
		output.Debug("update checking disabled")
		close(run.done)
		return run
	}

	var mods []*Descriptor
	for _, d := range r.order {
		if d.checker != nil {
			mods = append(mods, d)
		}
	}

	sem := make(chan struct{}, PoolSize())
	var wg sync.WaitGroup
	for _, d := range mods {
		wg.Add(1)
		go func(d *Descriptor) {
			defer wg.Done()

			var res Result
			select {
			case sem <- struct{}{}:
				res = checkOne(ctx, d, prefs.UpdateChannel)
				<-sem
			case <-ctx.Done():
				res = Result{ModID: d.id, Err: core.NewCheckError(d.id, "waiting to start", ctx.Err())}
			}
			run.record(res)
			if o.onResult != nil {
				o.onResult(res)
			}
		}(d)
	}

	go func() {
		wg.Wait()
		close(run.done)
	}()
	return run
}

func checkOne(ctx context.Context, d *Descriptor, pref core.Channel) (res Result) {
	res.ModID = d.id
	defer func() {
		if p := recover(); p != nil {
			res.Info = nil
			res.Err = core.NewCheckError(d.id, "checking for updates", fmt.Errorf("panic: %v", p))
			output.Error("update check failed", "mod", d.id, "err", res.Err)
		}
	}()

	info, err := d.checker.CheckForUpdates(ctx, d.version, pref)
	if err != nil {
		res.Err = err
		output.Error("update check failed", "mod", d.id, "err", err)
		return res
	}
	if info == nil {
		output.Debug("no update available", "mod", d.id)
		return res
	}
	res.Info = info
	if d.SetUpdateInfo(info) {
		output.Info("update available", "mod", d.id, "from", d.version, "to", info.Version)
	}
	return res
}
