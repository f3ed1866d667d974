// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dbast/checkcommit/cmd/checkcommit/internal/clierr"
	"github.com/dbast/checkcommit/internal/build"
	"github.com/dbast/checkcommit/internal/changeset"
	"github.com/dbast/checkcommit/internal/checks"
	"github.com/dbast/checkcommit/internal/config"
	"github.com/dbast/checkcommit/internal/git"
	"github.com/dbast/checkcommit/internal/logger"
	"github.com/dbast/checkcommit/internal/projectroot"
	"github.com/dbast/checkcommit/internal/report"
	"github.com/dbast/checkcommit/internal/runner"
	"github.com/dbast/checkcommit/internal/shell"
	"github.com/dbast/checkcommit/internal/similarity"
)

func (o *options) repoRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	root, err := projectroot.Find(wd)
	if err != nil {
		return "", clierr.Wrapf(clierr.ExitFailed, err, "locating repository")
	}
	return root, nil
}

func (o *options) stateStore(root string) *runner.StateStore {
	dir := o.stateDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return runner.NewStateStore(dir)
}

// loadConfig reads the policy and applies flags on top. An explicit
// --config must exist; the default file is optional.
func (o *options) loadConfig(cmd *cobra.Command, root string) (*config.Config, error) {
	path := o.configPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	cfg, err := config.Load(path, cmd.Flags().Changed("config"), filepath.Join(root, ".env"))
	if err != nil {
		return nil, clierr.Wrapf(clierr.ExitFailed, err, "loading configuration")
	}

	if cmd.Flags().Changed("fail-open") {
		cfg.FailOpen = o.failOpen
	}
	cfg.Skip = append(cfg.Skip, o.skip...)
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, clierr.Wrapf(clierr.ExitFailed, err, "invalid flags")
	}
	return cfg, nil
}

// open resolves the range, prints the banner and commit list and returns
// a runner over every check. An empty base falls back to the configured one. In
// fail-closed mode an unresolvable base aborts the run.
func (o *options) open(cmd *cobra.Command, base string) (*runner.Runner, error) {
	ctx := cmd.Context()

	root, err := o.repoRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := o.loadConfig(cmd, root)
	if err != nil {
		return nil, err
	}
	if base == "" {
		base = cfg.Base
	}

	log := logger.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	printer, err := report.NewFor(cmd.OutOrStdout(), o.color, o.verbose, cfg.FailOpen)
	if err != nil {
		return nil, clierr.Wrapf(clierr.ExitFailed, err, "invalid --color")
	}

	exec := shell.NewExec(log)
	vcs := git.NewClient(exec, root)

	short, err := vcs.ShortHash(ctx, base)
	if err != nil {
		if !cfg.FailOpen {
			return nil, clierr.Wrapf(clierr.ExitFailed, err, "cannot resolve base %q", base)
		}
		log.Warnf("cannot resolve base %q, continuing: %v", base, err)
		short = base
	}
	rng := git.Range{Base: base, Short: short}
	log.Infof("inspecting %s (base %s)", rng.Spec(), rng.Short)
	changes := changeset.New(vcs, rng, log)

	engine, err := similarity.New(cfg.Duplicates.Engine, exec, root, log)
	if err != nil {
		return nil, clierr.Wrapf(clierr.ExitFailed, err, "selecting similarity engine")
	}
	log.Debugf("similarity engine: %s", engine.Name())

	printer.Banner(short)
	if commits, err := changes.Commits(ctx); err != nil {
		log.Warnf("listing commits: %v", err)
	} else {
		printer.Commits(commits)
	}

	deps := &runner.Deps{
		RepoRoot:   root,
		Config:     cfg,
		Changes:    changes,
		Similarity: engine,
		Builder:    build.NewCommand(exec, root, cfg.Locale.Build),
		Log:        log,
	}
	return runner.NewRunner(checks.Registry(), o.stateStore(root), deps, printer, runner.Options{FailOpen: cfg.FailOpen}), nil
}

// validateIDs rejects unknown check IDs before anything runs.
func validateIDs(ids []string) error {
	known := make(map[string]bool)
	for _, id := range checks.IDs(checks.Registry()) {
		known[id] = true
	}
	for _, id := range ids {
		if !known[id] {
			return clierr.Newf(clierr.ExitFailed, "unknown check %q (see 'checkcommit list')", id)
		}
	}
	return nil
}

