// SPDX-License-Identifier: AGPL-3.0-or-later

/*
checkcommit - a pre-merge verification gate for chirp contributions.
It inspects the commits between a base reference and HEAD and rejects
changes that violate the project's contribution policies.

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbast/checkcommit/internal/config"
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	stateDir   string
	color      string
	failOpen   bool
	skip       []string
	logLevel   string
	logFormat  string
	verbose    bool
}

// NewRootCmd constructs the checkcommit root Cobra command. Run without a
// subcommand it is the gate: every check against [base].
func NewRootCmd() *cobra.Command {
	version := os.Getenv("CHECKCOMMIT_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	opts := &options{}
	cmd := &cobra.Command{
		Use:   "checkcommit [base]",
		Short: "Pre-merge verification gate for chirp changes",
		Long: `Checks every commit between a base reference (default origin/master) and HEAD
against the contribution policies: banned APIs, license language, merge
commits, locale freshness, driver test images and near-duplicate files.

Exits 0 when every check passes and 1 otherwise.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			base := ""
			if len(args) == 1 {
				base = args[0]
			}
			r, err := opts.open(cmd, base)
			if err != nil {
				return err
			}
			return r.RunAll(cmd.Context())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.DefaultFile, "policy file, relative to the repository root")
	pf.StringVar(&opts.stateDir, "state-dir", ".checkcommit/run", "directory to store run state")
	pf.StringVar(&opts.color, "color", "auto", "colorize output: auto, always or never")
	pf.BoolVar(&opts.failOpen, "fail-open", false, "let checks that could not run pass")
	pf.StringSliceVar(&opts.skip, "skip", nil, "check IDs to skip")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "also print passing and skipped checks")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of checkcommit",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "checkcommit version %s\n", version)
		},
	})
	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newResumeCmd(opts))
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newReportCmd(opts))
	cmd.AddCommand(newResetCmd(opts))

	return cmd
}
