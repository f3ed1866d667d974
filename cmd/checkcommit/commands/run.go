// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbast/checkcommit/internal/checks"
)

func newRunCmd(opts *options) *cobra.Command {
	var base string
	cmd := &cobra.Command{
		Use:   "run <check>...",
		Short: "Run selected checks",
		Long: `Runs only the named checks, in the order given. Results are stored in the
state directory like a full run, so 'resume' and 'report' see them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateIDs(args); err != nil {
				return err
			}
			r, err := opts.open(cmd, base)
			if err != nil {
				return err
			}
			return r.RunList(cmd.Context(), args)
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "base reference (default from configuration)")
	return cmd
}

func newResumeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Re-run the checks that failed last time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := opts.repoRoot()
			if err != nil {
				return err
			}
			store := opts.stateStore(root)
			failed, err := store.LoadFailedChecks()
			if err != nil {
				return err
			}
			if len(failed) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Nothing to resume.")
				return nil
			}

			base := ""
			if last, err := store.ReadLastRun(); err == nil && last != nil {
				base = last.Base
			}
			r, err := opts.open(cmd, base)
			if err != nil {
				return err
			}
			return r.Resume(cmd.Context())
		},
	}
}

type checkListItem struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

func newListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List checks in the order they run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := checks.Registry()
			list := make([]checkListItem, 0, len(registry))
			for _, c := range registry {
				list = append(list, checkListItem{ID: c.ID(), Description: c.Description()})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(map[string]interface{}{"checks": list})
			}

			for _, item := range list {
				_, _ = fmt.Fprintf(out, "%-22s %s\n", item.ID, item.Description)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newReportCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the last run status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := opts.repoRoot()
			if err != nil {
				return err
			}
			store := opts.stateStore(root)
			last, err := store.ReadLastRun()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(last)
			}

			if last == nil {
				_, _ = fmt.Fprintln(out, "No run state found.")
				return nil
			}

			_, _ = fmt.Fprintf(out, "Base: %s\n", last.Base)
			_, _ = fmt.Fprintf(out, "Status: %s\n", last.Status)
			if len(last.Failed) > 0 {
				_, _ = fmt.Fprintln(out, "Failed:")
				for _, id := range last.Failed {
					_, _ = fmt.Fprintf(out, "  - %s\n", id)
					res, err := store.ReadCheck(id)
					if err != nil {
						return err
					}
					if res == nil {
						continue
					}
					for _, f := range res.Failures {
						_, _ = fmt.Fprintf(out, "      %s\n", f.Message)
					}
				}
			} else {
				_, _ = fmt.Fprintln(out, "All passed.")
			}
			if len(last.Inconclusive) > 0 {
				_, _ = fmt.Fprintln(out, "Inconclusive:")
				for _, id := range last.Inconclusive {
					_, _ = fmt.Fprintf(out, "  - %s\n", id)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newResetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear run state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := opts.repoRoot()
			if err != nil {
				return err
			}
			store := opts.stateStore(root)
			if err := store.Reset(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", store.Dir())
			return nil
		},
	}
}
