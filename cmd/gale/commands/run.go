package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/gale/internal/app"
	"go.trai.ch/gale/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the workflow for a simulated trigger event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			event, _ := cmd.Flags().GetString("event")
			ref, _ := cmd.Flags().GetString("ref")
			jobs, _ := cmd.Flags().GetStringArray("job")
			workspace, _ := cmd.Flags().GetString("workspace")
			parallelism, _ := cmd.Flags().GetInt("parallelism")

			kind := domain.EventKind(event)
			if !domain.KnownEventKind(kind) {
				return zerr.With(zerr.New("unknown event kind"), "event", event)
			}

			return c.components.App.Run(cmd.Context(), c.configPath(cmd),
				domain.Event{Kind: kind, Ref: ref},
				app.RunOptions{
					Jobs:        jobs,
					Workspace:   workspace,
					Parallelism: parallelism,
				})
		},
	}
	cmd.Flags().StringP("event", "e", string(domain.EventDispatch), "Trigger event to simulate (push, pull_request, workflow_dispatch, schedule)")
	cmd.Flags().StringP("ref", "r", "", "Branch the simulated event concerns")
	cmd.Flags().StringArrayP("job", "j", nil, "Run only the named job and its needs (repeatable)")
	cmd.Flags().StringP("workspace", "w", ".", "Directory the workflow operates in")
	cmd.Flags().IntP("parallelism", "p", 0, "Concurrent jobs per wave (0 = number of CPUs)")
	return cmd
}
