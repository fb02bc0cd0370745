package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/gale/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep running the workflow on its cron schedules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			workspace, _ := cmd.Flags().GetString("workspace")
			parallelism, _ := cmd.Flags().GetInt("parallelism")

			return c.components.App.Watch(cmd.Context(), c.configPath(cmd), app.RunOptions{
				Workspace:   workspace,
				Parallelism: parallelism,
			})
		},
	}
	cmd.Flags().StringP("workspace", "w", ".", "Directory the workflow operates in")
	cmd.Flags().IntP("parallelism", "p", 0, "Concurrent jobs per wave (0 = number of CPUs)")
	return cmd
}
