package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the dependency cache",
	}
	cmd.AddCommand(c.newCacheListCmd())
	cmd.AddCommand(c.newCacheClearCmd())
	return cmd
}

func (c *CLI) newCacheListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored cache entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := c.components.Store.Entries()
			if len(entries) == 0 {
				cmd.Println("cache is empty")
				return nil
			}
			for _, e := range entries {
				cmd.Println(fmt.Sprintf("%s\t%.1f MiB\tlast used %s",
					e.Key,
					float64(e.SizeBytes)/(1<<20),
					e.LastUsedAt.Format("2006-01-02 15:04"),
				))
			}
			return nil
		},
	}
}

func (c *CLI) newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.components.Store.Clear(); err != nil {
				return err
			}
			c.components.Logger.Info("cache cleared")
			return nil
		},
	}
}
