package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmtco/funday/internal/config"
	"github.com/vmtco/funday/pkg/content"
)

func checkCmd() *cobra.Command {
	var (
		contentPath string
		configPath  string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and event content",
		Long: `Load the configuration and the event content file and report the
first problem found.

Examples:
  funday check
  funday check --content event.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(configPath)
			if err != nil {
				return err
			}
			if contentPath != "" {
				cfg.Content.Path = contentPath
			}

			ev, err := content.Load(cfg.Content.Path)
			if err != nil {
				return err
			}

			source := cfg.Content.Path
			if source == "" {
				source = "built-in event"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %s (%d schedule items, %d FAQs, %d activities)\n",
				source, ev.Name, len(ev.Schedule), len(ev.FAQ), len(ev.Activities))
			return nil
		},
	}

	cmd.Flags().StringVar(&contentPath, "content", "", "Event content YAML file")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to "+config.ConfigFileName)

	return cmd
}
