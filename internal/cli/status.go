package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/voicedesk/voicedesk/internal/assistant"
	"github.com/voicedesk/voicedesk/internal/config"
	"github.com/voicedesk/voicedesk/internal/version"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show voicedesk status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Voicedesk %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Printf("Config:  %s\n", paths.Config)
			fmt.Printf("Data:    %s\n", paths.Data)
			fmt.Printf("Logs:    %s\n", paths.Logs)
			fmt.Println()

			cfg, err := config.Load(paths.Config)
			if err != nil {
				fmt.Printf("Config:  error loading: %v\n", err)
				return nil
			}

			fmt.Printf("Gateway: port=%d bind=%s auth=%s\n",
				cfg.Gateway.Port, cfg.Gateway.Bind, cfg.Gateway.Auth.Mode)

			fmt.Printf("Model:   provider=%s name=%s", cfg.Model.Provider, cfg.Model.Name)
			if len(cfg.Model.Fallbacks) > 0 {
				fmt.Printf(" fallbacks=%s", strings.Join(cfg.Model.Fallbacks, ","))
			}
			fmt.Println()

			fmt.Printf("Session: store=%s idleMinutes=%d maxToolCalls=%d\n",
				cfg.Session.Store, cfg.Session.IdleMinutes, cfg.Session.MaxToolCalls)

			fmt.Printf("Assistants: default=%s available=%s\n",
				cfg.Assistants.Default, strings.Join(assistant.Names(), ","))

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Printf("\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %s: %s\n", issue.Path, issue.Message)
				}
			}

			return nil
		},
	}

	return cmd
}
