package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/voicedesk/voicedesk/internal/assistant"
	"github.com/voicedesk/voicedesk/internal/config"
	"github.com/voicedesk/voicedesk/internal/dialog"
)

func newAssistantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assistants",
		Short: "Inspect the built-in assistants",
	}

	cmd.AddCommand(newAssistantsListCmd())
	cmd.AddCommand(newAssistantsInfoCmd())
	return cmd
}

func newAssistantsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in assistants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				cfg = config.Defaults()
			}

			for _, name := range assistant.Names() {
				def := ""
				if name == cfg.Assistants.Default {
					def = " (default)"
				}
				fmt.Printf("  %s%s\n", name, def)
			}
			return nil
		},
	}
}

func newAssistantsInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <assistant>",
		Short: "Show an assistant's roles and tools",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			b, err := a.registry.Bundle(args[0])
			if err != nil {
				return err
			}

			ids := make([]string, 0, len(b.Roles))
			for id := range b.Roles {
				ids = append(ids, string(id))
			}
			sort.Strings(ids)

			fmt.Printf("Assistant: %s\n", b.Assistant)
			for _, id := range ids {
				r := b.Roles[dialog.RoleID(id)]
				marker := ""
				if dialog.RoleID(id) == b.Start {
					marker = " (start)"
				}
				fmt.Printf("  Role: %s%s\n", id, marker)
				if r.Voice != "" {
					fmt.Printf("    Voice: %s\n", r.Voice)
				}
				if r.Tools != nil && r.Tools.Len() > 0 {
					fmt.Printf("    Tools: %s\n", strings.Join(r.Tools.Names(), ", "))
				}
			}
			return nil
		},
	}
}
