package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"github.com/voicedesk/voicedesk/internal/config"
	"github.com/voicedesk/voicedesk/internal/dialog"
	"github.com/voicedesk/voicedesk/internal/logging"
)

var (
	chatRoleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	chatFaintStyle = lipgloss.NewStyle().Faint(true)
	chatErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func newChatCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "chat [assistant]",
		Short: "Talk to an assistant from the console",
		Long:  "chat drives the same dialogue engine the gateway serves, from a readline prompt. Name an assistant, or leave it empty for the configured default.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			// Engine logs would garble the prompt; keep the console quiet
			// unless the flag asks otherwise.
			if logLevel == "" {
				log = logging.New(nil, "warn")
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			name := cfg.Assistants.Default
			if len(args) > 0 {
				name = args[0]
			}
			bundle, err := a.registry.Bundle(name)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sess, greeting, err := a.engine.StartSession(ctx, "", bundle)
			if err != nil {
				return err
			}
			printSpoken(sess, greeting)

			if message != "" {
				lines, err := a.engine.Turn(ctx, sess, message)
				if err != nil {
					return err
				}
				printSpoken(sess, lines)
				endChat(ctx, a.engine, sess)
				return nil
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "you> ",
				HistoryFile:     filepath.Join(paths.Data, "chat_history"),
				InterruptPrompt: "^C",
				EOFPrompt:       "bye",
			})
			if err != nil {
				return err
			}
			defer rl.Close()

			for {
				line, err := rl.Readline()
				if err == readline.ErrInterrupt {
					if len(line) == 0 {
						break
					}
					continue
				}
				if err == io.EOF {
					break
				}

				text := strings.TrimSpace(line)
				if text == "" {
					continue
				}
				if text == "/quit" || text == "/exit" {
					break
				}

				lines, err := a.engine.Turn(ctx, sess, text)
				if err != nil {
					fmt.Println(chatErrStyle.Render("error: " + err.Error()))
					continue
				}
				printSpoken(sess, lines)
			}

			endChat(ctx, a.engine, sess)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "send one message and exit")

	return cmd
}

// printSpoken renders reply lines prefixed with the role that spoke them.
func printSpoken(sess *dialog.Session, lines []string) {
	prefix := chatRoleStyle.Render(string(sess.ActiveRole()) + ">")
	for _, line := range lines {
		fmt.Println(prefix + " " + line)
	}
}

// endChat closes the session and prints the usage footer to stderr.
func endChat(ctx context.Context, engine *dialog.Engine, sess *dialog.Session) {
	u := sess.Usage()
	engine.EndSession(ctx, sess)
	fmt.Fprintln(os.Stderr, chatFaintStyle.Render(fmt.Sprintf(
		"[turns=%d tools=%d handoffs=%d tokens=%d+%d cost=$%.4f]",
		u.Turns, u.ToolCalls, u.Handoffs, u.InputTokens, u.OutputTokens, u.CostUSD)))
}
