package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/dictaphone/internal/render"
)

// ChatCmd creates the chat command (interactive transcript).
// The env parameter provides injectable dependencies for testing.
func ChatCmd(env *Env) *cobra.Command {
	var (
		provider string
		model    string
		skin     string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session",
		Long: `Start an interactive session in the terminal.

Type a question and press ctrl+s to send it. Answers are formatted into
paragraphs and kept in a scrollable transcript. Press esc or ctrl+c to quit.
A new question cannot be sent while an answer is pending.`,
		Example: `  dictaphone chat
  dictaphone chat --theme chat
  dictaphone chat --provider openai --model gpt-4o`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := parseFlagSettings(provider, model, skin)
			if err != nil {
				return err
			}
			return runChat(cmd, env, fs)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: gemini, openai (default: config, else gemini)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (default: provider default)")
	cmd.Flags().StringVarP(&skin, "theme", "t", "", "Display theme: plain, chat, card (default: config, else plain)")

	return cmd
}

// runChat executes the chat command with validated flags.
func runChat(cmd *cobra.Command, env *Env, fs flagSettings) error {
	ctx := cmd.Context()

	s, err := resolveSettings(env, fs)
	if err != nil {
		return err
	}

	a, err := newAnalyzer(ctx, env, s)
	if err != nil {
		return err
	}

	r := render.New(env.Stdout, s.theme)
	state, err := env.ChatRunner.RunChat(ctx, a, r, env.Stdin, env.Stdout)
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}

	if n := len(state.Transcript); n > 0 {
		fmt.Fprintf(env.Stderr, "Session ended after %d %s.\n", n, plural(n, "exchange", "exchanges"))
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
