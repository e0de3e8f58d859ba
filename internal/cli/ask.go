package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/dictaphone/internal/config"
	"github.com/alnah/dictaphone/internal/format"
	"github.com/alnah/dictaphone/internal/render"
	"github.com/alnah/dictaphone/internal/session"
)

// askOptions holds validated options for the ask command.
type askOptions struct {
	text      string
	fromStdin bool
	output    string
	save      bool
	flags     flagSettings
}

// AskCmd creates the ask command (one-shot analysis).
// The env parameter provides injectable dependencies for testing.
func AskCmd(env *Env) *cobra.Command {
	var (
		output   string
		save     bool
		provider string
		model    string
		skin     string
	)

	cmd := &cobra.Command{
		Use:   "ask [text...]",
		Short: "Analyze text once and print the formatted answer",
		Long: `Send text to the language model and print the formatted answer.

The text is taken from the arguments, joined by spaces. With no arguments,
or with a single "-", it is read from stdin.

The answer is split into paragraphs at sentence boundaries before display.
Analysis uses Gemini by default, or OpenAI with --provider openai.`,
		Example: `  dictaphone ask "Summarize the plot of Hamlet in three sentences"
  pbpaste | dictaphone ask
  dictaphone ask --theme card "What is a goroutine?"
  dictaphone ask --save "Draft a haiku about Go"
  dictaphone ask -o answer.md --provider openai "Explain channels"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Parse all inputs at the CLI boundary
			opts, err := parseAskOptions(args, output, save, provider, model, skin)
			if err != nil {
				return err
			}
			return runAsk(cmd, env, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Also write the formatted answer to this file")
	cmd.Flags().BoolVar(&save, "save", false, "Also write the answer to a timestamped file in output-dir")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: gemini, openai (default: config, else gemini)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (default: provider default)")
	cmd.Flags().StringVarP(&skin, "theme", "t", "", "Display theme: plain, chat, card (default: config, else plain)")

	return cmd
}

// parseAskOptions validates and parses CLI inputs into askOptions.
func parseAskOptions(args []string, output string, save bool, provider, model, skin string) (askOptions, error) {
	fs, err := parseFlagSettings(provider, model, skin)
	if err != nil {
		return askOptions{}, err
	}

	opts := askOptions{
		output: output,
		save:   save,
		flags:  fs,
	}
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		opts.fromStdin = true
	} else {
		opts.text = strings.Join(args, " ")
	}
	return opts, nil
}

// runAsk executes the ask command with validated options.
func runAsk(cmd *cobra.Command, env *Env, opts askOptions) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	s, err := resolveSettings(env, opts.flags)
	if err != nil {
		return err
	}

	text := opts.text
	if opts.fromStdin {
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	// Blank input never reaches the network.
	probe := session.Reduce(session.Reduce(session.New(""), session.InputChanged{Text: text}), session.Submit{})
	if probe.Status == session.Error {
		_ = render.New(env.Stderr, s.theme).Write(probe)
		return ErrEmptyInput
	}

	var output string
	if opts.output != "" || opts.save {
		output = config.ResolveOutputPath(opts.output, s.outputDir, defaultAnswerFilename(env.Now()))
		if _, err := os.Stat(output); err == nil {
			return fmt.Errorf("output file already exists: %s: %w", output, ErrOutputExists)
		}
	}

	a, err := newAnalyzer(ctx, env, s)
	if err != nil {
		return err
	}

	// === ANALYZE ===

	fmt.Fprintf(env.Stderr, "Analyzing with %s...\n", a.Name())
	start := env.Now()

	state, err := session.Run(ctx, a, session.New(a.Name()), text)
	if err != nil {
		_ = render.New(env.Stderr, s.theme).Write(state)
		return fmt.Errorf("analyze: %w", err)
	}

	fmt.Fprintf(env.Stderr, "Done in %s\n", format.Duration(env.Now().Sub(start)))

	// === WRITE OUTPUT ===

	if err := render.New(env.Stdout, s.theme).Write(state); err != nil {
		return err
	}

	if output != "" {
		if err := writeFileAtomic(output, withTrailingNewline(state.Response)); err != nil {
			return err
		}
		fmt.Fprintf(env.Stderr, "Saved to %s\n", output)
	}

	return nil
}
