package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alnah/dictaphone/internal/format"
)

// FormatCmd creates the format command (offline paragraph splitting).
// The env parameter provides injectable dependencies for testing.
func FormatCmd(env *Env) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Split text into paragraphs without calling a model",
		Long: `Apply the answer formatter to a file or stdin and print the result.

Sentence ends followed by a capital letter become paragraph breaks, and
a lower-case letter glued to an upper-case one gets a ". " inserted.
No network access or API key is needed.`,
		Example: `  dictaphone format answer.txt
  pbpaste | dictaphone format
  dictaphone format raw.txt -o formatted.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 && args[0] != "-" {
				path = args[0]
			}
			return runFormat(env, path, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}

// runFormat formats path (or stdin when path is empty).
func runFormat(env *Env, path, output string) error {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = io.ReadAll(env.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	} else {
		// #nosec G304 -- path is user-provided
		data, err = os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%s: %w", path, ErrFileNotFound)
			}
			return fmt.Errorf("failed to read file: %w", err)
		}
	}

	result := format.Response(string(data))

	if output != "" {
		if err := writeFileAtomic(output, withTrailingNewline(result)); err != nil {
			return err
		}
		fmt.Fprintf(env.Stderr, "Wrote %s\n", output)
		return nil
	}

	if result == "" {
		return nil
	}
	_, err = fmt.Fprintln(env.Stdout, result)
	return err
}
