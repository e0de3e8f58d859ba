package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/dictaphone/internal/config"
	"github.com/alnah/dictaphone/internal/theme"
)

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/dictaphone/config.
Settings can also be provided via environment variables; flags override both.

Supported settings:
  provider      LLM provider: gemini, openai (env: DICTAPHONE_PROVIDER)
  model         Model name for the provider (env: DICTAPHONE_MODEL)
  theme         Display theme: plain, chat, card (env: DICTAPHONE_THEME)
  output-dir    Directory for saved answers (env: DICTAPHONE_OUTPUT_DIR)`,
		Example: `  dictaphone config set provider openai
  dictaphone config set theme card
  dictaphone config get theme
  dictaphone config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Values are validated before they are saved. For output-dir, the directory
is created if it doesn't exist.`,
		Example: `  dictaphone config set provider gemini
  dictaphone config set model gemini-1.5-pro
  dictaphone config set output-dir ~/Documents/answers`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, args[0], args[1])
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the value to stdout, or nothing if not set.`,
		Example: `  dictaphone config get output-dir`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values.

Shows both values from the config file and environment variable fallbacks.`,
		Example: `  dictaphone config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	if err := validateConfigKey(key); err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	value, err := normalizeConfigValue(key, value)
	if err != nil {
		return err
	}

	if err := config.Save(key, value); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

// normalizeConfigValue validates value for key and returns the form to store.
func normalizeConfigValue(key, value string) (string, error) {
	switch key {
	case config.KeyProvider:
		if _, err := ParseProvider(value); err != nil {
			return "", fmt.Errorf("%s: %w: %w", key, ErrInvalidConfigValue, err)
		}
	case config.KeyTheme:
		if _, err := theme.ParseName(value); err != nil {
			return "", fmt.Errorf("%s: %w: %w", key, ErrInvalidConfigValue, err)
		}
	case config.KeyModel:
		if value == "" {
			return "", fmt.Errorf("%s cannot be empty: %w", key, ErrInvalidConfigValue)
		}
	case config.KeyOutputDir:
		// Store the expanded path for consistency.
		expanded := config.ExpandPath(value)
		if err := config.EnsureOutputDir(expanded); err != nil {
			return "", fmt.Errorf("%s: %w: %w", key, ErrInvalidConfigValue, err)
		}
		value = expanded
	}
	return value, nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	if err := validateConfigKey(key); err != nil {
		return err
	}

	value, err := config.Get(key)
	if err != nil {
		return err
	}

	// Check environment variable fallback.
	if value == "" {
		value = env.Getenv(config.EnvVar(key))
	}

	if value != "" {
		fmt.Fprintln(env.Stdout, value)
	}

	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(env *Env) error {
	data, err := config.List()
	if err != nil {
		return err
	}

	// Add environment variable values for completeness.
	for _, key := range config.Keys() {
		if _, ok := data[key]; ok {
			continue
		}
		if envVal := env.Getenv(config.EnvVar(key)); envVal != "" {
			data[key] = envVal + " (from env)"
		}
	}

	if len(data) == 0 {
		fmt.Fprintln(env.Stdout, "No configuration set.")
		fmt.Fprintln(env.Stdout, "\nAvailable settings:")
		for _, key := range config.Keys() {
			fmt.Fprintf(env.Stdout, "  %s\n", key)
		}
		return nil
	}

	for _, key := range config.Keys() {
		if value, ok := data[key]; ok {
			fmt.Fprintf(env.Stdout, "%s=%s\n", key, value)
		}
	}

	return nil
}

func validateConfigKey(key string) error {
	if !config.IsKey(key) {
		return fmt.Errorf("%q (valid keys: %s): %w", key, strings.Join(config.Keys(), ", "), ErrUnknownConfigKey)
	}
	return nil
}
