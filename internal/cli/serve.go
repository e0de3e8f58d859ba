package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/alnah/dictaphone/internal/web"
)

// ServeCmd creates the serve command (web UI).
// The env parameter provides injectable dependencies for testing.
func ServeCmd(env *Env) *cobra.Command {
	var (
		addr     string
		rps      float64
		burst    int
		provider string
		model    string
		skin     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web page",
		Long: `Serve the single-page web UI and its JSON endpoint.

The page has a text area, an "Analyze Text" button and a result panel.
It works without JavaScript; with it, the page calls POST /api/analyze.
Append ?theme=chat or ?theme=card to a URL to override --theme.

Prometheus metrics are exposed on /metrics and liveness on /healthz.
With --rate, each client IP is limited on the two POST routes.

The server stops gracefully on SIGINT or SIGTERM.`,
		Example: `  dictaphone serve
  dictaphone serve --addr 127.0.0.1:3000 --theme card
  dictaphone serve --rate 0.5 --burst 3
  curl -s localhost:8080/api/analyze -d '{"text":"Hello"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := parseFlagSettings(provider, model, skin)
			if err != nil {
				return err
			}
			return runServe(cmd, env, serveOptions{addr: addr, rps: rps, burst: burst, flags: fs})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", web.DefaultAddr, "Listen address")
	cmd.Flags().Float64Var(&rps, "rate", 0, "Max analyze requests per second per client (0 disables)")
	cmd.Flags().IntVar(&burst, "burst", 5, "Requests allowed in a burst when --rate is set")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: gemini, openai (default: config, else gemini)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (default: provider default)")
	cmd.Flags().StringVarP(&skin, "theme", "t", "", "Default page theme: plain, chat, card (default: config, else plain)")

	return cmd
}

// serveOptions holds validated options for the serve command.
type serveOptions struct {
	addr  string
	rps   float64
	burst int
	flags flagSettings
}

// runServe executes the serve command until the command context ends.
func runServe(cmd *cobra.Command, env *Env, opts serveOptions) error {
	ctx := cmd.Context()

	s, err := resolveSettings(env, opts.flags)
	if err != nil {
		return err
	}

	a, err := newAnalyzer(ctx, env, s)
	if err != nil {
		return err
	}

	logger := log.NewWithOptions(env.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "dictaphone",
	})

	srv, err := web.New(a,
		web.WithAddr(opts.addr),
		web.WithTheme(s.theme),
		web.WithRateLimit(opts.rps, opts.burst),
		web.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
