package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/internal/server"
	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve mind maps over HTTP",
		Long: `Serve the HTTP API for the configured store.

Routes:
  GET  /healthz
  GET  /help[?command=name]
  POST /render?format=png|svg|dot|pdf
  GET  /users/{user}/maps
  GET  /users/{user}/maps/{mapID}
  GET  /users/{user}/maps/{mapID}/image?format=png|svg|dot|pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if addr == "" {
				addr = s.cfg.Server.Addr
			}
			observability.SetHTTPHooks(observability.NewLogHooks(c.Logger))

			srv := server.New(s.service, s.runner,
				server.WithLogger(c.Logger),
				server.WithHelp(helpRegistry(cmd.Root())),
				server.WithRenderOptions(pipeline.Options{
					Watermark:   s.cfg.Render.Watermark,
					NoWatermark: s.cfg.Render.NoWatermark,
					Concurrency: s.cfg.Render.Concurrency,
				}),
			)

			c.out().info("Serving %s maps on http://%s", StyleHighlight.Render(s.user), addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+defaultAddr+")")
	return cmd
}
