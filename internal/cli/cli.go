package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/buildinfo"
	"github.com/matzehuels/mindmap/pkg/help"
	"github.com/matzehuels/mindmap/pkg/notes"
	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "mindmap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// In and Out default to os.Stdin and os.Stdout.
	In  io.Reader
	Out io.Writer

	configPath string
	user       string
	backend    string

	// openStore is replaced in tests.
	openStore func(ctx context.Context, cfg store.Config) (store.Store, error)
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:    newLogger(w, level),
		In:        os.Stdin,
		Out:       os.Stdout,
		openStore: store.Open,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Mindmap draws notes as ring-layout mind maps",
		Long:         `Mindmap keeps named mind maps of short notes and renders each one as a square image with the map name in the centre and the notes on concentric rings around it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/mindmap/config.toml)")
	root.PersistentFlags().StringVarP(&c.user, "user", "u", "", "user whose maps are managed (default from config or $USER)")
	root.PersistentFlags().StringVar(&c.backend, "store", "", "store backend: memory, file, sqlite, redis, mongo")

	root.AddCommand(c.mapCommand())
	root.AddCommand(c.nodeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	// help-info reads the finished tree, so it is added last.
	root.AddCommand(c.helpInfoCommand(root))

	return root
}

// =============================================================================
// Session Factory
// =============================================================================

// session bundles everything a command needs to talk to the store.
type session struct {
	cfg     Config
	user    string
	store   store.Store
	service *notes.Service
	runner  *pipeline.Runner
}

func (s *session) Close() error { return s.store.Close() }

// loadConfig reads the config file and applies the persistent flags.
func (c *CLI) loadConfig() (Config, error) {
	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.user != "" {
		cfg.User = c.user
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
	}
	return cfg, nil
}

// newSession opens the configured store and wires the service and runner.
func (c *CLI) newSession(ctx context.Context) (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	observability.SetStoreHooks(observability.NewLogHooks(c.Logger))
	observability.SetPipelineHooks(observability.NewLogHooks(c.Logger))

	st, err := c.openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	st = store.Instrument(st)
	c.Logger.Debug("opened store", "backend", cfg.Store.Backend, "user", cfg.User)

	return &session{
		cfg:     cfg,
		user:    cfg.User,
		store:   st,
		service: notes.New(st, notes.WithLogger(c.Logger)),
		runner:  pipeline.NewRunner(st, c.Logger),
	}, nil
}

func (c *CLI) out() printer { return printer{w: c.Out} }

// helpRegistry builds the command table from the finished tree.
func helpRegistry(root *cobra.Command) *help.Registry {
	return help.FromCobra(root)
}
