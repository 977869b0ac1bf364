package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"htrack/cmd/htrack/ui"
	"htrack/internal/api"
	"htrack/internal/auth"
	"htrack/internal/config"
	"htrack/internal/i18n"
	"htrack/internal/logging"
	"htrack/internal/session"
	"htrack/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// errNotLoggedIn is returned by commands that need a session when there is
// none.
var errNotLoggedIn = errors.New("not logged in, run 'htrack login' first")

// cli carries the global flags and everything built from them. Commands get
// their dependencies from here instead of package globals so tests can run
// several invocations side by side.
type cli struct {
	// Global flags
	configPath string
	verbose    bool
	timeout    time.Duration
	apiURL     string

	cfg    *config.Config
	logger *logging.Logger
	log    *zap.Logger
	msgs   *i18n.Printer

	// Built on first use by connect.
	kv     store.KV
	sess   *session.Session
	client *api.Client
	flow   *auth.Flow
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "htrack",
		Short: "htrack - personal health tracking client",
		Long: `htrack logs meals, daily health and sleep against the health-tracking
backend and shows trends, food correlations and insights.

Run without arguments to start the interactive terminal UI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The interactive UI owns the terminal, so its logs only go to
			// the configured file.
			var console zapcore.WriteSyncer = zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr()))
			if cmd.Root() == cmd {
				console = nil
			}
			return c.setup(console)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Close()
			}
		},
		RunE: c.runInteractive,
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultConfigPath(), "Config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 30*time.Second, "Operation timeout")
	root.PersistentFlags().StringVar(&c.apiURL, "api-url", "", "Backend base URL (overrides config)")

	root.AddCommand(
		c.loginCmd(),
		c.registerCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.dashboardCmd(),
		c.insightsCmd(),
		c.foodsCmd(),
		c.logCmd(),
		c.mealsCmd(),
		c.configCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config and builds the logger.
func (c *cli) setup(console zapcore.WriteSyncer) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.apiURL != "" {
		cfg.API.BaseURL = c.apiURL
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", c.configPath, err)
	}

	logger, err := logging.New(cfg.Logging, console, c.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.cfg = cfg
	c.logger = logger
	c.log = logger.For(logging.CategoryBoot)
	c.msgs = i18n.NewPrinter(i18n.Locale(cfg.UI.Locale))
	c.log.Debug("config loaded", zap.String("path", c.configPath), zap.String("api", cfg.API.BaseURL))
	return nil
}

// connect opens the session store and builds the API client and auth flow.
func (c *cli) connect(ctx context.Context) error {
	if c.flow != nil {
		return nil
	}
	kv, err := store.OpenSQLite(c.cfg.Storage.Path, c.logger.For(logging.CategoryStore))
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	sess := session.New(kv, c.logger.For(logging.CategorySession))
	if err := sess.Hydrate(ctx); err != nil {
		kv.Close()
		return fmt.Errorf("load session: %w", err)
	}

	client, err := api.New(c.cfg.API.BaseURL,
		api.WithTimeout(c.cfg.GetAPITimeout()),
		api.WithTokenSource(sess),
		api.WithLogger(c.logger.For(logging.CategoryAPI)),
		api.WithRateLimit(c.cfg.API.RateLimit, c.cfg.API.Burst),
	)
	if err != nil {
		kv.Close()
		return err
	}

	c.kv = kv
	c.sess = sess
	c.client = client
	c.flow = auth.NewFlow(client, sess, c.msgs, c.logger.For(logging.CategoryAuth))
	return nil
}

// requireSession connects and verifies the stored session, refreshing the
// access token if needed.
func (c *cli) requireSession(ctx context.Context) error {
	if err := c.connect(ctx); err != nil {
		return err
	}
	state, err := c.flow.CheckAuthentication(ctx)
	if errors.Is(err, auth.ErrAuthExpired) {
		return errors.New(c.msgs.T(i18n.MsgSessionExpired))
	}
	if state != auth.Authenticated {
		if err != nil {
			return fmt.Errorf("check session: %w", err)
		}
		return errNotLoggedIn
	}
	return nil
}

func (c *cli) closeStore() {
	if c.kv == nil {
		return
	}
	if err := c.kv.Close(); err != nil {
		c.log.Warn("closing session store", zap.Error(err))
	}
	c.kv = nil
	c.flow = nil
}

// commandContext bounds a command by --timeout and cancels it on SIGINT or
// SIGTERM.
func (c *cli) commandContext(cmd *cobra.Command, withTimeout bool) (context.Context, context.CancelFunc) {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if withTimeout && c.timeout > 0 {
		ctx, cancel = context.WithTimeout(base, c.timeout)
	} else {
		ctx, cancel = context.WithCancel(base)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			c.log.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// action adapts a command body: it gets a bounded context, and the session
// store is closed afterwards whether or not the command failed.
func (c *cli) action(fn func(ctx context.Context, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := c.commandContext(cmd, true)
		defer cancel()
		defer c.closeStore()
		return fn(ctx, cmd, args)
	}
}

func (c *cli) renderer() ui.Renderer {
	return ui.NewRenderer(ui.NewStyles(ui.ThemeFor(c.cfg.UI.Theme)), c.msgs, 96)
}

func (c *cli) runInteractive(cmd *cobra.Command, args []string) error {
	ctx, cancel := c.commandContext(cmd, false)
	defer cancel()
	defer c.closeStore()

	if err := c.connect(ctx); err != nil {
		return err
	}
	c.log.Info("starting interactive ui")
	return ui.Run(ctx, ui.Deps{
		Config:     c.cfg,
		ConfigPath: c.configPath,
		Flow:       c.flow,
		API:        c.client,
		Store:      c.kv,
		Logger:     c.logger,
	})
}
