package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dbassistant/backend"
	"dbassistant/config"
	"dbassistant/db"
	_ "dbassistant/docs" // Swagger docs
	"dbassistant/handlers"
	"dbassistant/metrics"
	"dbassistant/models"
	"dbassistant/render"
	"dbassistant/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

const shutdownTimeout = 15 * time.Second

// errAnswerFailed makes `ask` exit non-zero after printing the error panel.
var errAnswerFailed = errors.New("the question could not be answered")

var v = config.New()

var rootCmd = &cobra.Command{
	Use:   "dbassistant",
	Short: "Database Analytics Assistant",
	Long: `Ask questions about your databases in natural language.

The assistant forwards questions to an analytics backend and shows the charts,
narrative or error it returns, either as a web panel (serve) or in the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.BindFlags(v, cmd.Flags())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web panel",
	Long: `Start the web panel and its JSON API.

Example:
  dbassistant serve --port 9090 --analytics-api-base http://localhost:5000
  SESSION_STORE=badger dbassistant serve`,
	RunE: runServer,
}

var askCmd = &cobra.Command{
	Use:   "ask QUESTION",
	Short: "Ask one question and print the answer",
	Example: `  dbassistant ask "Show me top 5 most popular albums with their number of songs"
  dbassistant ask --database world --single "Which countries have the largest population?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var databasesCmd = &cobra.Command{
	Use:   "databases",
	Short: "List the databases the backend can answer questions about",
	Args:  cobra.NoArgs,
	RunE:  runDatabases,
}

var samplesCmd = &cobra.Command{
	Use:   "samples [DATABASE]",
	Short: "List sample questions for a database",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSamples,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("analytics-api-base", config.DefaultAPIBase, "analytics backend base URL")
	pf.String("default-database", config.DefaultDatabase, "database selected when none is given")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")

	serveCmd.Flags().String("port", "9090", "HTTP listen port")
	serveCmd.Flags().Bool("multiple-charts", true, "ask for multiple charts by default")
	serveCmd.Flags().Duration("session-ttl", 30*time.Minute, "idle time before a session is dropped")
	serveCmd.Flags().String("session-store", "memory", "session snapshot store (memory, badger)")
	serveCmd.Flags().String("db-path", "./data/badger", "badger directory for the badger session store")

	askCmd.Flags().StringP("database", "d", "", "database to ask about (default: --default-database)")
	askCmd.Flags().Bool("single", false, "ask for a single chart")

	rootCmd.AddCommand(serveCmd, askCmd, databasesCmd, samplesCmd)
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Database Analytics Assistant\n")
			fmt.Printf("Version:    %s\n", version)
			fmt.Printf("Commit:     %s\n", commit)
			fmt.Printf("Build Date: %s\n", buildDate)
		},
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errAnswerFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := setupLogging(cfg.LogLevel, false)
	logger.Info().
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("analytics_api_base", cfg.APIBase).
		Msg("Starting Database Analytics Assistant")

	collector := metrics.NewPrometheusCollector()
	client := backend.New(cfg.APIBase,
		backend.WithMetrics(collector),
		backend.WithLogger(logger.With().Str("component", "backend").Logger()),
	)

	sessionsCfg := service.SessionsConfig{
		Backend: client,
		TTL:     cfg.SessionTTL,
		Logger:  logger.With().Str("component", "sessions").Logger(),
		Metrics: collector,
		PanelOptions: []service.PanelOption{
			service.WithDefaultDatabase(cfg.DefaultDatabase),
			service.WithMultipleCharts(cfg.MultipleCharts),
		},
	}

	var snapshots handlers.SnapshotCounter
	if cfg.SessionStore == "badger" {
		store, err := db.New(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
		defer store.Close()
		sessionsCfg.Store = store
		snapshots = store
		logger.Info().Str("path", cfg.DBPath).Msg("Session snapshots enabled")
	}

	gin.SetMode(gin.ReleaseMode)
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	}

	h := handlers.New(service.NewSessions(sessionsCfg), client, snapshots, collector.Handler(),
		logger.With().Str("component", "http").Logger())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info().Str("address", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-shutdownCh:
		logger.Info().Msg("Received shutdown signal")
	case err := <-serverErrCh:
		return err
	}

	logger.Info().Dur("timeout", shutdownTimeout).Msg("Starting graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Error during server shutdown")
	}

	logger.Info().Msg("Server shutdown complete")
	return nil
}

// newCLIPanel builds a panel for one terminal command and loads its catalog.
func newCLIPanel(ctx context.Context) (*service.Panel, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := setupLogging(cfg.LogLevel, true)

	client := backend.New(cfg.APIBase, backend.WithLogger(logger))
	p := service.NewPanel(client,
		service.WithDefaultDatabase(cfg.DefaultDatabase),
		service.WithPanelLogger(logger),
	)
	p.LoadCatalog(ctx)
	return p, nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, err := newCLIPanel(ctx)
	if err != nil {
		return err
	}

	database, _ := cmd.Flags().GetString("database")
	if database == "" {
		database = p.State().Database
	}
	single, _ := cmd.Flags().GetBool("single")

	q := models.Query{
		Question:       strings.Join(args, " "),
		Database:       database,
		MultipleCharts: !single,
	}
	if err := p.Submit(ctx, q); err != nil {
		return err
	}

	view := p.View()
	if err := render.Text(cmd.OutOrStdout(), view); err != nil {
		return err
	}
	if view.Error != nil {
		return errAnswerFailed
	}
	return nil
}

func runDatabases(cmd *cobra.Command, args []string) error {
	p, err := newCLIPanel(cmd.Context())
	if err != nil {
		return err
	}
	st := p.State()
	if st.Catalog.Len() == 0 {
		return fmt.Errorf("no databases available from %s", v.GetString(config.KeyAPIBase))
	}
	return render.Databases(cmd.OutOrStdout(), service.DatabaseOptions(st.Catalog, st.Database))
}

func runSamples(cmd *cobra.Command, args []string) error {
	database := v.GetString(config.KeyDefaultDatabase)
	if len(args) == 1 {
		database = args[0]
	}
	questions := config.SampleQuestions(database)
	if len(questions) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No sample questions for %s.\n", database)
		return nil
	}
	for i, q := range questions {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, q)
	}
	return nil
}

func setupLogging(level string, console bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.DurationFieldUnit = time.Millisecond

	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}

	if console {
		// Terminal commands only show warnings unless asked for more.
		if level == "info" {
			logLevel = zerolog.WarnLevel
		}
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(logLevel).
			With().
			Timestamp().
			Logger()
	}

	logger := zerolog.New(os.Stdout).
		Level(logLevel).
		With().
		Timestamp().
		Str("service", "dbassistant")
	if logLevel == zerolog.DebugLevel {
		logger = logger.Caller()
	}
	return logger.Logger()
}
