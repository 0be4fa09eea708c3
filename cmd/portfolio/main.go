package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/Zachkp/cosmic-portfolio/internal/admin"
	"github.com/Zachkp/cosmic-portfolio/internal/app"
	"github.com/Zachkp/cosmic-portfolio/internal/config"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
	"github.com/Zachkp/cosmic-portfolio/internal/store"
)

var (
	configPath string
	logMode    string
	seedPath   string
	version    = "dev"
)

var rootCmd = &cobra.Command{
	Use:           "portfolio",
	Short:         "Personal portfolio site",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace site content with a YAML seed file",
	Long: `Validate a YAML seed file and replace all content tables with it in one
transaction. Without --file the built-in seed is used.`,
	RunE: runSeed,
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := admin.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), h)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "portfolio %s\n", version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.RunE = runServe
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", "", "Log mode (development|production) [default: LOG_MODE or development]")
	seedCmd.Flags().StringVar(&seedPath, "file", "", "Seed file to load instead of the built-in one")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, hashPasswordCmd, versionCmd)
}

// setup loads configuration and builds the logger every command shares.
func setup() (config.Config, *logger.Logger, error) {
	v, err := config.New(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := v.BindPFlag("log_mode", rootCmd.PersistentFlags().Lookup("log-mode")); err != nil {
		return config.Config{}, nil, fmt.Errorf("bind log-mode flag: %w", err)
	}
	log, err := logger.New(v.GetString("log_mode"))
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}
	cfg, err := config.Load(v, log)
	if err != nil {
		log.Sync()
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	log.Info("Starting portfolio", "version", version, "addr", cfg.Addr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize", "error", err)
		log.Sync()
		return err
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		log.Error("Server stopped with error", "error", err)
		return err
	}
	log.Info("Server stopped")
	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := app.OpenStore(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()
	log.Info("Schema up to date", "path", cfg.DatabasePath)
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	path := seedPath
	if path == "" {
		path = cfg.ContentSeedPath
	}
	seed, err := store.LoadSeed(path)
	if err != nil {
		return err
	}
	st, err := app.OpenStore(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Seed(cmd.Context(), seed)
}
