package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/riskibarqy/league-sheets/internal/app"
	"github.com/riskibarqy/league-sheets/internal/config"
	"github.com/riskibarqy/league-sheets/internal/platform/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = ""
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "leaguectl",
	Short: "Query league standings and power rankings",
	Long: `leaguectl reads division standings and weekly power rankings from the
league spreadsheets, using the same environment configuration as the API.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file with service configuration (default ./.env when present)")
	rootCmd.PersistentFlags().StringP("output", "o", outputTable, "output format: table or json")
	rootCmd.PersistentFlags().Duration("timeout", time.Minute, "overall timeout for one query")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level to stderr")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.SetEnvPrefix("LEAGUECTL")
	viper.AutomaticEnv()
}

func initConfig() {
	if err := loadEnvFile(envFile); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}
}

// loadEnvFile exports KEY=VALUE pairs into the process environment. Variables
// that are already set win over the file.
func loadEnvFile(path string) error {
	if path == "" {
		path = ".env"
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read env file %s: %w", path, err)
	}

	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return fmt.Errorf("export %s: %w", name, err)
		}
	}
	return nil
}

// buildServices is replaced in tests.
var buildServices = func(ctx context.Context, logger *logging.Logger) (*app.Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.MetricsEnabled = false
	return app.NewServices(ctx, cfg, logger, nil)
}

func withServices(cmd *cobra.Command, fn func(ctx context.Context, services *app.Services) error) error {
	level := logging.LevelWarn
	if verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewJSONWriter(cmd.ErrOrStderr(), level)
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout := viper.GetDuration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	services, err := buildServices(ctx, logger)
	if err != nil {
		return err
	}
	defer func() { _ = services.Close(5 * time.Second) }()

	return fn(ctx, services)
}
