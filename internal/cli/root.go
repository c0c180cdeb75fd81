package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gtrends-go/internal/config"
	"gtrends-go/internal/service"
	"gtrends-go/pkg/logger"
	"gtrends-go/pkg/trends"
)

var (
	cfgFile string
	envFile string
	verbose bool

	cfg *config.Config
	svc *service.Service
)

// newProvider builds the Trends collaborator from configuration.
var newProvider = func(c config.TrendsConfig) (trends.Provider, error) {
	return trends.NewClient(c.Config)
}

var rootCmd = &cobra.Command{
	Use:   "gtrends",
	Short: "Query Google Trends interest by region, hourly interest and related terms",
	Long: `gtrends fetches Google Trends data and reshapes it into tables with one
column per keyword, renders location bar charts and lists related terms.

Configuration is read from --config (yaml), GTRENDS_* environment variables
and a .env file in the working directory.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to a yaml config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file (default .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func setup(cmd *cobra.Command, args []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	loaded, err := config.NewManager().Load(cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		loaded.Logger.Level = "debug"
	}
	log := logger.New(loaded.Logger)
	logger.SetLogger(log)

	provider, err := newProvider(loaded.Trends)
	if err != nil {
		return fmt.Errorf("failed to create trends client: %w", err)
	}

	svc = service.New(provider,
		service.WithChartOptions(loaded.Chart),
		service.WithDefaults(loaded.Trends.Country, trends.Resolution(loaded.Trends.Resolution)),
		service.WithHourlySleep(loaded.Trends.Sleep),
		service.WithLogger(log.WithField("component", "service")))
	cfg = loaded
	return nil
}
