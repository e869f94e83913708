package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"riverbend/portal/internal/api"
	"riverbend/portal/internal/config"
	"riverbend/portal/internal/db"
	"riverbend/portal/internal/logging"
	"riverbend/portal/internal/metrics"
	"riverbend/portal/internal/models/dtos"
	"riverbend/portal/internal/routes"
	"riverbend/portal/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "Riverbend Community Fund website and member portal API",
	RunE:  runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		gdb, err := db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		if err := db.Migrate(gdb); err != nil {
			return err
		}
		logging.Info("Migrations applied")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert placeholder sponsors for the sponsor wall",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		deps, err := api.InitDependencies(cfg, metrics.NewMetricsRegistry(prometheus.NewRegistry()))
		if err != nil {
			return err
		}
		defer deps.Close()

		return seedSponsors(cmd.Context(), deps.Services.Sponsor)
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
	if err := rootCmd.Execute(); err != nil {
		logging.Close()
		os.Exit(1)
	}
	logging.Close()
}

// loadConfig reads configuration and starts the logger. Every subcommand
// calls it first.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		logging.Error("Invalid configuration", "error", err.Error())
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logging.Info("Portal starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	deps, err := api.InitDependencies(cfg, metricsReg)
	if err != nil {
		logging.Error("Failed to initialize dependencies", "error", err.Error())
		return err
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logging.Warn("Failed to close dependencies", "error", err.Error())
		}
	}()

	if err := db.Migrate(deps.DB); err != nil {
		logging.Error("Failed to migrate", "error", err.Error())
		return err
	}

	upSince := time.Now()
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           routes.RegisterRoutes(deps, prometheus.DefaultGatherer, upSince),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server starting", "addr", cfg.HTTPAddr, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logging.Error("Server failed", "error", err.Error())
			return err
		}
	case <-ctx.Done():
	}

	logging.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type placeholderSponsor struct {
	company string
	contact string
	email   string
	amount  string
}

var placeholderSponsors = []placeholderSponsor{
	{"Riverbend Credit Union", "Dana Whitfield", "dana@riverbendcu.example", "7500"},
	{"Mill Park Hardware", "Luis Ortega", "luis@millparkhardware.example", "3000"},
	{"Cedar Street Bakery", "Priya Nair", "priya@cedarstreetbakery.example", "1200"},
}

// seedSponsors inserts each placeholder through the admin create path, one
// transaction per sponsor. Existing ones are skipped.
func seedSponsors(ctx context.Context, sponsorSvc *services.SponsorService) error {
	for _, p := range placeholderSponsors {
		amount := decimal.RequireFromString(p.amount)
		_, err := sponsorSvc.Create(ctx, dtos.AdminSponsorRequest{
			SponsorType:  "company",
			CompanyName:  p.company,
			ContactName:  p.contact,
			ContactEmail: p.email,
			TotalAmount:  &amount,
		})
		switch {
		case err == nil:
			logging.Info("Seeded sponsor", "company", p.company)
		case services.KindOf(err) == services.KindConflict:
			logging.Info("Sponsor already present, skipping", "company", p.company)
		default:
			return err
		}
	}
	return nil
}
