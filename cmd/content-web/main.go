package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/social-content-toolkit/internal/api"
	"github.com/fpang/social-content-toolkit/internal/cli"
	"github.com/fpang/social-content-toolkit/internal/config"
	"github.com/fpang/social-content-toolkit/internal/download"
	"github.com/fpang/social-content-toolkit/internal/lambdaboot"
	"github.com/fpang/social-content-toolkit/internal/logging"
	"github.com/fpang/social-content-toolkit/internal/metrics"
	"github.com/fpang/social-content-toolkit/internal/store"
)

// CLI flags
var (
	portFlag   int
	modelFlag  string
	configFlag string
)

var rootCmd = &cobra.Command{
	Use:   "content-web",
	Short: "Local HTTP API for the content tools",
	Long: `Content Web starts a local web server exposing the content tools, photo
and video generation, the media download proxy and the admin endpoints
under /api.

Admin data lives in memory unless a DynamoDB table or Aurora cluster is
configured, in which case AWS credentials are read from the environment.

Examples:
  content-web
  content-web --port 9090
  content-web --model gemini-2.5-pro --config ./config.toml`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().IntVar(&portFlag, "port", config.DefaultPort, "Port to listen on")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", config.DefaultModel, "Gemini model to use")
	rootCmd.Flags().StringVar(&configFlag, "config", "", "Path to a TOML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	logging.Init()
	metrics.SetOutput(os.Stderr)
	initStart := time.Now()

	cfg, err := config.Load(configFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = portFlag
	}
	if cmd.Flags().Changed("model") {
		cfg.Gemini.Model = modelFlag
	}

	ctx := context.Background()
	gen := cli.InitGenerator(ctx, cfg, true)

	deps := api.Deps{
		Generator:          gen,
		Store:              store.NewMemoryStore(),
		Downloader:         download.NewClient(cfg.Download.BaseURL),
		AllowedOrigins:     cfg.Server.AllowedOrigins,
		OriginVerifySecret: cfg.Server.OriginVerifySecret,
	}
	if cfg.Admin.TableName != "" || cfg.Admin.ClusterARN != "" || cfg.Media.Bucket != "" {
		clients := lambdaboot.InitAWS()
		deps.Store = lambdaboot.InitAdminStore(clients.Config, cfg.Admin)
		if pub := lambdaboot.InitPublisher(clients.Config, cfg.Media.Bucket); pub != nil {
			deps.Publisher = pub
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      gzhttp.GzipHandler(api.NewRouter(deps)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // video generation polls for minutes
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	logging.NewStartupLogger("content-web").
		InitDuration(time.Since(initStart)).
		S3Bucket("media", cfg.Media.Bucket).
		DynamoTable("admin", cfg.Admin.TableName).
		Database("admin", cfg.Admin.ClusterARN).
		Feature("placeholder_mode", gen.Placeholder()).
		Feature("origin_verify", cfg.Server.OriginVerifySecret != "").
		Config("model", gen.TextModel()).
		Config("config_file", cfg.Source).
		Config("download_base_url", cfg.Download.BaseURL).
		Log()

	log.Info().Int("port", cfg.Server.Port).Msg("Starting web server")
	fmt.Printf("\n  Content API: http://localhost:%d/api/health\n\n", cfg.Server.Port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
