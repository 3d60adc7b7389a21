// Package main provides the Lambda entry point for the content API.
//
// The same chi router served by content-web runs behind API Gateway HTTP
// API v2 through the httpadapter.
//
// Cold start:
//   - Gemini API key from SSM Parameter Store unless GEMINI_API_KEY is set
//   - admin store: Aurora via the RDS Data API, DynamoDB, or in memory
//   - optional S3 bucket for generated photos
//
// Endpoints: see internal/api.
package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/rs/zerolog/log"

	"github.com/fpang/social-content-toolkit/internal/api"
	"github.com/fpang/social-content-toolkit/internal/chat"
	"github.com/fpang/social-content-toolkit/internal/config"
	"github.com/fpang/social-content-toolkit/internal/download"
	"github.com/fpang/social-content-toolkit/internal/lambdaboot"
	"github.com/fpang/social-content-toolkit/internal/logging"
)

// Build-time version identity, injected via -ldflags:
//
//	go build -ldflags="-X main.commitHash=${COMMIT_HASH} -X main.buildTime=$(date -u +%Y%m%dT%H%M%SZ)"
var (
	commitHash = "dev"
	buildTime  = "unknown"
)

var handler *httpadapter.HandlerAdapterV2

func init() {
	initStart := time.Now()
	logging.InitJSON()

	clients := lambdaboot.InitAWS()
	lambdaboot.LoadGeminiKey(clients.SSM)

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.Server.OriginVerifySecret == "" {
		log.Warn().Msg("ORIGIN_VERIFY_SECRET not set, origin verification disabled")
	}

	gen, err := chat.NewGenerator(context.Background(), os.Getenv("GEMINI_API_KEY"), chat.OptionsFromConfig(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create generator")
	}

	deps := api.Deps{
		Generator:          gen,
		Store:              lambdaboot.InitAdminStore(clients.Config, cfg.Admin),
		Downloader:         download.NewClient(cfg.Download.BaseURL),
		AllowedOrigins:     cfg.Server.AllowedOrigins,
		OriginVerifySecret: cfg.Server.OriginVerifySecret,
	}
	if pub := lambdaboot.InitPublisher(clients.Config, cfg.Media.Bucket); pub != nil {
		deps.Publisher = pub
	}
	handler = httpadapter.NewV2(api.NewRouter(deps))

	lambdaboot.StartupLog("api-lambda", initStart).
		CommitHash(commitHash).
		BuildTime(buildTime).
		SSMParam("geminiApiKey", lambdaboot.APIKeyParam()).
		S3Bucket("media", cfg.Media.Bucket).
		DynamoTable("admin", cfg.Admin.TableName).
		Database("admin", cfg.Admin.ClusterARN).
		Feature("placeholder", gen.Placeholder()).
		Feature("originVerify", cfg.Server.OriginVerifySecret != "").
		Config("model", gen.TextModel()).
		Config("downloadBaseUrl", cfg.Download.BaseURL).
		Log()
}

func main() {
	lambda.Start(handler.ProxyWithContext)
}
