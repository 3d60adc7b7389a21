// Package main serves the content tools to MCP clients over stdio.
//
// Tools:
//
//	generate_content  run one content tool and return its suggestions
//	list_tools        describe the available content tools and options
//
// Stdout carries the protocol, so logs go to stderr and metrics are
// discarded.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/social-content-toolkit/internal/cli"
	"github.com/fpang/social-content-toolkit/internal/config"
	"github.com/fpang/social-content-toolkit/internal/logging"
	"github.com/fpang/social-content-toolkit/internal/metrics"
)

const serverVersion = "v1.0.0"

var configFlag string

var rootCmd = &cobra.Command{
	Use:   "content-mcp",
	Short: "MCP stdio server for the content tools",
	Args:  cobra.NoArgs,
	Run:   runMain,
}

func init() {
	rootCmd.Flags().StringVar(&configFlag, "config", "", "Path to a TOML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	logging.Init()
	metrics.SetOutput(io.Discard)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(configFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	gen := cli.InitGenerator(ctx, cfg, false)

	server := newServer(&toolHandlers{gen: gen})
	log.Info().Str("model", gen.TextModel()).Bool("placeholder", gen.Placeholder()).Msg("MCP server listening on stdio")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("MCP server failed")
	}
}

func newServer(h *toolHandlers) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "content-mcp", Version: serverVersion}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_content",
		Description: "Generate five social media suggestions (captions, comments, hashtags, bios, ideas, ad copy, YouTube titles or descriptions, reel scripts, TikTok ideas) from a short description.",
	}, h.generate)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tools",
		Description: "List the content tools with their tones, and the accepted lengths, languages, goals, stances and parties.",
	}, h.listTools)
	return server
}
