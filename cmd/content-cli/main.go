package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/social-content-toolkit/internal/auth"
	"github.com/fpang/social-content-toolkit/internal/chat"
	"github.com/fpang/social-content-toolkit/internal/cli"
	"github.com/fpang/social-content-toolkit/internal/config"
	"github.com/fpang/social-content-toolkit/internal/logging"
	"github.com/fpang/social-content-toolkit/internal/metrics"
	"github.com/fpang/social-content-toolkit/internal/prompt"
	"github.com/fpang/social-content-toolkit/internal/tools"
)

// CLI flags
var (
	configFlag string

	toolFlag       string
	contentFlag    string
	toneLevelFlag  int
	politicalFlag  bool
	stanceFlag     string
	partyFlag      string
	advancedFlag   bool
	toneFlag       string
	contextFlag    string
	brandVoiceFlag string
	goalFlag       string
	lengthFlag     string
	languageFlag   string
	emojisFlag     bool
	imageFlag      string
	pickImageFlag  bool
	jsonFlag       bool
)

var rootCmd = &cobra.Command{
	Use:   "content-cli",
	Short: "Generate social media content with Gemini",
	Long: `Content CLI generates captions, comments, hashtags, bios, ideas, ad copy,
YouTube titles and descriptions, reel scripts and TikTok ideas from a short
description or an image.

Examples:
  content-cli generate --tool caption --content "Sunrise hike up Mt. Tam"
  content-cli generate --tool comment --political --stance "In Favor" --content "..."
  content-cli generate --tool ad-copy --advanced --tone Persuasive --goal Sales --content "..."
  content-cli generate --tool caption --pick-image
  content-cli tools
  content-cli validate`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init()
		metrics.SetOutput(io.Discard)
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate five suggestions with one tool",
	Args:  cobra.NoArgs,
	Run:   runGenerate,
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available tools",
	Args:  cobra.NoArgs,
	Run:   runTools,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the Gemini API key works",
	Args:  cobra.NoArgs,
	Run:   runValidate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to a TOML config file")

	f := generateCmd.Flags()
	f.StringVarP(&toolFlag, "tool", "t", string(tools.Caption), "Tool to use (see 'content-cli tools')")
	f.StringVarP(&contentFlag, "content", "c", "", "What the content is about (prompted for when omitted)")
	f.IntVar(&toneLevelFlag, "tone-level", 2, "Quick-mode tone level, 0 (Formal) to 3 (Funny and Witty)")
	f.BoolVar(&politicalFlag, "political", false, "Quick mode: use the political discourse tone")
	f.StringVar(&stanceFlag, "stance", "", "Political stance: In Favor, Opposed, Neutral")
	f.StringVar(&partyFlag, "party", "", "Political party the stance is written from")
	f.BoolVar(&advancedFlag, "advanced", false, "Use advanced mode (tone, goal, context, brand voice)")
	f.StringVar(&toneFlag, "tone", "", "Advanced-mode tone")
	f.StringVar(&contextFlag, "context", "", "Advanced-mode context")
	f.StringVar(&brandVoiceFlag, "brand-voice", "", "Advanced-mode brand voice")
	f.StringVar(&goalFlag, "goal", "", "Advanced-mode goal")
	f.StringVarP(&lengthFlag, "length", "l", "", "Length: short, medium or long")
	f.StringVar(&languageFlag, "language", "", "Output language")
	f.BoolVar(&emojisFlag, "emojis", false, "Include emojis")
	f.StringVarP(&imageFlag, "image", "i", "", "Path to a reference image")
	f.BoolVar(&pickImageFlag, "pick-image", false, "Choose the reference image with a file dialog")
	f.BoolVar(&jsonFlag, "json", false, "Print the result as JSON")
	generateCmd.MarkFlagsMutuallyExclusive("image", "pick-image")

	rootCmd.AddCommand(generateCmd, toolsCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(configFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	req := prompt.Request{
		Content:    contentFlag,
		Tool:       toolFlag,
		Length:     lengthFlag,
		Language:   languageFlag,
		UseEmojis:  emojisFlag,
		Advanced:   advancedFlag,
		Tone:       toneFlag,
		Context:    contextFlag,
		BrandVoice: brandVoiceFlag,
		Goal:       goalFlag,
		Political:  politicalFlag,
		Stance:     stanceFlag,
		Party:      partyFlag,
	}
	if cmd.Flags().Changed("tone-level") {
		req.ToneLevel = &toneLevelFlag
	}

	imagePath := imageFlag
	if pickImageFlag {
		imagePath, err = cli.PickImage()
		if errors.Is(err, cli.ErrPickCanceled) {
			log.Info().Msg("No image selected")
			return
		}
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to pick image")
		}
	}
	if imagePath != "" {
		if req.Image, err = cli.ImageFromFile(imagePath); err != nil {
			log.Fatal().Err(err).Str("path", imagePath).Msg("Failed to load image")
		}
	}

	if req.Content == "" && req.Image == nil {
		d, err := tools.Lookup(tools.ID(strings.ToLower(strings.TrimSpace(req.Tool))))
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid tool")
		}
		req.Content = cli.PromptForContent(os.Stdin, os.Stderr, d)
	}

	gen := cli.InitGenerator(ctx, cfg, false)
	d, res, err := cli.Run(ctx, gen, req)
	if err != nil {
		var genErr *chat.GenerationError
		if errors.As(err, &genErr) {
			log.Fatal().Err(err).Msg(genErr.Error())
		}
		log.Fatal().Err(err).Msg("Generation failed")
	}

	if err := cli.WriteResult(os.Stdout, d, res, jsonFlag); err != nil {
		log.Fatal().Err(err).Msg("Failed to write result")
	}
}

func runTools(cmd *cobra.Command, args []string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TOOL\tPRODUCES\tIMAGE\tTONES")
	for _, d := range tools.All() {
		image := "no"
		if d.AcceptsImage {
			image = "yes"
		}
		fmt.Fprintf(w, "%s\t%ss\t%s\t%d\n", d.ID, d.Noun, image, len(prompt.TonesFor(d.ID)))
	}
	w.Flush()
}

func runValidate(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	cfg, err := config.Load(configFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	apiKey, err := auth.GetAPIKey()
	if err != nil {
		cli.HandleValidationError(&auth.ValidationError{Type: auth.ErrTypeNoKey, Message: "no API key", Err: err})
	}
	client, err := chat.NewGeminiClient(ctx, apiKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Gemini client")
	}
	if err := auth.ValidateAPIKey(ctx, client, cfg.Gemini.Model); err != nil {
		cli.HandleValidationError(err)
	}
	fmt.Printf("API key is valid for %s\n", cfg.Gemini.Model)
}
