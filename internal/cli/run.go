package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reelsmith/reelsmith/internal/config"
	"github.com/reelsmith/reelsmith/internal/pipeline"
)

func run(cmd *cobra.Command, audioFiles []string) error {
	assetsDir, _ := cmd.Flags().GetString("assets")
	audioDir, _ := cmd.Flags().GetString("audio-dir")
	outDir, _ := cmd.Flags().GetString("out")
	seed, _ := cmd.Flags().GetInt64("seed")
	asrBackend, _ := cmd.Flags().GetString("asr")
	configPath, _ := cmd.Flags().GetString("config")
	render, _ := cmd.Flags().GetBool("render")
	verbose, _ := cmd.Flags().GetBool("verbose")
	cacheDir, _ := cmd.Flags().GetString("cache")
	whisperBin, _ := cmd.Flags().GetString("whisper-bin")
	whisperModel, _ := cmd.Flags().GetString("whisper-model")
	fontFile, _ := cmd.Flags().GetString("font-file")
	fontSize, _ := cmd.Flags().GetInt("font-size")

	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	settings := config.Default()
	if configPath != "" {
		settings, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		AudioFiles: audioFiles,
		AudioDir:   audioDir,
		AssetsDir:  assetsDir,
		OutDir:     outDir,
		CacheDir:   cacheDir,
		Seed:       seed,
		Render:     render,
		FontFile:   fontFile,
		FontSize:   fontSize,

		ASRBackend:   asrBackend,
		WhisperBin:   whisperBin,
		WhisperModel: whisperModel,
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  os.Getenv("OPENAI_ASR_MODEL"),

		Settings: settings,
		Log:      logger.Sugar(),
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return pipeline.Run(ctx, cfg)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
