package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reelsmith/reelsmith/internal/assets"
	"github.com/reelsmith/reelsmith/internal/config"
	"github.com/reelsmith/reelsmith/internal/ports"
	"github.com/reelsmith/reelsmith/internal/ports/adapters/ffmpegcli"
	"github.com/reelsmith/reelsmith/internal/ports/adapters/openaiasr"
	"github.com/reelsmith/reelsmith/internal/ports/adapters/whispercpp"
	"github.com/reelsmith/reelsmith/internal/usecase"
)

const (
	ASRWhisperCPP = "whispercpp"
	ASROpenAI     = "openai"
)

type Config struct {
	// AudioFiles are narration files, resolved against AudioDir when relative.
	AudioFiles []string
	AudioDir   string
	AssetsDir  string
	OutDir     string

	// CacheDir is the base directory for local artifacts (transcripts, etc.).
	// If empty, defaults to ".cache".
	CacheDir string

	// Seed drives the pool shuffle. Zero means derive from the clock.
	Seed int64

	Render   bool
	FontFile string
	FontSize int

	ASRBackend   string
	WhisperBin   string
	WhisperModel string
	OpenAIAPIKey string
	OpenAIModel  string

	Settings config.Config

	Log *zap.SugaredLogger
}

func (c Config) Validate() error {
	if len(c.AudioFiles) == 0 {
		return errors.New("no audio files given")
	}
	for _, f := range c.AudioFiles {
		if _, err := os.Stat(c.resolveAudio(f)); err != nil {
			return fmt.Errorf("stat audio: %w", err)
		}
	}
	if c.AssetsDir == "" {
		return errors.New("assets dir is empty")
	}
	if _, err := os.Stat(c.AssetsDir); err != nil {
		return fmt.Errorf("stat assets dir: %w", err)
	}
	switch c.ASRBackend {
	case ASRWhisperCPP:
		if c.WhisperModel == "" {
			return errors.New("whisper model path is required")
		}
	case ASROpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai backend")
		}
	default:
		return fmt.Errorf("unknown asr backend %q", c.ASRBackend)
	}
	return c.Settings.Validate()
}

func (c Config) resolveAudio(name string) string {
	if filepath.IsAbs(name) || c.AudioDir == "" {
		return name
	}
	return filepath.Join(c.AudioDir, name)
}

// Run processes every audio file as an independent job. A failed job is
// logged and skipped so the rest of the batch still completes; Run fails only
// when no job succeeds.
func Run(ctx context.Context, cfg Config) error {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	media := ffmpegcli.New(cfg.FontFile, cfg.FontSize)
	var asr ports.ASR
	switch cfg.ASRBackend {
	case ASROpenAI:
		asr = openaiasr.New(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	default:
		asr = whispercpp.New(cfg.WhisperBin, cfg.WhisperModel)
	}

	uc := usecase.New(usecase.Deps{
		Prober:   media,
		ASR:      asr,
		Renderer: media,
		Log:      log,
	})

	videos, err := assets.ScanVideos(cfg.AssetsDir)
	if err != nil {
		return err
	}
	log.Infow("assets scanned", "dir", cfg.AssetsDir, "videos", len(videos))

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Infow("pool shuffle seed", "seed", seed)

	baseCache := cfg.CacheDir
	if baseCache == "" {
		baseCache = ".cache"
	}
	outRoot := cfg.OutDir
	if outRoot == "" {
		outRoot = "out"
	}

	failed := 0
	for i, name := range cfg.AudioFiles {
		audioPath := cfg.resolveAudio(name)
		runDir := buildRunOutDir(outRoot, audioPath, time.Now().UTC())
		cacheDir := filepath.Join(baseCache, "runs", filepath.Base(runDir))
		if err := os.MkdirAll(runDir, 0o755); err != nil {
			return err
		}
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			return err
		}

		// Offsetting the seed per job keeps the whole batch reproducible while
		// giving each audio its own footage order.
		shuffled := assets.Shuffle(videos, seed+int64(i))

		res, err := uc.Run(ctx, usecase.Input{
			AudioPath:  audioPath,
			VideoPaths: shuffled,
			CacheDir:   cacheDir,
			OutDir:     runDir,
			Captions:   cfg.Settings.Captions.Domain(),
			Sequence:   cfg.Settings.Sequence.Domain(),
			Render:     cfg.Render,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Errorw("job failed", "audio", audioPath, "err", err)
			failed++
			continue
		}

		b, err := json.MarshalIndent(res.Manifest, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal manifest: %w", err)
		}
		manifestPath := filepath.Join(runDir, "manifest.json")
		if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
			return err
		}
		log.Infow("manifest written", "clips", len(res.Manifest.Clips), "phrases", len(res.Manifest.Phrases), "path", manifestPath)
	}

	if failed == len(cfg.AudioFiles) {
		return fmt.Errorf("all %d jobs failed", failed)
	}
	return nil
}

func buildRunOutDir(outRoot, audioPath string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	name = normalizePathSegment(name)
	if name == "" {
		name = "audio"
	}
	ts := now.UTC().Format("20060102-150405Z")
	suffix := uuid.NewString()[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// ensure adapters implement ports
var _ ports.MediaProber = (*ffmpegcli.Adapter)(nil)
var _ ports.Renderer = (*ffmpegcli.Adapter)(nil)
var _ ports.ASR = (*whispercpp.Adapter)(nil)
var _ ports.ASR = (*openaiasr.Adapter)(nil)
