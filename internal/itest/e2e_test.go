//go:build integration

package itest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reelsmith/reelsmith/internal/config"
	"github.com/reelsmith/reelsmith/internal/pipeline"
	"github.com/reelsmith/reelsmith/internal/types"
)

func TestE2E_ManifestOnly(t *testing.T) {
	whisperBin := os.Getenv("WHISPER_BIN")
	whisperModel := os.Getenv("WHISPER_MODEL")
	if whisperBin == "" || whisperModel == "" {
		t.Fatalf("WHISPER_BIN and WHISPER_MODEL are required for itest")
	}

	tmp := t.TempDir()

	audio := filepath.Join(tmp, "speech.wav")
	makeSpeechWAV(t, audio, "Here is the key idea. Step one: do this. Step two: measure results. This is important.")

	assetsDir := filepath.Join(tmp, "VideoAssets")
	if err := os.MkdirAll(assetsDir, 0o755); err != nil {
		t.Fatalf("mkdir assets: %v", err)
	}
	makeTestClip(t, filepath.Join(assetsDir, "wide.mp4"), 6, "1280x720")
	makeTestClip(t, filepath.Join(assetsDir, "tall.mp4"), 6, "720x1280")
	makeTestClip(t, filepath.Join(assetsDir, "square.mp4"), 6, "960x960")

	outDir := filepath.Join(tmp, "out")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg := pipeline.Config{
		AudioFiles:   []string{audio},
		AssetsDir:    assetsDir,
		OutDir:       outDir,
		CacheDir:     filepath.Join(tmp, "cache"),
		Seed:         1,
		ASRBackend:   pipeline.ASRWhisperCPP,
		WhisperBin:   whisperBin,
		WhisperModel: whisperModel,
		Settings:     config.Default(),
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	if err := pipeline.Run(ctx, cfg); err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(outDir, "speech-*", "manifest.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one manifest, got %v (err=%v)", matches, err)
	}

	b, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m types.Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	if len(m.Clips) == 0 {
		t.Fatalf("manifest has no clips")
	}
	if len(m.Phrases) == 0 {
		t.Fatalf("manifest has no phrases")
	}

	var total float64
	for _, c := range m.Clips {
		if c.TrimEndSec-c.TrimStartSec > 5.0+1e-9 {
			t.Fatalf("clip exceeds per-clip cap: %+v", c)
		}
		total += c.TrimEndSec - c.TrimStartSec
	}
	if diff := total - m.TargetSec; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("plan total %.6f != target %.6f", total, m.TargetSec)
	}
}
