package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "reelsmith <audio>...",
		Short:        "Assemble short vertical videos from narration audio and stock footage",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.Flags().String("assets", "VideoAssets", "Directory with stock footage")
	root.Flags().String("audio-dir", "AudioAssets", "Directory resolved against relative audio filenames")
	root.Flags().String("out", "OutputVideos", "Output directory")
	root.Flags().Int64("seed", 0, "Pool shuffle seed (0 = random)")
	root.Flags().String("asr", "whispercpp", "Transcription backend: whispercpp or openai")
	root.Flags().String("config", "", "Path to a yaml config overriding timing/geometry defaults")
	root.Flags().Bool("render", true, "Render the final video (disable to write only the manifest)")
	root.Flags().BoolP("verbose", "v", false, "Verbose logging")

	// Hidden tuning flags (internal)
	root.Flags().String("cache", ".cache", "Cache directory")
	root.Flags().String("whisper-bin", ".cache/bin/whisper.cpp", "whisper.cpp binary path")
	root.Flags().String("whisper-model", ".cache/models/ggml-base.bin", "whisper.cpp model path")
	root.Flags().String("font-file", "", "Font file for burned captions")
	root.Flags().Int("font-size", 45, "Caption font size")
	for _, name := range []string{"cache", "whisper-bin", "whisper-model", "font-file", "font-size"} {
		_ = root.Flags().MarkHidden(name)
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
