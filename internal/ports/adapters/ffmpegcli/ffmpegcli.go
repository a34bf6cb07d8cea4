// Package ffmpegcli implements media probing and rendering on top of the
// ffmpeg/ffprobe binaries via ffmpeg-go filter graphs.
package ffmpegcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/reelsmith/reelsmith/internal/types"
)

type Adapter struct {
	fontFile string
	fontSize int
}

func New(fontFile string, fontSize int) *Adapter {
	if fontSize <= 0 {
		fontSize = 45
	}
	return &Adapter{fontFile: fontFile, fontSize: fontSize}
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Duration  string `json:"duration"`
	} `json:"streams"`
}

func (a *Adapter) ProbeClip(ctx context.Context, path string) (types.ClipDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return types.ClipDescriptor{}, err
	}
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return types.ClipDescriptor{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseClipProbe(path, raw)
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return 0, fmt.Errorf("parse probe of %s: %w", path, err)
	}
	sec, err := parseSeconds(out.Format.Duration)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", path, err)
	}
	return dur(sec), nil
}

func parseClipProbe(path, raw string) (types.ClipDescriptor, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return types.ClipDescriptor{}, fmt.Errorf("parse probe of %s: %w", path, err)
	}

	desc := types.ClipDescriptor{Path: path}
	for _, s := range out.Streams {
		if s.CodecType != "video" {
			continue
		}
		desc.Width = s.Width
		desc.Height = s.Height
		if sec, err := parseSeconds(s.Duration); err == nil {
			desc.Duration = dur(sec)
		}
		break
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return types.ClipDescriptor{}, fmt.Errorf("probe %s: no video stream", path)
	}
	// Some containers only report duration at the format level.
	if desc.Duration <= 0 {
		sec, err := parseSeconds(out.Format.Duration)
		if err != nil {
			return types.ClipDescriptor{}, fmt.Errorf("probe %s: no duration", path)
		}
		desc.Duration = dur(sec)
	}
	if desc.Duration <= 0 {
		return types.ClipDescriptor{}, fmt.Errorf("probe %s: non-positive duration", path)
	}
	return desc, nil
}

func (a *Adapter) Render(ctx context.Context, plan types.SequencePlan, phrases []types.CaptionPhrase, audioPath, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(plan.Entries) == 0 {
		return errors.New("render: empty plan")
	}

	streams := make([]*ffmpeg.Stream, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		streams = append(streams, a.entryStream(e))
	}
	video := streams[0]
	if len(streams) > 1 {
		video = ffmpeg.Concat(streams)
	}
	for _, p := range phrases {
		video = video.Filter("drawtext", ffmpeg.Args{}, a.drawtextArgs(p))
	}

	audio := ffmpeg.Input(audioPath).Audio()
	cmd := ffmpeg.Output([]*ffmpeg.Stream{video, audio}, outPath, ffmpeg.KwArgs{
		"c:v":      "libx264",
		"preset":   "veryfast",
		"crf":      18,
		"pix_fmt":  "yuv420p",
		"c:a":      "aac",
		"b:a":      "192k",
		"movflags": "+faststart",
		"r":        24,
	})
	if err := cmd.OverWriteOutput().Run(); err != nil {
		return fmt.Errorf("ffmpeg render %s: %w", outPath, err)
	}
	return nil
}

func (a *Adapter) entryStream(e types.ClipPlanEntry) *ffmpeg.Stream {
	in := ffmpeg.Input(e.Source.Path, ffmpeg.KwArgs{
		"ss": fmtSeconds(e.TrimStart),
		"t":  fmtSeconds(e.Duration()),
	})
	st := in.
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", e.Scale.Width, e.Scale.Height)}).
		Filter("crop", ffmpeg.Args{fmt.Sprintf("%d:%d:%d:%d", e.Crop.Width, e.Crop.Height, e.Crop.X, e.Crop.Y)})
	if e.FadeIn > 0 {
		st = st.Filter("fade", ffmpeg.Args{}, ffmpeg.KwArgs{
			"type":       "in",
			"start_time": 0,
			"duration":   fmtSeconds(e.FadeIn),
		})
	}
	if e.FadeOut > 0 {
		start := e.Duration() - e.FadeOut
		if start < 0 {
			start = 0
		}
		st = st.Filter("fade", ffmpeg.Args{}, ffmpeg.KwArgs{
			"type":       "out",
			"start_time": fmtSeconds(start),
			"duration":   fmtSeconds(e.FadeOut),
		})
	}
	return st
}

func (a *Adapter) drawtextArgs(p types.CaptionPhrase) ffmpeg.KwArgs {
	kw := ffmpeg.KwArgs{
		"text":        escapeDrawText(p.Text),
		"fontsize":    a.fontSize,
		"fontcolor":   "white",
		"borderw":     2,
		"bordercolor": "black",
		"x":           "(w-text_w)/2",
		"y":           "(h-text_h)/2",
		"enable":      fmt.Sprintf("between(t,%s,%s)", fmtSeconds(p.Start), fmtSeconds(p.End)),
	}
	if a.fontFile != "" {
		kw["fontfile"] = a.fontFile
	}
	return kw
}

// escapeDrawText escapes characters that terminate or confuse the drawtext
// filter's text option.
func escapeDrawText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "'", "\\'")
	s = strings.ReplaceAll(s, ":", "\\:")
	s = strings.ReplaceAll(s, "%", "\\%")
	return s
}

func parseSeconds(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
