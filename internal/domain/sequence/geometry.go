package sequence

import "github.com/reelsmith/reelsmith/internal/types"

// FitFrame computes the uniform scale and centered crop that make a source
// frame fill the target frame without letterboxing and without distortion.
// A source wider than the target is scaled to match the target height and
// center-cropped horizontally; a taller source is scaled to match the target
// width and center-cropped vertically.
func FitFrame(srcW, srcH int, frame types.FrameSize) (types.FrameSize, types.CropRect) {
	srcRatio := float64(srcW) / float64(srcH)
	targetRatio := float64(frame.Width) / float64(frame.Height)

	if srcRatio > targetRatio {
		scaled := types.FrameSize{
			Width:  int(float64(frame.Height) * srcRatio),
			Height: frame.Height,
		}
		x := scaled.Width/2 - frame.Width/2
		return scaled, types.CropRect{X: x, Y: 0, Width: frame.Width, Height: frame.Height}
	}

	scaled := types.FrameSize{
		Width:  frame.Width,
		Height: int(float64(frame.Width) / srcRatio),
	}
	y := scaled.Height/2 - frame.Height/2
	return scaled, types.CropRect{X: 0, Y: y, Width: frame.Width, Height: frame.Height}
}
