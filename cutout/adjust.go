package cutout

import (
	"image"

	"github.com/disintegration/imaging"
)

// Adjustment 亮度对比度调整参数，取值范围 [-100, 100]，越界截断
type Adjustment struct {
	Brightness int16 `json:"brightness"`
	Contrast   int16 `json:"contrast"`
}

func clampPercent(v int16) float64 {
	if v > 100 {
		return 100
	}
	if v < -100 {
		return -100
	}
	return float64(v)
}

// adjustBrightnessContrast 先调亮度再调对比度，两者都为 0 时原样返回
func adjustBrightnessContrast(img image.Image, adj Adjustment) image.Image {
	out := img
	if adj.Brightness != 0 {
		out = imaging.AdjustBrightness(out, clampPercent(adj.Brightness))
	}
	if adj.Contrast != 0 {
		out = imaging.AdjustContrast(out, clampPercent(adj.Contrast))
	}
	return out
}
