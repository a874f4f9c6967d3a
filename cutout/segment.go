package cutout

import (
	"image"
	"image/color"
	"math"
)

// SampleBackgroundColor 取四个角的像素求平均作为背景色，除法向下取整
func SampleBackgroundColor(img *image.NRGBA) color.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	corners := [4]int{
		0,                          // 左上
		(w - 1) * 4,                // 右上
		(h - 1) * img.Stride,       // 左下
		(h-1)*img.Stride + (w-1)*4, // 右下
	}

	var r, g, bl int
	for _, i := range corners {
		r += int(img.Pix[i])
		g += int(img.Pix[i+1])
		bl += int(img.Pix[i+2])
	}
	return color.NRGBA{
		R: uint8(r / 4),
		G: uint8(g / 4),
		B: uint8(bl / 4),
		A: 255,
	}
}

// SegmentBackground 按像素与背景色的欧氏色距打透明度：
// 距离小于 threshold 的完全透明，位于 [threshold, 1.5*threshold) 的线性过渡，
// 其余保持不变。只改 alpha 通道，RGB 保持原样，且 alpha 只减不增。
func SegmentBackground(img *image.NRGBA, bg color.NRGBA, threshold uint16) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	t := float64(threshold)
	upper := 1.5 * t

	br := float64(bg.R)
	bgc := float64(bg.G)
	bb := float64(bg.B)

	for y := 0; y < h; y++ {
		row := y * img.Stride
		for x := 0; x < w; x++ {
			i := row + x*4
			dr := float64(img.Pix[i]) - br
			dg := float64(img.Pix[i+1]) - bgc
			db := float64(img.Pix[i+2]) - bb
			diff := math.Sqrt(dr*dr + dg*dg + db*db)

			switch {
			case diff >= upper:
				// 前景，保持原样
			case diff < t:
				img.Pix[i+3] = 0
			default:
				// 过渡带，threshold 为 0 时走不到这里
				a := uint8(math.Floor((diff - t) / (0.5 * t) * 255))
				if a < img.Pix[i+3] {
					img.Pix[i+3] = a
				}
			}
		}
	}
}
