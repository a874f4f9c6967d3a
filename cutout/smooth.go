package cutout

import "image"

// SmoothAlphaEdges 对处于半透明状态的像素做邻域均值平滑。
// 只处理 0 < alpha < 255 的像素，均值从平滑前的 alpha 快照计算，
// 距离边框不足 radius 的像素跳过。
func SmoothAlphaEdges(img *image.NRGBA, radius uint16) {
	if radius == 0 {
		return
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	r := int(radius)
	if w <= 2*r || h <= 2*r {
		return
	}

	snapshot := cloneAlpha(img)
	window := (2*r + 1) * (2*r + 1)

	for y := r; y < h-r; y++ {
		row := y * img.Stride
		for x := r; x < w-r; x++ {
			a := snapshot[y*w+x]
			if a == 0 || a == 255 {
				continue
			}

			sum := 0
			for dy := -r; dy <= r; dy++ {
				base := (y + dy) * w
				for dx := -r; dx <= r; dx++ {
					sum += int(snapshot[base+x+dx])
				}
			}
			img.Pix[row+x*4+3] = uint8(sum / window)
		}
	}
}
