package cutout

import (
	"image"
	"image/draw"

	"github.com/nfnt/resize"
)

// toNRGBA 转成预乘前的 NRGBA 像素缓冲，并把原点归一化到 (0,0)
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if nrgba, ok := img.(*image.NRGBA); ok && b.Min.X == 0 && b.Min.Y == 0 {
		return nrgba
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// cloneAlpha 拷贝一份 alpha 平面，平滑阶段从快照读、向原图写
func cloneAlpha(img *image.NRGBA) []uint8 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	plane := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := y * img.Stride
		for x := 0; x < w; x++ {
			plane[y*w+x] = img.Pix[row+x*4+3]
		}
	}
	return plane
}

// resizeWithinMax 限制最长边不超过 maxEdge，等比缩小，不放大
func resizeWithinMax(img image.Image, maxEdge int) image.Image {
	if maxEdge <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return img
	}

	var newW, newH int
	if w >= h {
		newW = maxEdge
		newH = h * maxEdge / w
	} else {
		newH = maxEdge
		newW = w * maxEdge / h
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return resize.Resize(uint(newW), uint(newH), img, resize.Lanczos3)
}
