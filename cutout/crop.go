package cutout

import (
	"image"
	"image/draw"
)

// cropPadding 裁剪时在前景包围盒四周保留的边距像素数
const cropPadding = 10

// foregroundBBox 扫描 alpha > 0 的像素求最小包围盒
func foregroundBBox(img *image.NRGBA) (image.Rectangle, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	minX, minY := w, h
	maxX, maxY := -1, -1

	for y := 0; y < h; y++ {
		row := y * img.Stride
		for x := 0; x < w; x++ {
			if img.Pix[row+x*4+3] == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < 0 {
		return image.Rectangle{}, ErrEmptyForeground
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), nil
}

// CropToForeground 裁掉前景包围盒之外的区域，带 cropPadding 边距，
// 边距越界时收缩到图片边界
func CropToForeground(img *image.NRGBA) (*image.NRGBA, error) {
	bbox, err := foregroundBBox(img)
	if err != nil {
		return nil, err
	}

	padded := image.Rect(
		bbox.Min.X-cropPadding,
		bbox.Min.Y-cropPadding,
		bbox.Max.X+cropPadding,
		bbox.Max.Y+cropPadding,
	).Intersect(img.Bounds())

	dst := image.NewNRGBA(image.Rect(0, 0, padded.Dx(), padded.Dy()))
	draw.Draw(dst, dst.Bounds(), img, padded.Min, draw.Src)
	return dst, nil
}
