package cutout

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// Asset 处理完成的透明底图片，Data 为 PNG 字节，
// DisplayRef 为可直接内嵌展示的 data URI
type Asset struct {
	Data       []byte `json:"-"`
	DisplayRef string `json:"display_ref"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// encodeAsset 把像素缓冲编码成 PNG 并生成 data URI
func encodeAsset(img *image.NRGBA) (*Asset, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, &ProcessingError{Stage: "encode", Err: err}
	}

	data := buf.Bytes()
	b := img.Bounds()
	return &Asset{
		Data:       data,
		DisplayRef: "data:image/png;base64," + base64.StdEncoding.EncodeToString(data),
		Width:      b.Dx(),
		Height:     b.Dy(),
	}, nil
}

// Thumbnail 生成最长边不超过 maxEdge 的缩略图，小图不放大
func (a *Asset) Thumbnail(maxEdge int) (*Asset, error) {
	img, _, err := image.Decode(bytes.NewReader(a.Data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxEdge <= 0 || (w <= maxEdge && h <= maxEdge) {
		return a, nil
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

	dst := image.NewNRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return encodeAsset(dst)
}
