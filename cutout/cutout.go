// Package cutout 服装图片抠图流水线：解码、取背景色、按色距分割、
// 边缘平滑、裁剪到前景，产出透明底 PNG 素材
package cutout

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/chaos-io/closetcut/cutout/matting"
)

// Mode 抠图方式
type Mode uint8

const (
	// ModeAuto 配置了远程服务就走远程，否则本地分割
	ModeAuto Mode = iota
	// ModeLocal 本地色距分割
	ModeLocal
	// ModeRemote 远程抠图服务
	ModeRemote
)

func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeRemote:
		return "api"
	default:
		return "auto"
	}
}

// ParseMode 解析模式字符串，空串视为 auto
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "auto":
		return ModeAuto, nil
	case "local":
		return ModeLocal, nil
	case "api", "remote":
		return ModeRemote, nil
	default:
		return ModeAuto, fmt.Errorf("cutout: unknown mode %q", s)
	}
}

const (
	// DefaultThreshold 默认色距阈值
	DefaultThreshold uint16 = 30
	// DefaultSmoothingRadius 默认边缘平滑半径
	DefaultSmoothingRadius uint16 = 2
)

// Options 单次抠图的参数，TargetColor 为 nil 时自动采样四角
type Options struct {
	Threshold       uint16       `json:"threshold"`
	SmoothingRadius uint16       `json:"smoothing_radius"`
	TargetColor     *color.NRGBA `json:"target_color,omitempty"`
}

// DefaultOptions 返回默认参数
func DefaultOptions() Options {
	return Options{
		Threshold:       DefaultThreshold,
		SmoothingRadius: DefaultSmoothingRadius,
	}
}

func (o *Options) validate() error {
	if o.Threshold > 255 {
		return fmt.Errorf("cutout: threshold %d out of range [0, 255]", o.Threshold)
	}
	return nil
}

// Processor 抠图流水线。Mode 在构造时定下，Auto 只在入口解析一次，
// 处理过程中不再改变。
type Processor struct {
	Mode     Mode
	Matter   matting.Matter
	Defaults Options

	// MaxDimension 超过该尺寸的图先等比缩小再处理，0 表示不限制
	MaxDimension int
}

func NewProcessor(mode Mode, matter matting.Matter) *Processor {
	return &Processor{
		Mode:     mode,
		Matter:   matter,
		Defaults: DefaultOptions(),
	}
}

// Resolved 把 Auto 落到具体模式：远程服务可用则远程，否则本地
func (p *Processor) Resolved() Mode {
	if p.Mode != ModeAuto {
		return p.Mode
	}
	if p.Matter != nil && p.Matter.Configured() {
		return ModeRemote
	}
	return ModeLocal
}

// Process 按 Processor 的模式抠图
func (p *Processor) Process(ctx context.Context, data []byte, opts *Options) (*Asset, error) {
	mode := p.Resolved()
	switch mode {
	case ModeLocal:
		return p.RemoveBackground(data, opts)
	case ModeRemote:
		return p.RemoveBackgroundRemote(ctx, data)
	default:
		return nil, fmt.Errorf("cutout: unhandled mode %v", mode)
	}
}

// ProcessResult 异步抠图的结果
type ProcessResult struct {
	Asset *Asset
	Err   error
}

// ProcessAsync 在后台协程里抠图，结果从返回的 channel 取一次
func (p *Processor) ProcessAsync(ctx context.Context, data []byte, opts *Options) <-chan ProcessResult {
	ch := make(chan ProcessResult, 1)
	go func() {
		asset, err := p.Process(ctx, data, opts)
		ch <- ProcessResult{Asset: asset, Err: err}
	}()
	return ch
}

// RemoveBackground 本地抠图：采样背景色、按色距分割、平滑边缘、裁剪到前景
func (p *Processor) RemoveBackground(data []byte, opts *Options) (*Asset, error) {
	if opts == nil {
		opts = &p.Defaults
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	buf := toNRGBA(resizeWithinMax(img, p.MaxDimension))

	bg := SampleBackgroundColor(buf)
	if opts.TargetColor != nil {
		bg = *opts.TargetColor
	}

	SegmentBackground(buf, bg, opts.Threshold)
	SmoothAlphaEdges(buf, opts.SmoothingRadius)

	cropped, err := CropToForeground(buf)
	if err != nil {
		return nil, err
	}
	return encodeAsset(cropped)
}

// AutoCrop 只裁剪，不分割。输入必须已带透明通道。
func (p *Processor) AutoCrop(data []byte) (*Asset, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}

	cropped, err := CropToForeground(toNRGBA(img))
	if err != nil {
		return nil, err
	}
	return encodeAsset(cropped)
}

// RemoveBackgroundRemote 调用远程抠图服务，成功后同样裁剪到前景
func (p *Processor) RemoveBackgroundRemote(ctx context.Context, data []byte) (*Asset, error) {
	if p.Matter == nil {
		return nil, matting.ErrMissingAPIKey
	}

	matted, err := p.Matter.Matte(ctx, data)
	if err != nil {
		return nil, err
	}

	img, err := decode(matted)
	if err != nil {
		return nil, err
	}

	cropped, err := CropToForeground(toNRGBA(img))
	if err != nil {
		return nil, err
	}
	return encodeAsset(cropped)
}

// AdjustBrightnessContrast 调整亮度和对比度，重新编码为 PNG
func (p *Processor) AdjustBrightnessContrast(data []byte, adj Adjustment) (*Asset, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	return encodeAsset(toNRGBA(adjustBrightnessContrast(img, adj)))
}

// decode 解码并按 EXIF 方向摆正，支持 JPEG/PNG/GIF/WebP
func decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return img, nil
}
