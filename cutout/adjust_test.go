package cutout

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampPercent(t *testing.T) {
	assert.Equal(t, float64(100), clampPercent(127))
	assert.Equal(t, float64(-100), clampPercent(-128))
	assert.Equal(t, float64(42), clampPercent(42))
	assert.Equal(t, float64(0), clampPercent(0))
}

func TestProcessor_AdjustBrightnessContrast(t *testing.T) {
	p := NewProcessor(ModeLocal, nil)
	gray := newTestImage(4, 4, color.NRGBA{R: 100, G: 100, B: 100, A: 255})

	t.Run("亮度拉满变纯白", func(t *testing.T) {
		asset, err := p.AdjustBrightnessContrast(pngBytes(t, gray), Adjustment{Brightness: 100})
		require.NoError(t, err)

		out := decodePNG(t, asset.Data)
		assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(1, 1))
	})

	t.Run("亮度降满变纯黑", func(t *testing.T) {
		asset, err := p.AdjustBrightnessContrast(pngBytes(t, gray), Adjustment{Brightness: -100})
		require.NoError(t, err)

		out := decodePNG(t, asset.Data)
		assert.Equal(t, color.NRGBA{A: 255}, out.NRGBAAt(1, 1))
	})

	t.Run("超出范围的参数截断到正负100", func(t *testing.T) {
		asset, err := p.AdjustBrightnessContrast(pngBytes(t, gray), Adjustment{Brightness: 3000})
		require.NoError(t, err)

		out := decodePNG(t, asset.Data)
		assert.Equal(t, uint8(255), out.NRGBAAt(0, 0).R)
	})

	t.Run("零调整原图不变", func(t *testing.T) {
		src := newTestImage(3, 3, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		src.SetNRGBA(1, 1, color.NRGBA{R: 200, G: 150, B: 100, A: 255})

		asset, err := p.AdjustBrightnessContrast(pngBytes(t, src), Adjustment{})
		require.NoError(t, err)

		out := decodePNG(t, asset.Data)
		assert.Equal(t, src.Pix, out.Pix)
	})

	t.Run("对比度增强拉开明暗", func(t *testing.T) {
		src := newTestImage(2, 1, color.NRGBA{R: 50, G: 50, B: 50, A: 255})
		src.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 200, B: 200, A: 255})

		asset, err := p.AdjustBrightnessContrast(pngBytes(t, src), Adjustment{Contrast: 50})
		require.NoError(t, err)

		out := decodePNG(t, asset.Data)
		assert.Less(t, out.NRGBAAt(0, 0).R, uint8(50))
		assert.Greater(t, out.NRGBAAt(1, 0).R, uint8(200))
	})

	t.Run("对比度降满时明暗收敛", func(t *testing.T) {
		src := newTestImage(2, 1, color.NRGBA{R: 50, G: 50, B: 50, A: 255})
		src.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 200, B: 200, A: 255})

		asset, err := p.AdjustBrightnessContrast(pngBytes(t, src), Adjustment{Contrast: -100})
		require.NoError(t, err)

		out := decodePNG(t, asset.Data)
		dark := out.NRGBAAt(0, 0).R
		light := out.NRGBAAt(1, 0).R
		assert.Equal(t, dark, light)
		assert.InDelta(t, 128, float64(dark), 1)
	})

	t.Run("alpha通道不受影响", func(t *testing.T) {
		src := newTestImage(3, 3, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
		setAlpha(src, 1, 1, 120)
		setAlpha(src, 2, 2, 0)

		asset, err := p.AdjustBrightnessContrast(pngBytes(t, src), Adjustment{Brightness: 30, Contrast: 30})
		require.NoError(t, err)

		out := decodePNG(t, asset.Data)
		assert.Equal(t, uint8(120), out.NRGBAAt(1, 1).A)
		assert.Equal(t, uint8(0), out.NRGBAAt(2, 2).A)
	})
}
