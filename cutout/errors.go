package cutout

import (
	"errors"
	"fmt"
)

// ErrEmptyForeground 分割后整张图片全透明，无法裁剪
var ErrEmptyForeground = errors.New("cutout: 未检测到前景区域")

// DecodeError 图片数据无法解码
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cutout: decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ProcessingError 流水线某个阶段失败，Stage 标记出错的阶段
type ProcessingError struct {
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("cutout: %s: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
