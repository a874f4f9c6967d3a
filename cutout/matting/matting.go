// Package matting 对接远程抠图服务，本地分割不理想时作为兜底
package matting

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingAPIKey API key 未配置，发现时直接返回，不发起网络请求
var ErrMissingAPIKey = errors.New("matting: api key is not configured")

// Matter 抠图服务抽象，输入原始图片字节，返回透明底 PNG 字节
type Matter interface {
	Matte(ctx context.Context, data []byte) ([]byte, error)
	Configured() bool
}

// RemoteError 远程服务调用失败，Timeout 为 true 时 StatusCode 无意义
type RemoteError struct {
	StatusCode int
	Message    string
	Timeout    bool
}

func (e *RemoteError) Error() string {
	if e.Timeout {
		return "matting: remote service timeout"
	}
	return fmt.Sprintf("matting: remote service status %d: %s", e.StatusCode, e.Message)
}
