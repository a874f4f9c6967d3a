package matting

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"time"

	nhttp "github.com/chaos-io/closetcut/util/http"
)

const (
	// DefaultEndpoint 默认的远程抠图服务地址
	DefaultEndpoint = "https://api.remove.bg/v1.0/removebg"

	defaultMatteTimeout = 60 * time.Second
)

// RemoteMatter 通过 HTTP 上传图片到远程抠图服务
type RemoteMatter struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	cli      nhttp.IClient
}

func NewRemoteMatter(endpoint, apiKey string, timeout time.Duration) *RemoteMatter {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = defaultMatteTimeout
	}
	return &RemoteMatter{
		endpoint: endpoint,
		apiKey:   apiKey,
		timeout:  timeout,
		cli:      nhttp.NewHTTPClient(),
	}
}

// Configured 是否已配置 API key
func (m *RemoteMatter) Configured() bool {
	return m.apiKey != ""
}

// Matte 上传图片抠图，失败不重试
/*
curl -X POST https://api.remove.bg/v1.0/removebg \
  -H 'X-Api-Key: YOUR_API_KEY' \
  -F 'image_file=@clothing.jpg' \
  -F 'format=png' \
  -o no-bg.png
*/
func (m *RemoteMatter) Matte(ctx context.Context, data []byte) ([]byte, error) {
	if m.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image_file", "image.png")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err = part.Write(data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err = writer.WriteField("format", "png"); err != nil {
		return nil, fmt.Errorf("write form field: %w", err)
	}
	if err = writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	var result []byte
	param := &nhttp.RequestParam{
		RequestURI: m.endpoint,
		Method:     http.MethodPost,
		Header: map[string]string{
			"Content-Type": writer.FormDataContentType(),
			"X-Api-Key":    m.apiKey,
		},
		Body:     body,
		Response: &result,
		Timeout:  m.timeout,
	}

	if err := m.cli.DoHTTPRequest(ctx, param); err != nil {
		var statusErr *nhttp.StatusError
		if errors.As(err, &statusErr) {
			return nil, &RemoteError{StatusCode: statusErr.StatusCode, Message: statusErr.Body}
		}
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, &RemoteError{Timeout: true}
		}
		return nil, fmt.Errorf("do request: %w", err)
	}

	slog.Debug("remote matting done", "requestBytes", len(data), "responseBytes", len(result))
	return result, nil
}
