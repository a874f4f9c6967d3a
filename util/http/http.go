package http

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mocks/http.go -package=mocks . IClient
type IClient interface {
	DoHTTPRequest(ctx context.Context, requestParam *RequestParam) error
}

type RequestParam struct {
	RequestURI string
	Method     string
	Header     map[string]string
	Body       interface{} // io.Reader / []byte 直接发送，其余 JSON 序列化
	Response   interface{} // *[]byte 保留原始响应，其余 JSON 反序列化

	Timeout time.Duration
}
