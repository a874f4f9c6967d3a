package model

// CutoutResult 抠图结果
type CutoutResult struct {
	Hash      string `json:"hash"`
	Mode      string `json:"mode"` // local, api
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Image     string `json:"image"`               // 透明底 PNG 的 data URI
	Thumbnail string `json:"thumbnail,omitempty"` // 缩略图 data URI
	SavedPath string `json:"saved_path,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// CutoutResponse 抠图接口响应
type CutoutResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    *CutoutResult `json:"data,omitempty"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
