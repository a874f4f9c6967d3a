package handler

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chaos-io/closetcut/config"
	"github.com/chaos-io/closetcut/cutout"
	"github.com/chaos-io/closetcut/cutout/matting"
	"github.com/chaos-io/closetcut/model"
	"github.com/chaos-io/closetcut/service"
	"github.com/chaos-io/closetcut/util"
)

type CutoutHandler struct {
	cfg            *config.Config
	cacheService   *service.CacheService
	processService *service.ProcessService
}

func NewCutoutHandler(cfg *config.Config, cache *service.CacheService, process *service.ProcessService) *CutoutHandler {
	return &CutoutHandler{
		cfg:            cfg,
		cacheService:   cache,
		processService: process,
	}
}

// Cutout 处理图片上传并抠图
func (h *CutoutHandler) Cutout(c *gin.Context) {
	data, ok := h.readUpload(c)
	if !ok {
		return
	}

	// 模式：未指定时沿用配置
	mode := h.processService.Processor().Mode
	if modeStr := c.PostForm("mode"); modeStr != "" {
		m, err := cutout.ParseMode(modeStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Success: false,
				Message: "不支持的处理模式",
				Error:   err.Error(),
			})
			return
		}
		mode = m
	}

	opts := h.processService.Processor().Defaults
	if s := c.PostForm("threshold"); s != "" {
		v, err := strconv.ParseUint(s, 10, 16)
		if err != nil || v > 255 {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Success: false,
				Message: "threshold 参数非法，取值范围 [0, 255]",
			})
			return
		}
		opts.Threshold = uint16(v)
	}
	if s := c.PostForm("smoothing_radius"); s != "" {
		v, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Success: false,
				Message: "smoothing_radius 参数非法",
			})
			return
		}
		opts.SmoothingRadius = uint16(v)
	}
	if s := c.PostForm("target_color"); s != "" {
		tc, err := parseHexColor(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Success: false,
				Message: "target_color 参数非法，格式为 RRGGBB",
				Error:   err.Error(),
			})
			return
		}
		opts.TargetColor = tc
	}

	hash := service.CacheKey(data, mode.String(), &opts)

	util.Logger.Info("cutout request accepted",
		zap.String("hash", hash),
		zap.String("mode", mode.String()),
		zap.Int("size", len(data)))

	// 检查缓存
	ctx := context.Background()
	if h.cacheService != nil {
		cached, err := h.cacheService.GetCutoutResult(ctx, hash)
		if err != nil {
			util.Logger.Warn("failed to get cache", zap.Error(err))
		}
		if cached != nil {
			util.Logger.Info("cache hit", zap.String("hash", hash))
			c.JSON(http.StatusOK, model.CutoutResponse{
				Success: true,
				Message: "处理成功（来自缓存）",
				Data:    cached,
			})
			return
		}
	}

	result, err := h.processService.ProcessImage(ctx, data, hash, mode, &opts)
	if err != nil {
		h.writeProcessError(c, err)
		return
	}

	// 保存到缓存
	if h.cacheService != nil {
		if err := h.cacheService.SetCutoutResult(ctx, hash, result); err != nil {
			util.Logger.Warn("failed to set cache", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, model.CutoutResponse{
		Success: true,
		Message: "处理成功",
		Data:    result,
	})
}

// GetByHash 根据缓存键查询抠图结果
func (h *CutoutHandler) GetByHash(c *gin.Context) {
	hash := c.Param("hash")
	if hash == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "hash参数缺失",
		})
		return
	}

	if h.cacheService == nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Success: false,
			Message: "缓存服务不可用",
		})
		return
	}

	result, err := h.cacheService.GetCutoutResult(context.Background(), hash)
	if err != nil {
		util.Logger.Error("failed to get cutout result", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "查询失败",
			Error:   err.Error(),
		})
		return
	}

	if result == nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Success: false,
			Message: "未找到该图片的抠图结果",
		})
		return
	}

	c.JSON(http.StatusOK, model.CutoutResponse{
		Success: true,
		Message: "查询成功",
		Data:    result,
	})
}

// Adjust 调整亮度对比度
func (h *CutoutHandler) Adjust(c *gin.Context) {
	data, ok := h.readUpload(c)
	if !ok {
		return
	}

	brightness, err := strconv.ParseInt(c.DefaultPostForm("brightness", "0"), 10, 16)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "brightness 参数非法",
		})
		return
	}
	contrast, err := strconv.ParseInt(c.DefaultPostForm("contrast", "0"), 10, 16)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "contrast 参数非法",
		})
		return
	}
	adj := cutout.Adjustment{Brightness: int16(brightness), Contrast: int16(contrast)}

	result, err := h.processService.AdjustImage(context.Background(), data, adj)
	if err != nil {
		h.writeProcessError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.CutoutResponse{
		Success: true,
		Message: "处理成功",
		Data:    result,
	})
}

// readUpload 读取并校验 multipart 上传的图片，失败时已写好响应
func (h *CutoutHandler) readUpload(c *gin.Context) ([]byte, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		util.Logger.Error("failed to get uploaded file", zap.Error(err))
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "请上传图片文件",
			Error:   err.Error(),
		})
		return nil, false
	}

	// 验证文件大小
	if file.Size > h.cfg.Upload.MaxSize {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("文件大小超过限制 (%d MB)", h.cfg.Upload.MaxSize/(1024*1024)),
		})
		return nil, false
	}

	// 验证文件类型
	contentType := file.Header.Get("Content-Type")
	if !h.isAllowedType(contentType) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "不支持的文件类型，仅支持 JPEG/PNG/WebP",
		})
		return nil, false
	}

	data, err := readAll(file)
	if err != nil {
		util.Logger.Error("failed to read uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "读取上传文件失败",
			Error:   err.Error(),
		})
		return nil, false
	}
	return data, true
}

func (h *CutoutHandler) writeProcessError(c *gin.Context, err error) {
	util.Logger.Error("failed to process image", zap.Error(err))

	var decodeErr *cutout.DecodeError
	var remoteErr *matting.RemoteError
	switch {
	case errors.Is(err, service.ErrQueueFull):
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Success: false,
			Message: "处理队列已满，请稍后重试",
		})
	case errors.Is(err, cutout.ErrEmptyForeground):
		c.JSON(http.StatusUnprocessableEntity, model.ErrorResponse{
			Success: false,
			Message: "未检测到前景区域",
			Error:   err.Error(),
		})
	case errors.Is(err, matting.ErrMissingAPIKey):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "未配置远程抠图服务的API key",
			Error:   err.Error(),
		})
	case errors.As(err, &decodeErr):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "图片解码失败",
			Error:   err.Error(),
		})
	case errors.As(err, &remoteErr):
		c.JSON(http.StatusBadGateway, model.ErrorResponse{
			Success: false,
			Message: "远程抠图服务调用失败",
			Error:   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "图片处理失败",
			Error:   err.Error(),
		})
	}
}

func (h *CutoutHandler) isAllowedType(contentType string) bool {
	for _, allowed := range h.cfg.Upload.AllowedTypes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}

func readAll(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(f)
}

func parseHexColor(s string) (*color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return nil, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q", s)
	}
	return &color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
