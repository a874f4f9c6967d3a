package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/chaos-io/closetcut/config"
	"github.com/chaos-io/closetcut/cutout"
	"github.com/chaos-io/closetcut/cutout/matting"
	"github.com/chaos-io/closetcut/model"
	"github.com/chaos-io/closetcut/util"
)

// ErrQueueFull 并发处理数达到上限且排队超时
var ErrQueueFull = errors.New("处理队列已满，请稍后重试")

// ProcessService 抠图处理服务，控制并发并把结果落盘
type ProcessService struct {
	processor     *cutout.Processor
	outputDir     string
	thumbnailSize int
	semaphore     chan struct{}
	queueTimeout  time.Duration
}

func NewProcessService(cfg *config.Config) (*ProcessService, error) {
	mode, err := cutout.ParseMode(cfg.Cutout.Mode)
	if err != nil {
		return nil, err
	}

	matter := matting.NewRemoteMatter(cfg.Matting.Endpoint, cfg.Matting.APIKey, cfg.Matting.Timeout)
	processor := cutout.NewProcessor(mode, matter)
	processor.MaxDimension = cfg.Cutout.MaxDimension
	processor.Defaults = cutout.Options{
		Threshold:       cfg.Cutout.Threshold,
		SmoothingRadius: cfg.Cutout.SmoothingRadius,
	}

	return &ProcessService{
		processor:     processor,
		outputDir:     cfg.Upload.OutputDir,
		thumbnailSize: cfg.Cutout.ThumbnailSize,
		semaphore:     make(chan struct{}, cfg.Cutout.MaxConcurrent),
		queueTimeout:  time.Duration(cfg.Cutout.QueueTimeout) * time.Second,
	}, nil
}

// Processor 暴露底层流水线，给 CLI 一次性模式复用
func (s *ProcessService) Processor() *cutout.Processor {
	return s.processor
}

// ProcessImage 抠图并落盘，hash 用作缓存键，mode 允许按请求覆盖配置
func (s *ProcessService) ProcessImage(ctx context.Context, data []byte, hash string, mode cutout.Mode, opts *cutout.Options) (*model.CutoutResult, error) {
	// 并发控制
	queueCtx, cancel := context.WithTimeout(ctx, s.queueTimeout)
	defer cancel()

	select {
	case s.semaphore <- struct{}{}:
		defer func() { <-s.semaphore }()
	case <-queueCtx.Done():
		return nil, ErrQueueFull
	}

	start := time.Now()

	// 共享 Matter，仅覆盖模式
	proc := *s.processor
	proc.Mode = mode

	asset, err := proc.Process(ctx, data, opts)
	if err != nil {
		return nil, err
	}

	result := &model.CutoutResult{
		Hash:      hash,
		Mode:      proc.Resolved().String(),
		Width:     asset.Width,
		Height:    asset.Height,
		Image:     asset.DisplayRef,
		Timestamp: time.Now().Unix(),
	}

	if thumb, err := asset.Thumbnail(s.thumbnailSize); err != nil {
		util.Logger.Warn("failed to build thumbnail",
			zap.String("hash", hash), zap.Error(err))
	} else {
		result.Thumbnail = thumb.DisplayRef
	}

	// 落盘失败不影响返回结果
	name := ksuid.New().String() + ".png"
	if path, err := util.SaveBytes(s.outputDir, name, asset.Data); err != nil {
		util.Logger.Warn("failed to save output file",
			zap.String("hash", hash), zap.Error(err))
	} else {
		result.SavedPath = path
	}

	util.Logger.Info("cutout finished",
		zap.String("hash", hash),
		zap.String("mode", result.Mode),
		zap.Int("width", asset.Width),
		zap.Int("height", asset.Height),
		zap.Duration("cost", time.Since(start)))

	return result, nil
}

// AdjustImage 调整亮度对比度，结果同样落盘
func (s *ProcessService) AdjustImage(ctx context.Context, data []byte, adj cutout.Adjustment) (*model.CutoutResult, error) {
	queueCtx, cancel := context.WithTimeout(ctx, s.queueTimeout)
	defer cancel()

	select {
	case s.semaphore <- struct{}{}:
		defer func() { <-s.semaphore }()
	case <-queueCtx.Done():
		return nil, ErrQueueFull
	}

	defer util.Trace("adjust image")()

	asset, err := s.processor.AdjustBrightnessContrast(data, adj)
	if err != nil {
		return nil, err
	}

	result := &model.CutoutResult{
		Hash:      util.BytesMD5(data),
		Width:     asset.Width,
		Height:    asset.Height,
		Image:     asset.DisplayRef,
		Timestamp: time.Now().Unix(),
	}

	name := ksuid.New().String() + ".png"
	if path, err := util.SaveBytes(s.outputDir, name, asset.Data); err != nil {
		util.Logger.Warn("failed to save output file", zap.Error(err))
	} else {
		result.SavedPath = path
	}

	return result, nil
}

// CacheKey 图片内容加处理参数拼出缓存键
func CacheKey(data []byte, mode string, opts *cutout.Options) string {
	key := fmt.Sprintf("%s:%s:%d:%d", util.BytesMD5(data), mode, opts.Threshold, opts.SmoothingRadius)
	if opts.TargetColor != nil {
		key += fmt.Sprintf(":%02x%02x%02x", opts.TargetColor.R, opts.TargetColor.G, opts.TargetColor.B)
	}
	return util.BytesMD5([]byte(key))
}
