package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/chaos-io/closetcut/config"
	"github.com/chaos-io/closetcut/model"
	"github.com/chaos-io/closetcut/util"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(cfg *config.RedisConfig) *CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &CacheService{
		client: client,
		ttl:    cfg.TTL,
	}
}

func (s *CacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// GetCutoutResult 从缓存获取抠图结果，未命中返回 (nil, nil)
func (s *CacheService) GetCutoutResult(ctx context.Context, hash string) (*model.CutoutResult, error) {
	key := "cutout:" + hash
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // 缓存未命中
		}
		return nil, err
	}

	var result model.CutoutResult
	if err := json.Unmarshal(data, &result); err != nil {
		util.Logger.Error("failed to unmarshal cutout result",
			zap.String("hash", hash), zap.Error(err))
		return nil, err
	}

	return &result, nil
}

// SetCutoutResult 写入抠图结果到缓存
func (s *CacheService) SetCutoutResult(ctx context.Context, hash string, result *model.CutoutResult) error {
	key := "cutout:" + hash
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}
