package service

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/chaos-io/closetcut/util"
)

// CleanupService 定时清理过期的输出文件
type CleanupService struct {
	dir       string
	retainFor time.Duration
	cron      *cron.Cron
}

func NewCleanupService(dir string, retainFor time.Duration) *CleanupService {
	return &CleanupService{
		dir:       dir,
		retainFor: retainFor,
		cron:      cron.New(),
	}
}

// Start 注册每小时一次的清理任务
func (s *CleanupService) Start() error {
	if _, err := s.cron.AddFunc("@hourly", func() { s.Sweep() }); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *CleanupService) Stop() {
	s.cron.Stop()
}

// Sweep 删除修改时间早于保留期的 PNG 文件，返回删除数量
func (s *CleanupService) Sweep() int {
	cutoff := time.Now().Add(-s.retainFor)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			util.Logger.Warn("failed to read output dir",
				zap.String("dir", s.dir), zap.Error(err))
		}
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".png" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			util.Logger.Warn("failed to remove expired file",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		util.Logger.Info("expired output files removed",
			zap.String("dir", s.dir), zap.Int("count", removed))
	}
	return removed
}
