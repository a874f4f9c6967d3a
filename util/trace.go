package util

import (
	"time"

	"go.uber.org/zap"
)

// Trace 计时辅助，用法：defer util.Trace("process image")()
func Trace(msg string) func() {
	start := time.Now()
	return func() {
		Logger.Info("trace", zap.String("msg", msg), zap.Duration("cost", time.Since(start)))
	}
}
