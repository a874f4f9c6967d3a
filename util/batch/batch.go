package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chaos-io/closetcut/cutout"
)

// 批量抠图小工具：扫描目录里的图片，逐张走本地管线，失败跳过继续
func main() {
	dir := flag.String("dir", "./images", "待处理图片目录")
	out := flag.String("out", "./output", "输出目录")
	mode := flag.String("mode", "local", "处理模式 auto|local|api")
	threshold := flag.Uint("threshold", uint(cutout.DefaultThreshold), "背景判定阈值 [0, 255]")
	flag.Parse()

	m, err := cutout.ParseMode(*mode)
	if err != nil {
		panic(err)
	}

	proc := cutout.NewProcessor(m, nil)
	proc.Defaults.Threshold = uint16(*threshold)

	if err := os.MkdirAll(*out, 0755); err != nil {
		panic(err)
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		panic(err)
	}

	var done, failed int
	for _, entry := range entries {
		if entry.IsDir() || !isImageFile(entry.Name()) {
			continue
		}

		src := filepath.Join(*dir, entry.Name())
		fmt.Println("处理:", src)

		if err := processOne(proc, src, *out); err != nil {
			fmt.Println("失败:", src, err)
			failed++
			continue
		}
		done++
	}

	fmt.Printf("完成 %d 张，失败 %d 张\n", done, failed)
}

func processOne(proc *cutout.Processor, src, outDir string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	asset, err := proc.Process(context.Background(), data, nil)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ".png"
	return os.WriteFile(filepath.Join(outDir, name), asset.Data, 0644)
}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}
