package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/montage/binding"
	"github.com/ByLCY/montage/config"
	"github.com/ByLCY/montage/layout"
	canvasrenderer "github.com/ByLCY/montage/renderer/canvas"
	"github.com/ByLCY/montage/script"
)

// varFlags 收集可重复的 -var name=value 参数。
type varFlags []string

func (v *varFlags) String() string     { return strings.Join(*v, ",") }
func (v *varFlags) Set(s string) error { *v = append(*v, s); return nil }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("读取配置失败: %v", err)
	}

	var vars varFlags
	input := flag.String("in", "examples/demo.txt", "脚本文件路径")
	fontDir := flag.String("fonts", cfg.FontDir, "字体目录（递归查找 <name>.ttf/.otf）")
	check := flag.Bool("check", false, "只检查脚本语法，不渲染")
	debug := flag.String("debug", "", "布局状态调试 JSON 输出路径")
	verbose := flag.Bool("v", false, "输出每条指令的执行日志")
	flag.Var(&vars, "var", "脚本变量 name=value，可重复")
	flag.Parse()

	if *check {
		if err := checkScript(*input); err != nil {
			log.Fatalf("脚本检查失败: %v", err)
		}
		fmt.Printf("脚本检查通过：%s\n", *input)
		return
	}

	variables := binding.New()
	if err := variables.ParseAssignments(vars); err != nil {
		log.Fatalf("解析变量失败: %v", err)
	}

	var logger *slog.Logger
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	res, err := run(*input, *fontDir, variables, cfg, logger)
	if err != nil {
		log.Fatalf("执行脚本失败: %v", err)
	}
	if *debug != "" {
		if err := writeDebug(res.State, *debug); err != nil {
			log.Fatalf("%v", err)
		}
	}
	if res.Output == "" {
		fmt.Printf("脚本已执行 %d 条指令，未包含 output 指令\n", res.Commands)
		return
	}
	fmt.Printf("已生成图片：%s\n", outputPath(*input, res.Output))
}

// run 打开脚本并以脚本所在目录为根目录执行。
func run(inputPath, fontDir string, vars binding.Variables, cfg *config.Config, logger *slog.Logger) (*script.Result, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("无法打开脚本文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	return script.Run(context.Background(), file, script.Options{
		BaseDir:     filepath.Dir(inputPath),
		FontDir:     fontDir,
		Renderer:    canvasrenderer.NewRenderer(),
		Variables:   vars,
		Width:       cfg.Width,
		Height:      cfg.Height,
		DPI:         cfg.DPI,
		JPEGQuality: &cfg.JPEGQuality,
		MaxPixels:   cfg.MaxPixels,
		Logger:      logger,
	})
}

// outputPath 返回 output 指令实际写入的路径：相对路径以脚本所在目录为根。
func outputPath(inputPath, output string) string {
	if filepath.IsAbs(output) {
		return output
	}
	return filepath.Join(filepath.Dir(inputPath), output)
}

func checkScript(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开脚本文件 %s: %w", inputPath, err)
	}
	defer file.Close()
	return script.Check(file)
}

func writeDebug(state *layout.State, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(state, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
