package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ixugo/goddd/pkg/system"
	"github.com/rainlabel/rainlabel/internal/app"
	"github.com/rainlabel/rainlabel/internal/conf"
)

// buildVersion 编译时通过 -ldflags 注入
var buildVersion = "dev"

func main() {
	var confPath string
	flag.StringVar(&confPath, "conf", filepath.Join(system.Getwd(), "configs", "config.toml"), "配置文件路径")
	flag.Parse()

	bc, err := conf.SetupConfig(confPath)
	if err != nil {
		slog.Error("读取配置失败", "path", confPath, "err", err)
		os.Exit(1)
	}
	bc.BuildVersion = buildVersion

	level := slog.LevelInfo
	if bc.Server.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if err := app.Run(bc, log); err != nil {
		log.Error("服务退出", "err", err)
		os.Exit(1)
	}
}
