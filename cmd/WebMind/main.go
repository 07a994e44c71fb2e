package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	https_server "WebMind/api/http"
	"WebMind/internal/config"
	"WebMind/pkg/redis"
	"WebMind/pkg/zlog"
)

func main() {
	// 1. 加载配置与日志
	conf := config.GetConfig()
	zlog.Init(conf.LogConfig.LogPath)
	defer zlog.Sync()

	host := conf.MainConfig.Host
	port := conf.MainConfig.Port

	workerCtx, stopWorker := context.WithCancel(context.Background())

	// 2. 启动摄取任务消费者
	go func() {
		if https_server.IngestWorker == nil {
			return
		}
		if err := https_server.IngestWorker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			zlog.Fatal("摄取消费者退出: " + err.Error())
		}
	}()

	// 3. 启动 HTTP 服务
	go func() {
		addr := fmt.Sprintf("%s:%d", host, port)
		zlog.Info(fmt.Sprintf("服务器正在启动，监听地址: %s", addr))
		// 目前使用 HTTP 启动。如果需要 HTTPS，请配置证书并使用 GE.RunTLS
		if err := https_server.GE.Run(addr); err != nil {
			zlog.Fatal("服务器启动失败: " + err.Error())
			return
		}
	}()

	// 4. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// 等待退出信号
	<-quit

	zlog.Info("正在关闭服务器...")
	stopWorker()
	_ = redis.Close()

	zlog.Info("服务器已关闭")
}
