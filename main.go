package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecell/bootstrap"
	btsConfig "ecell/config"
	"ecell/pkg/auth"
	"ecell/pkg/config"
	"ecell/pkg/logger"
	"ecell/pkg/queue"
	"ecell/pkg/redis"
	"ecell/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 加载应用程序的基础配置
func init() {
	// 加载 config 目录下的配置信息
	btsConfig.Initialize()
}

// 应用程序上下文，用于优雅关闭
type App struct {
	server *http.Server
	worker *queue.Worker
}

// flags 命令行参数
type flags struct {
	env        string
	issueToken string
	tokenTTL   time.Duration
}

func main() {
	// 解析命令行参数
	f := parseFlags()

	// 先初始化配置
	config.InitConfig(f.env)

	// 签发管理端令牌后退出
	if f.issueToken != "" {
		token, err := auth.IssueAdminToken(btsConfig.LoadAdminConfig().JWTSecret, f.issueToken, f.tokenTTL)
		if err != nil {
			log.Fatalf("issue admin token: %v", err)
		}
		fmt.Println(token)
		return
	}

	// 初始化应用
	app, err := setupApplication()
	if err != nil {
		log.Fatalf("初始化应用程序失败: %v", err)
	}

	// 启动服务器（包含优雅关闭）
	app.start()
}

// parseFlags 解析命令行参数
func parseFlags() flags {
	var f flags
	flag.StringVar(&f.env, "env", "", "加载 .env 文件，例如 --env=testing 将加载 .env.testing 文件")
	flag.StringVar(&f.issueToken, "issue-admin-token", "", "为指定管理员邮箱签发核验付款用的 JWT 并退出")
	flag.DurationVar(&f.tokenTTL, "token-ttl", 30*24*time.Hour, "管理端令牌有效期，0 表示不过期")
	flag.Parse()
	return f
}

// setupApplication 初始化应用程序所需的各种组件
func setupApplication() (*App, error) {
	// 初始化日志
	bootstrap.SetupLogger()

	// 初始化数据库
	if err := bootstrap.SetupDB(); err != nil {
		return nil, err
	}

	// 初始化 Redis
	if err := bootstrap.SetupRedis(); err != nil {
		return nil, err
	}

	// 初始化邮件发送（队列或直接发送）
	mailer, err := bootstrap.SetupMailer()
	if err != nil {
		return nil, err
	}

	deps, err := bootstrap.SetupServices(mailer)
	if err != nil {
		return nil, err
	}

	return &App{
		server: &http.Server{
			Addr:              ":" + config.Get("app.port"),
			Handler:           setupServer(deps),
			ReadHeaderTimeout: 10 * time.Second,
		},
		worker: mailer.Worker,
	}, nil
}

// setupServer 配置并返回 Gin 服务器实例
func setupServer(deps routes.Dependencies) *gin.Engine {
	if !config.GetBool("app.debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	bootstrap.SetupRoute(router, deps)
	return router
}

// start 启动服务器并处理优雅关闭
func (a *App) start() {
	// 创建系统信号监听器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.InfoString("Server", "Start", "listening on "+a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server", zap.Error(err))
		}
	}()

	// 等待中断信号
	<-quit
	logger.InfoString("Server", "Shutdown", "shutting down server...")

	// 创建一个带超时的上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭服务器
	if err := a.server.Shutdown(ctx); err != nil {
		logger.Error("Server", zap.Error(err))
	}

	// 停止邮件工作器
	if a.worker != nil {
		a.worker.Stop()
	}
	if redis.Manager != nil {
		redis.Manager.Close()
	}

	_ = logger.Logger.Sync()
	logger.InfoString("Server", "Shutdown", "server exited")
}
