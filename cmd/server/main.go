// ZhiboPai 直播排班引擎服务
// 主程序入口

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zhibopai/zhibopai/internal/config"
	"github.com/zhibopai/zhibopai/internal/database"
	"github.com/zhibopai/zhibopai/internal/handler"
	"github.com/zhibopai/zhibopai/internal/metrics"
	"github.com/zhibopai/zhibopai/internal/middleware"
	"github.com/zhibopai/zhibopai/internal/repository"
	"github.com/zhibopai/zhibopai/internal/security"
	"github.com/zhibopai/zhibopai/pkg/logger"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	format := "json"
	if cfg.IsDevelopment() {
		format = "console"
	}
	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: format,
	})

	fmt.Printf("ZhiboPai 直播排班引擎 v%s\n", Version)
	fmt.Printf("Build: %s (%s)\n", BuildTime, GitCommit)
	fmt.Println()

	// 数据库不可用时降级为纯引擎模式，仅支持请求体内联数据
	var staffRepo *repository.StaffRepository
	var shiftRepo *repository.ShiftRepository
	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Warn().Err(err).Msg("数据库连接失败，以纯引擎模式运行")
	} else {
		defer db.Close()
		staffRepo = repository.NewStaffRepository(db)
		shiftRepo = repository.NewShiftRepository(db)
		go reportDBStats(db)
	}

	keyManager := security.NewAPIKeyManager()
	authEnabled := cfg.API.AdminKey != ""
	if authEnabled {
		keyManager.Register(cfg.API.AdminKey, "admin", []string{"*"})
	} else {
		logger.Warn().Msg("未配置 API_ADMIN_KEY，API认证已关闭")
	}
	rateLimiter := security.NewRateLimiter(cfg.API.RateLimit, time.Minute)

	rosterHandler := handler.NewRosterHandler(cfg, staffRepo, shiftRepo)
	staffHandler := handler.NewStaffHandler(staffRepo)
	shiftHandler := handler.NewShiftHandler(shiftRepo, cfg.Roster.DefaultRole)

	mux := http.NewServeMux()

	// 系统端点
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Health(ctx); err != nil {
				status = "degraded"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"%s","service":"zhibopai"}`, status)
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","build_time":"%s","git_commit":"%s"}`, Version, BuildTime, GitCommit)
	})

	// API 根路由
	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"message": "ZhiboPai 直播排班引擎 API v1",
			"endpoints": {
				"roster": {
					"solve": "POST /api/v1/roster/solve",
					"validate": "POST /api/v1/roster/validate"
				},
				"staff": {
					"list": "GET /api/v1/staff",
					"create": "POST /api/v1/staff",
					"item": "GET|PUT|DELETE /api/v1/staff/{id}"
				},
				"shifts": {
					"list": "GET /api/v1/shifts",
					"generate": "POST /api/v1/shifts/generate",
					"clear": "DELETE /api/v1/shifts"
				},
				"stats": {
					"fairness": "POST /api/v1/stats/fairness",
					"coverage": "POST /api/v1/stats/coverage",
					"workload": "POST /api/v1/stats/workload"
				}
			}
		}`))
	})

	// 排班 API
	mux.HandleFunc("/api/v1/roster/solve", rosterHandler.Solve)
	mux.HandleFunc("/api/v1/roster/validate", rosterHandler.Validate)

	// 员工 API
	mux.HandleFunc("/api/v1/staff", staffHandler.Collection)
	mux.HandleFunc("/api/v1/staff/", staffHandler.Item)

	// 班次 API
	mux.HandleFunc("/api/v1/shifts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			shiftHandler.Clear(w, r)
			return
		}
		shiftHandler.List(w, r)
	})
	mux.HandleFunc("/api/v1/shifts/generate", shiftHandler.Generate)

	// 统计分析 API
	mux.HandleFunc("/api/v1/stats/fairness", handler.GetFairnessHandler)
	mux.HandleFunc("/api/v1/stats/coverage", handler.GetCoverageHandler)
	mux.HandleFunc("/api/v1/stats/workload", handler.GetWorkloadHandler)

	// Prometheus 指标端点
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	// 中间件链：外层先执行
	var root http.Handler = mux
	root = middleware.Logging(root)
	if cfg.API.CORS.Enabled {
		root = middleware.CORS(cfg.API.CORS.Origins)(root)
	}
	if authEnabled {
		root = middleware.Auth(&middleware.AuthConfig{
			APIKeyManager:   keyManager,
			RateLimiter:     rateLimiter,
			SkipPaths:       []string{"/health", "/version", cfg.Metrics.Path},
			EnableRateLimit: true,
		})(root)
	}
	root = middleware.SecurityHeaders(root)
	root = middleware.RequestID(root)
	root = middleware.Recovery(root)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      root,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().
			Int("port", cfg.App.Port).
			Str("env", cfg.App.Env).
			Str("version", Version).
			Bool("database", db != nil).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("服务器启动失败")
			os.Exit(1)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
		os.Exit(1)
	}

	logger.Info().Msg("服务器已关闭")
}

// reportDBStats 定期上报数据库连接池指标
func reportDBStats(db *database.DB) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	reg := metrics.GetRegistry()
	for range ticker.C {
		stats := db.Stats()
		if gauge := reg.GetGauge("zhibopai_db_connections"); gauge != nil {
			gauge.Set(float64(stats.InUse), "in_use")
			gauge.Set(float64(stats.Idle), "idle")
			gauge.Set(float64(stats.OpenConnections), "open")
		}
	}
}
