// Package app 负责组装并运行服务: 存储、业务服务、定时任务与 HTTP 服务器.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/hydrogen/pkg/api"
	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/internal/auth"
	"github.com/yeisme/hydrogen/pkg/internal/handle"
	"github.com/yeisme/hydrogen/pkg/internal/jobs"
	"github.com/yeisme/hydrogen/pkg/internal/model"
	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/router"
	"github.com/yeisme/hydrogen/pkg/internal/service"
	"github.com/yeisme/hydrogen/pkg/internal/storage"
	"github.com/yeisme/hydrogen/pkg/internal/storage/s3"
	"github.com/yeisme/hydrogen/pkg/log"
	"github.com/yeisme/hydrogen/pkg/metrics"
	"github.com/yeisme/hydrogen/pkg/queue"
	"github.com/yeisme/hydrogen/pkg/rule"
	"github.com/yeisme/hydrogen/pkg/scheduler"
	"github.com/yeisme/hydrogen/pkg/tracing"
)

// App 运行中的服务.
type App struct {
	cfg      *configs.AppConfig
	storage  *storage.Manager
	services *service.Services
	sched    *scheduler.Scheduler
	runner   *jobs.Runner
	engine   *gin.Engine
	server   *http.Server
	tracer   tracing.ShutdownFunc
}

// New 按配置初始化全部组件，失败时释放已创建的资源.
func New(ctx context.Context, cfg *configs.AppConfig) (a *App, err error) {
	rule.Init()

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	if err := metrics.Init(cfg.Metrics); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	a = &App{cfg: cfg}

	defer func() {
		if err != nil {
			_ = a.close(context.Background())
		}
	}()

	if a.tracer, err = tracing.Init(ctx, cfg.Tracing); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	if a.storage, err = storage.New(ctx, cfg); err != nil {
		return nil, err
	}

	if err = a.storage.DB.Migrate(ctx, model.All()...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	ensureBuckets(ctx, a.storage.Media)

	repos := repository.New(a.storage.DB.GetDB())
	signer := auth.NewSigner(cfg.Auth, cfg.App.Name)

	a.services = service.New(service.Deps{
		Config: cfg,
		Repos:  repos,
		Media:  a.storage.Media,
		KV:     a.storage.KV,
		Events: queue.NewPublisher(a.storage.MQ.Publisher(), cfg.Events, cfg.App.Name),
		Signer: signer,
	})

	opts := []handle.Option{handle.WithHealth(a.storage)}

	if cfg.Jobs.Enabled {
		if a.sched, err = scheduler.NewScheduler(); err != nil {
			return nil, err
		}

		a.runner = jobs.NewRunner(repos, cfg)

		if err = jobs.Register(ctx, a.sched, a.runner, cfg.Jobs); err != nil {
			return nil, err
		}

		opts = append(opts, handle.WithJobs(a.sched))
	}

	a.engine = api.NewEngine(router.Deps{
		Config:      cfg,
		Handler:     handle.New(a.services, opts...),
		Tokens:      signer,
		Users:       repos.Users,
		Permissions: a.services.Resolver,
		KV:          a.storage.KV,
	})

	a.server = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           a.engine,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}

	return a, nil
}

// ensureBuckets 启动时创建缺失的桶，失败只记录日志，上传时会再次尝试.
func ensureBuckets(ctx context.Context, media *s3.Media) {
	for _, kind := range []s3.Kind{s3.KindVideo, s3.KindThumbnail, s3.KindSong, s3.KindCoverImage} {
		if err := media.EnsureBucket(ctx, kind); err != nil {
			log.Logger().Warn().Err(err).Str("kind", string(kind)).Msg("ensure bucket failed")
		}
	}
}

// Engine 返回 HTTP 引擎.
func (a *App) Engine() *gin.Engine {
	return a.engine
}

// Services 返回业务服务集合.
func (a *App) Services() *service.Services {
	return a.services
}

// Run 启动 HTTP 服务与后台任务，ctx 结束（SIGINT/SIGTERM）后优雅退出.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l := log.Logger()

	if a.cfg.Metrics.Enabled && a.cfg.Metrics.Endpoint != "" {
		metrics.Serve(ctx, metrics.NewServer(a.cfg.Metrics), func(err error) {
			l.Error().Err(err).Msg("metrics server stopped")
		})
	}

	if a.runner != nil {
		if err := a.runner.WatchOrphans(ctx, a.storage.MQ); err != nil {
			l.Warn().Err(err).Msg("orphan watcher not started")
		}
	}

	if a.sched != nil {
		a.sched.Start()
	}

	errCh := make(chan error, 1)

	go func() {
		l.Info().Str("addr", a.server.Addr).Str("base_path", a.cfg.App.BasePath()).Msg("http server listening")

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	var serveErr error

	select {
	case err := <-errCh:
		if err != nil {
			serveErr = fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		l.Info().Msg("shutdown signal received")
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer done()

	return errors.Join(serveErr, a.close(shutdownCtx))
}

// close 依次停止 HTTP 服务、定时任务、追踪与存储.
func (a *App) close(ctx context.Context) error {
	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http: %w", err))
		}
	}

	if a.sched != nil {
		if err := a.sched.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop scheduler: %w", err))
		}
	}

	if a.tracer != nil {
		if err := a.tracer(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer: %w", err))
		}
	}

	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}

	if len(errs) == 0 {
		log.Logger().Info().Msg("shutdown complete")
	}

	return errors.Join(errs...)
}
