package app

import (
	"amadeus_backend/internal/config"
	"amadeus_backend/internal/controller"
	"amadeus_backend/internal/repository"
	"amadeus_backend/internal/service"
	"amadeus_backend/pkg/configwatcher"
	"amadeus_backend/pkg/database"
	"amadeus_backend/pkg/logger"
	"amadeus_backend/pkg/monitoring"
	"amadeus_backend/pkg/security"
	"amadeus_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configDir = "configs"

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	origins  *security.OriginList
	tracer   *sdktrace.TracerProvider
	cancel   context.CancelFunc
	watchers sync.WaitGroup

	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	question    *repository.QuestionRepository
	questionary *repository.QuestionaryRepository
	log         *repository.LogRepository
	mural       *repository.MuralRepository
	chat        *repository.ChatRepository
	report      *repository.ReportRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	permission  *service.PermissionService
	log         *service.LogService
	questionary *service.QuestionaryService
	report      *service.ReportService
}

type controllers struct {
	auth        *controller.AuthController
	questionary *controller.QuestionaryController
	report      *controller.ReportController
	log         *controller.LogController
	health      *controller.HealthController
}

// RegisterConfigCallback 配置文件变更后依次回调
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) reloadConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()
	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		question:    repository.NewQuestionRepository(db),
		questionary: repository.NewQuestionaryRepository(db),
		log:         repository.NewLogRepository(db),
		mural:       repository.NewMuralRepository(db),
		chat:        repository.NewChatRepository(db),
		report:      repository.NewReportRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.permission = service.NewPermissionService()
	s.log = service.NewLogService(repos.log)

	s.questionary = service.NewQuestionaryService(
		repos.questionary,
		repos.question,
		repos.course,
		repos.user,
		repos.chat,
		repos.log,
		s.log,
		s.permission,
		rdb,
		cfg,
	)

	s.report = service.NewReportService(
		repos.course,
		repos.mural,
		repos.chat,
		repos.log,
		repos.report,
		s.storage,
		s.permission,
		rdb,
		cfg,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	homeURL := a.Config.Server.HomeURL
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		questionary: controller.NewQuestionaryController(s.questionary, s.auth, homeURL),
		report:      controller.NewReportController(s.report, s.auth, homeURL),
		log:         controller.NewLogController(s.log),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(a.origins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// watchConfig CORS 白名单与日志级别支持热更新，其余配置需重启生效
func (a *App) watchConfig(ctx context.Context) {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		a.origins.Set(cfg.CORS.AllowedOrigins)
		logger.SetMode(cfg.Server.Mode)
	})

	a.watchers.Add(1)
	go func() {
		defer a.watchers.Done()
		file := filepath.Join(configDir, "config.yaml")
		if err := configwatcher.WatchConfig(ctx, file, a.reloadConfig); err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.ForceMigrate || cfg.Server.Mode != "release"
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	if err := controller.RegisterValidators(); err != nil {
		logger.Log.Fatal("Failed to register validators", zap.Error(err))
	}

	app := &App{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		origins: security.NewOriginList(cfg.CORS.AllowedOrigins),
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("amadeus-lms", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	app.watchConfig(ctx)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	a.cancel()
	a.watchers.Wait()

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	log.Println("Server exiting")
}
