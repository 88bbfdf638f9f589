// Точка входа Film Module — сервис запросов и рейтингов фильмов Filmorate.
// Загружает конфигурацию, выбирает хранилище (PostgreSQL или in-memory),
// применяет миграции, создаёт сервисный слой и API handlers,
// запускает topologymetrics и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/filmorate/film-module/internal/api/handlers"
	"github.com/bigkaa/filmorate/film-module/internal/api/middleware"
	"github.com/bigkaa/filmorate/film-module/internal/config"
	"github.com/bigkaa/filmorate/film-module/internal/database"
	"github.com/bigkaa/filmorate/film-module/internal/repository"
	"github.com/bigkaa/filmorate/film-module/internal/repository/memory"
	"github.com/bigkaa/filmorate/film-module/internal/server"
	"github.com/bigkaa/filmorate/film-module/internal/service"
)

// repositories — набор репозиториев выбранного хранилища.
type repositories struct {
	films     repository.FilmRepository
	users     repository.UserRepository
	lookups   repository.LookupRepository
	directors repository.DirectorRepository
	feed      repository.FeedRepository
	checker   handlers.ReadinessChecker
}

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Film Module запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("storage", cfg.Storage),
	)

	ctx := context.Background()

	// 3. Хранилище
	var (
		repos        repositories
		dephealthSvc *service.DephealthService
	)

	switch cfg.Storage {
	case config.StorageMemory:
		logger.Warn("Используется in-memory хранилище, данные не переживут рестарт")
		store := memory.New()
		repos = repositories{
			films:     store.Films(),
			users:     store.Users(),
			lookups:   store.Lookups(),
			directors: store.Directors(),
			feed:      store.Feed(),
			checker:   store,
		}

	default:
		// 3.1 Применение миграций БД
		logger.Info("Применение миграций БД...")
		if err := database.Migrate(cfg, logger); err != nil {
			logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
			os.Exit(1)
		}

		// 3.2 Подключение к PostgreSQL (pgxpool)
		pool, err := database.Connect(ctx, cfg, logger)
		if err != nil {
			logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		repos = repositories{
			films:     repository.NewFilmRepository(pool),
			users:     repository.NewUserRepository(pool),
			lookups:   repository.NewLookupRepository(pool),
			directors: repository.NewDirectorRepository(pool),
			feed:      repository.NewFeedRepository(pool),
			checker:   database.NewReadinessChecker(pool),
		}

		// 3.3 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode)
		pgDB := stdlib.OpenDBFromPool(pool)
		defer pgDB.Close()

		dephealthSvc = startDephealth(ctx, cfg, pgDB, logger)
	}

	// 4. Services
	feedSvc := service.NewFeedService(repos.feed, repos.users, logger)
	filmSvc := service.NewFilmService(
		repos.films, repos.users, repos.lookups, repos.directors,
		feedSvc,
		logger,
	)
	userSvc := service.NewUserService(repos.users, feedSvc, logger)
	lookupSvc := service.NewLookupService(
		repos.lookups, repos.directors,
		cfg.CacheMaxSize, cfg.CacheTTL,
		logger,
	)

	// 5. Handlers
	healthHandler := handlers.NewHealthHandler(repos.checker, cfg.Storage)
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		filmSvc,
		userSvc,
		lookupSvc,
		feedSvc,
		logger,
	)

	// 6. HTTP-сервер: request id → access log → метрики
	srv := server.New(cfg, logger, apiHandler,
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.MetricsMiddleware(),
	)

	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		if dephealthSvc != nil {
			dephealthSvc.Stop()
		}
		os.Exit(1)
	}

	// 7. Остановка фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Film Module остановлен")
}

// startDephealth запускает мониторинг PostgreSQL через topologymetrics.
// Ошибка не фатальна: сервис работает без метрик зависимостей, возвращается nil.
func startDephealth(ctx context.Context, cfg *config.Config, pgDB *sql.DB, logger *slog.Logger) *service.DephealthService {
	if os.Getenv("FM_DEPHEALTH_GROUP") == "" {
		logger.Warn("FM_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	svc, err := service.NewDephealthService(service.DephealthConfig{
		ServiceID:     "film-module",
		Group:         cfg.DephealthGroup,
		PgConnURL:     cfg.DatabaseURL(),
		CheckInterval: cfg.DephealthCheckInterval,
		IsEntry:       cfg.DephealthIsEntry,
	}, pgDB, logger)
	if err != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", err.Error()),
		)
		return nil
	}

	if err := svc.Start(ctx); err != nil {
		logger.Warn("Ошибка запуска topologymetrics", slog.String("error", err.Error()))
		return nil
	}
	logger.Info("topologymetrics запущен",
		slog.String("group", cfg.DephealthGroup),
		slog.String("check_interval", cfg.DephealthCheckInterval.String()),
	)
	return svc
}
