package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"medilexica/internal/app"
	"medilexica/internal/cache"
	"medilexica/internal/config"
	"medilexica/internal/model"
	mysqlClient "medilexica/internal/platform/mysql"
	rabbitmqClient "medilexica/internal/platform/rabbitmq"
	redisClient "medilexica/internal/platform/redis"
	"medilexica/internal/repository"
	"medilexica/internal/worker"
)

// App holds the process-wide resources and the services that must outlive a
// single request (the session service is shared between the HTTP layer and
// the save-retry worker).
type App struct {
	Config            *config.Config
	MySQL             *gorm.DB
	Redis             *redis.Client
	MQConn            *amqp.Connection
	Sessions          *app.SessionService
	SnapshotPublisher *rabbitmqClient.SnapshotPublisher
	SaveWorker        *worker.SessionSaveWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.User{}, &model.ChatSession{}, &model.GlossaryTerm{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	glossarySvc := app.NewGlossaryService(repository.NewGlossaryRepository(mysqlDB))
	if err := glossarySvc.EnsureSeeded(); err != nil {
		return nil, fmt.Errorf("seed glossary failed: %w", err)
	}

	listCache := cache.NewSessionListCache(
		redisCli,
		time.Duration(cfg.Redis.SessionListTTLSeconds)*time.Second,
		time.Duration(cfg.Redis.SessionListDirtyTTLSeconds)*time.Second,
	)
	sessionSvc := app.NewSessionService(repository.NewSessionRepository(mysqlDB), listCache)

	saveWorker := worker.NewSessionSaveWorker(mqConn, sessionSvc, cfg.RabbitMQ.SaveRetryQueue)
	if err := saveWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start save-retry worker failed: %w", err)
	}

	return &App{
		Config:            cfg,
		MySQL:             mysqlDB,
		Redis:             redisCli,
		MQConn:            mqConn,
		Sessions:          sessionSvc,
		SnapshotPublisher: rabbitmqClient.NewSnapshotPublisher(mqConn, cfg.RabbitMQ.SaveRetryQueue),
		SaveWorker:        saveWorker,
		StartedAt:         time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.SaveWorker != nil {
		a.SaveWorker.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
