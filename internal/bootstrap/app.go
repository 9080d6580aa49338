package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"agriguard/internal/config"
	"agriguard/internal/model"
	mysqlClient "agriguard/internal/platform/mysql"
	rabbitmqClient "agriguard/internal/platform/rabbitmq"
	redisClient "agriguard/internal/platform/redis"
	"agriguard/internal/repository"
	"agriguard/internal/worker"
)

type App struct {
	Config     *config.Config
	MySQL      *gorm.DB
	Redis      *redis.Client
	MQConn     *amqp.Connection
	ScanWorker *worker.ScanPersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN(), cfg.MySQL.MaxOpenConns, cfg.MySQL.MaxIdleConns)
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.User{}, &model.Scan{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.ScanPersistQueue)
	if err != nil {
		return nil, err
	}

	scanRepo := repository.NewScanRepository(mysqlDB)
	scanWorker := worker.NewScanPersistWorker(mqConn, scanRepo, cfg.RabbitMQ.ScanPersistQueue)
	if err := scanWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start scan persist worker failed: %w", err)
	}

	return &App{
		Config:     cfg,
		MySQL:      mysqlDB,
		Redis:      redisCli,
		MQConn:     mqConn,
		ScanWorker: scanWorker,
		StartedAt:  time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ScanWorker != nil {
		a.ScanWorker.Close()
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
