package main

import (
	"context"
	"os"

	"threadnest/internal/config"
	"threadnest/internal/handler"
	"threadnest/internal/model"
	"threadnest/internal/pkg"
	"threadnest/internal/repository/mysql"
	"threadnest/internal/repository/redis"
	"threadnest/internal/router"
	"threadnest/internal/service"
	"threadnest/internal/webhook"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	if err := mysql.InitDB(cfg.MySQL.DSN); err != nil {
		log.Fatal().Err(err).Msg("mysql connect failed")
	}

	// 连接redis
	if err := redis.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redis.Close()

	// 自动建表（开发阶段 OK）
	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityMember{},
		&model.Thread{},
		&model.CommunityOutbox{},
	); err != nil {
		log.Fatal().Err(err).Msg("auto migrate failed")
	}

	verifier, err := webhook.NewVerifier(cfg.Webhook.Secret)
	if err != nil {
		log.Fatal().Err(err).Msg("bad webhook secret")
	}

	userRepo := &mysql.UserRepository{DB: mysql.DB}
	communityRepo := &mysql.CommunityRepository{DB: mysql.DB}
	memberRepo := &mysql.CommunityMemberRepository{DB: mysql.DB}
	threadRepo := &mysql.ThreadRepository{DB: mysql.DB}
	outboxRepo := &mysql.OutboxRepository{DB: mysql.DB}

	userSvc := service.NewUserService(userRepo)
	communitySvc := service.NewCommunityService(communityRepo, memberRepo, outboxRepo)
	threadSvc := service.NewThreadService(threadRepo, communityRepo, memberRepo)

	// 社区事件投递: kafka 关闭时降级为日志输出
	sender := service.Sender(service.LogSender)
	if cfg.Kafka.Enabled {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: cfg.KafkaBrokers(),
			Topic:   cfg.Kafka.Topic,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("kafka producer failed")
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	relayer := service.NewOutboxRelayer(outboxRepo, sender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go relayer.Run(ctx)

	webhookH := handler.NewWebhookHandler(verifier, &redis.DeliveryRepository{}, communitySvc)
	userH := handler.NewUserHandler(userSvc)
	threadH := handler.NewThreadHandler(threadSvc, userSvc)
	communityH := handler.NewCommunityHandler(communitySvc, userSvc)

	r := router.InitRouter([]byte(cfg.Session.Secret), webhookH, userH, threadH, communityH)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
