package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadapter "resale-backend/internal/adapter/http"
	"resale-backend/internal/adapter/middleware"
	"resale-backend/internal/adapter/repository/mysql"
	"resale-backend/internal/config"
	appDomain "resale-backend/internal/domain/application"
	formDomain "resale-backend/internal/domain/form"
	noteDomain "resale-backend/internal/domain/notification"
	groupDomain "resale-backend/internal/domain/propertygroup"
	"resale-backend/internal/domain/uow"
	"resale-backend/internal/infrastructure/cache"
	"resale-backend/internal/infrastructure/db"
	"resale-backend/internal/infrastructure/email"
	"resale-backend/internal/infrastructure/logger"
	"resale-backend/internal/infrastructure/pdfrender"
	"resale-backend/internal/infrastructure/storage"
	appUC "resale-backend/internal/usecase/application"
	"resale-backend/internal/usecase/certificate"
	formUC "resale-backend/internal/usecase/form"
	"resale-backend/internal/usecase/notify"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal("mysql connect failed", zap.Error(err))
	}
	if cfg.AutoMigrate {
		err := gdb.AutoMigrate(
			&appDomain.Application{},
			&appDomain.Property{},
			&formDomain.Form{},
			&noteDomain.Notification{},
			&groupDomain.PropertyGroup{},
		)
		if err != nil {
			log.Fatal("auto-migrate failed", zap.Error(err))
		}
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal("redis connect failed", zap.Error(err))
	}
	opLock := cache.NewOpLock(rdb, time.Duration(cfg.OpLockTTLSecs)*time.Second)

	store, err := storage.New(cfg)
	if err != nil {
		log.Fatal("object storage init failed", zap.Error(err))
	}
	if err := store.EnsureBucket(context.Background()); err != nil {
		log.Fatal("certificate bucket init failed", zap.Error(err))
	}

	sender, err := email.NewSESSender(context.Background(), cfg.SESRegion, cfg.EmailSender)
	if err != nil {
		log.Fatal("ses init failed", zap.Error(err))
	}

	renderer := pdfrender.New(cfg.RenderServiceURL, time.Duration(cfg.RenderTimeoutSeconds)*time.Second)

	repos := uow.Repos{
		Applications:   mysql.NewApplicationRepository(gdb),
		Properties:     mysql.NewPropertyRepository(gdb),
		Forms:          mysql.NewFormRepository(gdb),
		Notifications:  mysql.NewNotificationRepository(gdb),
		PropertyGroups: mysql.NewPropertyGroupRepository(gdb),
	}
	tx := mysql.NewGormUoW(gdb)

	applications := appUC.NewUsecase(repos, tx, log)
	forms := formUC.NewUsecase(tx, log)
	certificates := certificate.NewUsecase(tx, renderer, store, opLock, log)
	mails := notify.NewUsecase(tx, sender, opLock, log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadapter.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log))

	httpadapter.RegisterRoutes(e,
		httpadapter.NewHandler(),
		httpadapter.NewApplicationHandler(applications),
		httpadapter.NewFormHandler(forms),
		httpadapter.NewActionHandler(certificates, mails),
	)

	log.Info("starting api", zap.String("port", cfg.AppPort))
	if err := e.Start(":" + cfg.AppPort); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
