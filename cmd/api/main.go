package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/centek/clinic-api/internal/config"
	authhandler "github.com/centek/clinic-api/internal/handler/auth"
	doctorhandler "github.com/centek/clinic-api/internal/handler/doctor"
	healthhandler "github.com/centek/clinic-api/internal/handler/health"
	mediahandler "github.com/centek/clinic-api/internal/handler/media"
	meetinghandler "github.com/centek/clinic-api/internal/handler/meeting"
	patienthandler "github.com/centek/clinic-api/internal/handler/patient"
	statshandler "github.com/centek/clinic-api/internal/handler/stats"
	"github.com/centek/clinic-api/internal/middleware"
	"github.com/centek/clinic-api/internal/repository/postgres"
	redisrepo "github.com/centek/clinic-api/internal/repository/redis"
	"github.com/centek/clinic-api/internal/router"
	"github.com/centek/clinic-api/internal/seed"
	authService "github.com/centek/clinic-api/internal/service/auth"
	doctorService "github.com/centek/clinic-api/internal/service/doctor"
	meetingService "github.com/centek/clinic-api/internal/service/meeting"
	"github.com/centek/clinic-api/internal/service/notifier"
	patientService "github.com/centek/clinic-api/internal/service/patient"
	statsService "github.com/centek/clinic-api/internal/service/stats"
	"github.com/centek/clinic-api/pkg/auth"
	"github.com/centek/clinic-api/pkg/logger"
	"github.com/centek/clinic-api/pkg/security"
	"github.com/centek/clinic-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(&logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}

	var revoker authService.TokenRevoker
	if cfg.Redis.URL != "" {
		store, err := redisrepo.NewTokenStore(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer store.Close()
		revoker = store
	} else {
		log.Warn().Msg("redis not configured, token revocation disabled")
	}

	mediaStore, err := storage.NewMediaStore(cfg.Media.Root, cfg.Media.StaticRoot, []string{"avatar", "patients", "meetings"})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare media storage")
	}

	userRepo := postgres.NewUserRepository(db)
	specialityRepo := postgres.NewSpecialityRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	passportRepo := postgres.NewPassportRepository(db)
	insuranceRepo := postgres.NewInsuranceRepository(db)
	medCardRepo := postgres.NewMedCardRepository(db)
	diagnosisRepo := postgres.NewDiagnosisRepository(db)
	visitRepo := postgres.NewVisitRepository(db)
	meetingRepo := postgres.NewMeetingRepository(db)
	statsRepo := postgres.NewStatsRepository(db)

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)
	hasher := security.NewBcryptHasher(cfg.JWT.BcryptCost)
	mailer := notifier.New(cfg.SMTP)

	authSvc := authService.NewService(userRepo, specialityRepo, db, jwtSvc, hasher, revoker, cfg.Media.DefaultAvatar)
	doctorSvc := doctorService.NewService(userRepo, specialityRepo, meetingRepo, patientRepo, visitRepo)
	patientSvc := patientService.NewService(
		patientRepo, passportRepo, insuranceRepo, medCardRepo,
		visitRepo, diagnosisRepo, meetingRepo, userRepo, db, mailer,
	)
	meetingSvc := meetingService.NewService(meetingRepo, patientRepo)
	statsSvc := statsService.NewService(statsRepo, cfg.Stats.CacheTTL)

	if cfg.Seed.Enabled {
		seeder := seed.New(userRepo, specialityRepo, meetingRepo, patientSvc, db, hasher)
		if err := seeder.Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to seed demo data")
		}
	}

	authMW := middleware.NewAuthMiddleware(authSvc, jwtSvc)
	r := router.New(authMW, router.Handlers{
		Auth:    authhandler.NewHandler(authSvc, mediaStore),
		Doctor:  doctorhandler.NewHandler(doctorSvc),
		Patient: patienthandler.NewHandler(patientSvc),
		Meeting: meetinghandler.NewHandler(meetingSvc),
		Media:   mediahandler.NewHandler(mediaStore),
		Stats:   statshandler.NewHandler(statsSvc),
		Health:  healthhandler.NewHandler(db),
	}, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
