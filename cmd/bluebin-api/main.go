package main

import (
	"fmt"
	"os"

	"github.com/bluebin-id/bluebin-api/internal/auth"
	"github.com/bluebin-id/bluebin-api/internal/config"
	"github.com/bluebin-id/bluebin-api/internal/db"
	"github.com/bluebin-id/bluebin-api/internal/excel"
	httphandler "github.com/bluebin-id/bluebin-api/internal/http"
	"github.com/bluebin-id/bluebin-api/internal/http/middleware"
	"github.com/bluebin-id/bluebin-api/internal/logger"
	"github.com/bluebin-id/bluebin-api/internal/optimizer"
	"github.com/bluebin-id/bluebin-api/internal/pdf"
	"github.com/bluebin-id/bluebin-api/internal/repository"
	"github.com/bluebin-id/bluebin-api/internal/service"
	"github.com/bluebin-id/bluebin-api/internal/storage"
	"github.com/bluebin-id/bluebin-api/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	userRepo := repository.NewUserRepository(database)
	tpsRepo := repository.NewTPSRepository(database)
	scheduleRepo := repository.NewScheduleRepository(database)
	proofRepo := repository.NewProofRepository(database)
	locationRepo := repository.NewLocationRepository(database)
	requestRepo := repository.NewRequestRepository(database)
	reportRepo := repository.NewReportRepository(database)

	uploader, err := storage.NewUploader(cfg.S3)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init photo uploader")
	}

	routeClient := optimizer.NewClient(cfg.Optimizer)
	hub := ws.NewHub(log)
	manifestGenerator := pdf.NewGenerator()
	excelGenerator := excel.NewGenerator()

	issuer := auth.NewIssuer(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL)
	userService := service.NewUserService(userRepo, issuer)
	tpsService := service.NewTPSService(tpsRepo)
	scheduleService := service.NewScheduleService(scheduleRepo, tpsRepo, userRepo, proofRepo, routeClient, manifestGenerator)
	proofService := service.NewProofService(proofRepo, uploader)
	locationService := service.NewLocationService(locationRepo, hub, cfg.Locations.StaleAfter)
	requestService := service.NewRequestService(requestRepo, tpsRepo)
	reportService := service.NewReportService(reportRepo, excelGenerator)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(
		userService,
		tpsService,
		scheduleService,
		proofService,
		locationService,
		requestService,
		reportService,
		hub,
		log,
	)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting bluebin api")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
