package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/shestakov-dev/ClassCompassServer/api/swagger"
	"github.com/shestakov-dev/ClassCompassServer/internal/handler"
	"github.com/shestakov-dev/ClassCompassServer/internal/middleware"
	"github.com/shestakov-dev/ClassCompassServer/internal/repository"
	"github.com/shestakov-dev/ClassCompassServer/internal/service"
	"github.com/shestakov-dev/ClassCompassServer/pkg/cache"
	"github.com/shestakov-dev/ClassCompassServer/pkg/config"
	"github.com/shestakov-dev/ClassCompassServer/pkg/database"
	"github.com/shestakov-dev/ClassCompassServer/pkg/logger"
	corsmiddleware "github.com/shestakov-dev/ClassCompassServer/pkg/middleware/cors"
	reqidmiddleware "github.com/shestakov-dev/ClassCompassServer/pkg/middleware/requestid"
	"github.com/shestakov-dev/ClassCompassServer/pkg/storage"
)

// @title Class Compass API
// @version 1.0.0
// @description Multi-tenant school management API with lesson scheduling and conflict detection
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	objectStore, err := storage.NewObjectStore(ctx, cfg.Minio)
	cancel()
	if err != nil {
		logr.Sugar().Warnw("object storage unavailable, floor plans disabled", "error", err)
		objectStore = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(redisClient)
	schoolRepo := repository.NewSchoolRepository(db)
	buildingRepo := repository.NewBuildingRepository(db)
	floorRepo := repository.NewFloorRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	classRepo := repository.NewClassRepository(db)
	scheduleRepo := repository.NewDailyScheduleRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	lessonRepo := repository.NewLessonRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, tokenRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	schoolSvc := service.NewSchoolService(schoolRepo, validate, logr)
	buildingSvc := service.NewBuildingService(buildingRepo, schoolRepo, validate, logr)
	var floorSvc *service.FloorService
	if objectStore != nil {
		floorSvc = service.NewFloorService(floorRepo, buildingRepo, objectStore, validate, logr)
	} else {
		floorSvc = service.NewFloorService(floorRepo, buildingRepo, nil, validate, logr)
	}
	roomSvc := service.NewRoomService(roomRepo, floorRepo, validate, logr)
	classSvc := service.NewClassService(classRepo, schoolRepo, validate, logr)
	scheduleSvc := service.NewDailyScheduleService(scheduleRepo, classRepo, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, schoolRepo, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, schoolRepo, subjectRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, classRepo, validate, logr)
	exportSvc := service.NewExportService(classRepo, scheduleRepo, lessonRepo, subjectRepo, teacherRepo, roomRepo, logr)

	var lessonSvc *service.LessonService
	if cfg.Lessons.CacheEnabled {
		lessonSvc = service.NewLessonService(lessonRepo, scheduleRepo, repository.NewCacheRepository(redisClient, logr), cfg.Lessons.CacheTTL, validate, logr)
	} else {
		lessonSvc = service.NewLessonService(lessonRepo, scheduleRepo, nil, 0, validate, logr)
	}

	handlers := handler.Handlers{
		Auth:           handler.NewAuthHandler(authSvc),
		Users:          handler.NewUserHandler(userSvc),
		Schools:        handler.NewSchoolHandler(schoolSvc),
		Buildings:      handler.NewBuildingHandler(buildingSvc),
		Floors:         handler.NewFloorHandler(floorSvc),
		Rooms:          handler.NewRoomHandler(roomSvc),
		Classes:        handler.NewClassHandler(classSvc, exportSvc),
		DailySchedules: handler.NewDailyScheduleHandler(scheduleSvc),
		Subjects:       handler.NewSubjectHandler(subjectSvc),
		Teachers:       handler.NewTeacherHandler(teacherSvc),
		Students:       handler.NewStudentHandler(studentSvc),
		Lessons:        handler.NewLessonHandler(lessonSvc, metricsSvc),
		Metrics:        handler.NewMetricsHandler(metricsSvc),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", handlers.Metrics.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
