package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/niosa-ap/attendance-backend-go/internal/config"
	appHTTP "github.com/niosa-ap/attendance-backend-go/internal/handler/http"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/clock"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/cron"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/database"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/jwt"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/liveness"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/oauth"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/storage"
	"github.com/niosa-ap/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/niosa-ap/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/niosa-ap/attendance-backend-go/internal/service/auth"
	correctionService "github.com/niosa-ap/attendance-backend-go/internal/service/correction"
	settingsService "github.com/niosa-ap/attendance-backend-go/internal/service/settings"
	userService "github.com/niosa-ap/attendance-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	adminRepo := postgresql.NewAdminRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	GoogleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	systemClock := clock.System()
	livenessRegistry := liveness.NewRegistry(systemClock)

	authSvc := serviceAuth.NewAuthService(userRepo, adminRepo, JWTService)
	userSvc := userService.NewUserService(userRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, settingsRepo, livenessRegistry, fileStorage, systemClock)
	correctionSvc := correctionService.NewCorrectionService(db, correctionRepo, userRepo, fileStorage, systemClock)
	settingsSvc := settingsService.NewSettingsService(settingsRepo)

	scheduler := cron.NewScheduler()
	cron.RegisterCorrectionJobs(scheduler, correctionSvc)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authSvc, GoogleService, cfg.App.FrontendURL),
		User:       appHTTP.NewUserHandler(userSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Correction: appHTTP.NewCorrectionHandler(correctionSvc),
		Settings:   appHTTP.NewSettingsHandler(settingsSvc),
	}, cfg.App.FrontendURL)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
