package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/constructpro/constructpro-backend/config"
	"github.com/constructpro/constructpro-backend/database"
	"github.com/constructpro/constructpro-backend/handlers"
	"github.com/constructpro/constructpro-backend/location"
	"github.com/constructpro/constructpro-backend/models"
	"github.com/constructpro/constructpro-backend/photostore"
	"github.com/constructpro/constructpro-backend/repository"
	"github.com/constructpro/constructpro-backend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.TempPhotosPath, cfg.ProjectsPath, cfg.ThumbnailsPath, cfg.ArchivesPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	indexDB, err := database.InitDB(cfg.IndexPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize thumbnail index: %v", err)
	}
	defer indexDB.Close()

	gormDB, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize project database: %v", err)
	}
	if err := database.AutoMigrateModels(gormDB); err != nil {
		log.Fatalf("FATAL: Failed to migrate project database: %v", err)
	}

	projectRepo := repository.NewProjectRepository(gormDB)
	photoRecordRepo := repository.NewPhotoRecordRepository(gormDB)
	teamRepo := repository.NewTeamMemberRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	ensureAdminUser(userRepo, cfg)

	projectName := func(projectID string) (string, bool) {
		id, err := strconv.ParseUint(projectID, 10, 32)
		if err != nil {
			return "", false
		}
		project, err := projectRepo.GetByID(uint(id))
		if err != nil {
			return "", false
		}
		return project.Name, true
	}

	store, err := photostore.NewStore(cfg.TempPhotosPath, cfg.ProjectsPath, cfg.ThumbnailsPath, indexDB, projectName)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize photo store: %v", err)
	}

	log.Printf("Initializing thumbnail worker pool (Workers: %d, Queue Size: %d)...", cfg.NumThumbnailWorkers, cfg.ThumbnailQueueSize)
	thumbGen := workers.NewThumbnailGenerator(cfg, indexDB, cfg.ThumbnailQueueSize, cfg.NumThumbnailWorkers)
	defer thumbGen.Stop()

	// No live device locator or platform geocoder is wired on the server;
	// verification still reports the EXIF side and distance stays null.
	locationSvc := location.NewService(nil, nil)

	sessions := handlers.NewSessionStore()
	authHandler := handlers.NewAuthHandler(userRepo, sessions)
	photoHandler := &handlers.PhotoHandler{Store: store, Cfg: cfg, ThumbGen: thumbGen, ProjectRepo: projectRepo}
	locationHandler := &handlers.LocationHandler{Svc: locationSvc, Store: store}
	projectHandler := &handlers.ProjectHandler{
		Repo:      projectRepo,
		PhotoRepo: photoRecordRepo,
		TeamRepo:  teamRepo,
		Store:     store,
		Cfg:       cfg,
	}

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	requireAuth := func(next http.Handler) http.Handler {
		return handlers.AuthMiddleware(sessions, userRepo, next)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/auth/me", authHandler.CurrentUser)
		})

		r.Route("/photos", func(r chi.Router) {
			r.Get("/", photoHandler.ListPhotos)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", photoHandler.ImportPhoto)
				r.Post("/assign", photoHandler.AssignPhotos)
				r.Delete("/", photoHandler.DeletePhotos)
			})
			r.Route("/{photoID}", func(r chi.Router) {
				r.Get("/display", photoHandler.GetPhotoDisplay)
				r.Get("/report", photoHandler.GetPhotoReport)
				r.Get("/location/verify", locationHandler.VerifyPhotoLocation)
				r.Group(func(r chi.Router) {
					r.Use(requireAuth)
					r.Put("/location", locationHandler.UpdatePhotoLocation)
					r.Delete("/location", locationHandler.RemovePhotoLocation)
				})
			})
		})

		r.Get("/geocode/reverse", locationHandler.ReverseGeocode)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.ListProjects)
			r.Get("/stats", projectHandler.GetProjectStats)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", projectHandler.CreateProject)
			})
			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", projectHandler.GetProject)
				r.Get("/photos", projectHandler.ListProjectPhotos)
				r.Get("/team", projectHandler.ListTeamMembers)
				r.Group(func(r chi.Router) {
					r.Use(requireAuth)
					r.Put("/", projectHandler.UpdateProject)
					r.Delete("/", projectHandler.DeleteProject)
					r.Post("/photos", projectHandler.AddProjectPhoto)
					r.Delete("/photos/{recordID}", projectHandler.RemoveProjectPhoto)
					r.Post("/team", projectHandler.AddTeamMember)
					r.Delete("/team/{memberID}", projectHandler.RemoveTeamMember)
					r.Post("/archive", projectHandler.ExportProjectArchive)
				})
			})
		})

		thumbnailSubDir := filepath.Base(cfg.ThumbnailsPath)
		r.Get(fmt.Sprintf("/%s/*", thumbnailSubDir), handlers.AssetServer(cfg.StorageRoot, thumbnailSubDir))
		log.Printf("Registered thumbnail server at /%s/*", thumbnailSubDir)

		archiveSubDir := filepath.Base(cfg.ArchivesPath)
		r.Get(fmt.Sprintf("/%s/*", archiveSubDir), handlers.AssetServer(cfg.StorageRoot, archiveSubDir))
		log.Printf("Registered archive server at /%s/*", archiveSubDir)
	})

	log.Printf("Managing photos under: %s", cfg.StorageRoot)
	log.Printf("Using project database: %s", cfg.DatabasePath)
	log.Printf("Using thumbnail index: %s", cfg.IndexPath)

	fmt.Printf("Server starting on %s\n", cfg.ListenAddr)
	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

// ensureAdminUser creates the bootstrap operator account when the users
// table is empty and credentials were configured.
func ensureAdminUser(userRepo *repository.UserRepository, cfg config.Config) {
	count, err := userRepo.Count()
	if err != nil {
		log.Printf("Warning: failed to count users: %v", err)
		return
	}
	if count > 0 {
		return
	}
	if cfg.AdminPassword == "" {
		log.Println("Warning: no users exist and ADMIN_PASSWORD is not set; authenticated routes are unusable until a user is created")
		return
	}

	admin := &models.User{Username: cfg.AdminUsername}
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		log.Printf("Warning: failed to hash admin password: %v", err)
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: failed to create admin user: %v", err)
		return
	}
	log.Printf("Created bootstrap admin user %q", cfg.AdminUsername)
}
