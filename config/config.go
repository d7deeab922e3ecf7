package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultTempPhotosSubDir = "temp_photos"
	DefaultProjectsSubDir   = "projects"
	DefaultThumbnailsSubDir = "thumbnails"
	DefaultArchivesSubDir   = "archives"
)

const (
	defaultThumbnailQueueSize  = 200
	defaultNumThumbnailWorkers = 4
	defaultThumbnailMaxWidth   = 300
	defaultThumbnailMaxHeight  = 300
	defaultListenAddr          = ":8080"
)

type Config struct {
	// HTTP listen address
	ListenAddr string

	// photo storage configuration
	StorageRoot    string // primary root for managed photo storage
	TempPhotosPath string // full-calculated path for unassigned photos
	ProjectsPath   string // full-calculated path for per-project photo areas
	ThumbnailsPath string // full-calculated path for generated thumbnails
	ArchivesPath   string // full-calculated path for project export zips

	// database paths
	IndexPath    string // thumbnail index (raw sqlite)
	DatabasePath string // relational project store (gorm)

	// thumbnail generation settings
	ThumbnailMaxWidth  int
	ThumbnailMaxHeight int

	// worker settings
	ThumbnailQueueSize  int
	NumThumbnailWorkers int

	// bootstrap admin credentials, used only when the users table is empty
	AdminUsername string
	AdminPassword string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	storageRoot := getEnvOrDefault("STORAGE_ROOT", filepath.Join(".", "photo_storage"))
	absStorageRoot, err := filepath.Abs(storageRoot)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for storage root '%s': %w", storageRoot, err)
	}

	tempSubDir := getEnvOrDefault("TEMP_PHOTOS_SUBDIR", DefaultTempPhotosSubDir)
	projectsSubDir := getEnvOrDefault("PROJECTS_SUBDIR", DefaultProjectsSubDir)
	thumbSubDir := getEnvOrDefault("THUMBNAILS_SUBDIR", DefaultThumbnailsSubDir)
	archiveSubDir := getEnvOrDefault("ARCHIVES_SUBDIR", DefaultArchivesSubDir)

	cfg := Config{
		ListenAddr:          getEnvOrDefault("LISTEN_ADDR", defaultListenAddr),
		StorageRoot:         absStorageRoot,
		TempPhotosPath:      filepath.Join(absStorageRoot, tempSubDir),
		ProjectsPath:        filepath.Join(absStorageRoot, projectsSubDir),
		ThumbnailsPath:      filepath.Join(absStorageRoot, thumbSubDir),
		ArchivesPath:        filepath.Join(absStorageRoot, archiveSubDir),
		IndexPath:           getEnvOrDefault("INDEX_PATH", "thumbnails.db"),
		DatabasePath:        getEnvOrDefault("DATABASE_PATH", "constructpro.db"),
		ThumbnailMaxWidth:   getEnvIntOrDefault("THUMBNAIL_MAX_WIDTH", defaultThumbnailMaxWidth),
		ThumbnailMaxHeight:  getEnvIntOrDefault("THUMBNAIL_MAX_HEIGHT", defaultThumbnailMaxHeight),
		ThumbnailQueueSize:  getEnvIntOrDefault("THUMBNAIL_QUEUE_SIZE", defaultThumbnailQueueSize),
		NumThumbnailWorkers: getEnvIntOrDefault("NUM_THUMBNAIL_WORKERS", defaultNumThumbnailWorkers),
		AdminUsername:       getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword:       getEnvOrDefault("ADMIN_PASSWORD", ""),
	}

	return cfg, nil
}
