package utils

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// CreateProjectArchive creates a ZIP archive of a project's photo area,
// including both the image files and their metadata sidecars.
// photoDir: the project's photo directory.
// archiveSaveDir: where the ZIP file is written.
// Returns: full path of the archive, size in bytes, error.
func CreateProjectArchive(photoDir, archiveSaveDir string) (string, int64, error) {
	photoDir = filepath.Clean(photoDir)

	if _, err := os.Stat(photoDir); os.IsNotExist(err) {
		return "", 0, fmt.Errorf("project photo folder not found: %s", photoDir)
	} else if err != nil {
		return "", 0, fmt.Errorf("error stating project photo folder %s: %w", photoDir, err)
	}

	if err := os.MkdirAll(archiveSaveDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create zip save directory %s: %w", archiveSaveDir, err)
	}

	timestamp := time.Now().Unix()
	archiveUUID, _ := uuid.NewRandom()
	zipFilename := fmt.Sprintf("archive_%d_%s.zip", timestamp, archiveUUID.String()[:8])
	zipFilePath := filepath.Join(archiveSaveDir, zipFilename)

	zipFile, err := os.Create(zipFilePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create zip file %s: %w", zipFilePath, err)
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)

	log.Printf("zipper: archiving files from %s", photoDir)
	entries, err := os.ReadDir(photoDir)
	if err != nil {
		zipWriter.Close()
		return "", 0, fmt.Errorf("failed to read project photo directory %s: %w", photoDir, err)
	}

	foundFiles := false
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		filePath := filepath.Join(photoDir, entry.Name())
		fileToZip, err := os.Open(filePath)
		if err != nil {
			log.Printf("zipper: failed to open file %s for zipping: %v. Skipping.", filePath, err)
			continue
		}

		writer, err := zipWriter.Create(entry.Name())
		if err != nil {
			fileToZip.Close()
			log.Printf("zipper: failed to create entry in zip for %s: %v. Skipping.", entry.Name(), err)
			continue
		}

		_, err = io.Copy(writer, fileToZip)
		fileToZip.Close()
		if err != nil {
			log.Printf("zipper: failed to write file %s to zip: %v. Skipping.", entry.Name(), err)
			continue
		}
		foundFiles = true
	}

	if !foundFiles {
		zipWriter.Close()
		zipFile.Close()
		os.Remove(zipFilePath)
		return "", 0, fmt.Errorf("no files found in project photo folder %s to zip", photoDir)
	}

	if err := zipWriter.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to finalize zip writer for %s: %w", zipFilePath, err)
	}

	zipInfo, err := os.Stat(zipFilePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat created zip file %s: %w", zipFilePath, err)
	}

	log.Printf("successfully created project archive: %s (Size: %d bytes)", zipFilePath, zipInfo.Size())
	return zipFilePath, zipInfo.Size(), nil
}
