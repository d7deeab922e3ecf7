package database

import (
	"database/sql"
	"fmt"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
)

// ThumbnailInfo is one row of the thumbnail index, keyed by the photo's
// current path on disk.
type ThumbnailInfo struct {
	ThumbnailPath string
	LastModified  int64
}

// GetThumbnailInfo retrieves the generated thumbnail for a photo path.
// Returns sql.ErrNoRows when no thumbnail has been recorded.
func GetThumbnailInfo(db *sql.DB, originalPath string) (ThumbnailInfo, error) {
	var info ThumbnailInfo
	queryBuilder := psql.Select("thumbnail_path", "last_modified").
		From("thumbnails").
		Where(sq.Eq{"original_path": filepath.ToSlash(originalPath)}).
		Limit(1)

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return ThumbnailInfo{}, fmt.Errorf("failed to build SQL query for GetThumbnailInfo: %w", err)
	}

	err = db.QueryRow(sqlStr, args...).Scan(&info.ThumbnailPath, &info.LastModified)
	if err != nil {
		if err == sql.ErrNoRows {
			return ThumbnailInfo{}, sql.ErrNoRows
		}
		return ThumbnailInfo{}, fmt.Errorf("failed to query or scan thumbnail info for %s: %w", originalPath, err)
	}
	return info, nil
}

// SetThumbnailInfo inserts or updates the thumbnail record for a photo path.
func SetThumbnailInfo(db *sql.DB, originalPath, thumbnailPath string, lastModified int64) error {
	originalPath = filepath.ToSlash(originalPath)
	queryBuilder := psql.Insert("thumbnails").
		Columns("original_path", "thumbnail_path", "last_modified").
		Values(originalPath, thumbnailPath, lastModified).
		Suffix("ON CONFLICT(original_path) DO UPDATE SET").
		Suffix("thumbnail_path = excluded.thumbnail_path,").
		Suffix("last_modified = excluded.last_modified")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL query for SetThumbnailInfo: %w", err)
	}
	_, err = db.Exec(sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to execute set thumbnail info for %s: %w", originalPath, err)
	}
	return nil
}

// MoveThumbnailInfo re-keys a thumbnail record after its photo was moved,
// e.g. when an unassigned photo is assigned to a project.
func MoveThumbnailInfo(db *sql.DB, oldPath, newPath string) error {
	queryBuilder := psql.Update("thumbnails").
		Set("original_path", filepath.ToSlash(newPath)).
		Where(sq.Eq{"original_path": filepath.ToSlash(oldPath)})

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL query for MoveThumbnailInfo: %w", err)
	}
	_, err = db.Exec(sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to re-key thumbnail info %s -> %s: %w", oldPath, newPath, err)
	}
	return nil
}

// DeleteThumbnailInfo drops the thumbnail record for a photo path. Deleting
// a missing record is not an error.
func DeleteThumbnailInfo(db *sql.DB, originalPath string) error {
	queryBuilder := psql.Delete("thumbnails").
		Where(sq.Eq{"original_path": filepath.ToSlash(originalPath)})

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL query for DeleteThumbnailInfo: %w", err)
	}
	_, err = db.Exec(sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to delete thumbnail info for %s: %w", originalPath, err)
	}
	return nil
}
