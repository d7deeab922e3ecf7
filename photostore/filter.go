package photostore

import (
	"strings"

	"github.com/constructpro/constructpro-backend/geo"
)

// FilterPhotos applies the criteria to an already-listed photo set. Criteria
// are independently optional and conjunctive.
func FilterPhotos(photos []Photo, filter Filter) []Photo {
	filtered := make([]Photo, 0, len(photos))
	for _, photo := range photos {
		if matches(photo, filter) {
			filtered = append(filtered, photo)
		}
	}
	return filtered
}

func matches(photo Photo, filter Filter) bool {
	if filter.ProjectID != nil && photo.ProjectID != *filter.ProjectID {
		return false
	}
	if filter.IsUnassigned != nil && photo.IsUnassigned != *filter.IsUnassigned {
		return false
	}

	if filter.StartDate != nil && photo.Metadata.Timestamp.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && photo.Metadata.Timestamp.After(*filter.EndDate) {
		return false
	}

	if filter.Location != nil {
		coord, ok := photoCoordinate(photo)
		if !ok {
			return false
		}
		center := geo.Coordinate{Latitude: filter.Location.Latitude, Longitude: filter.Location.Longitude}
		if !geo.IsWithinRadius(center, coord, filter.Location.RadiusMeters) {
			return false
		}
	}

	if len(filter.Tags) > 0 && !anyTagMatches(photo.Tags, filter.Tags) {
		return false
	}

	if filter.SearchText != "" && !matchesSearchText(photo, filter.SearchText) {
		return false
	}

	return true
}

// photoCoordinate prefers the app-recorded fix, falling back to EXIF GPS.
func photoCoordinate(photo Photo) (geo.Coordinate, bool) {
	if photo.Metadata.Location != nil {
		return photo.Metadata.Location.Coordinate(), true
	}
	if photo.Exif != nil && photo.Exif.GPS != nil {
		return *photo.Exif.GPS, true
	}
	return geo.Coordinate{}, false
}

// anyTagMatches reports whether the two tag sets intersect.
func anyTagMatches(photoTags, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range photoTags {
			if t == w {
				return true
			}
		}
	}
	return false
}

// matchesSearchText does a case-insensitive substring match against the
// formatted date and time, the formatted coordinate string, the project name
// and the tags.
func matchesSearchText(photo Photo, search string) bool {
	search = strings.ToLower(search)

	dateStr := photo.Metadata.Timestamp.Format("1/2/2006")
	timeStr := photo.Metadata.Timestamp.Format("3:04:05 PM")
	if strings.Contains(strings.ToLower(dateStr), search) ||
		strings.Contains(strings.ToLower(timeStr), search) {
		return true
	}

	if coord, ok := photoCoordinate(photo); ok {
		coordStr := strings.ToLower(geo.FormatDecimal(coord))
		if strings.Contains(coordStr, search) {
			return true
		}
	}

	if strings.Contains(strings.ToLower(photo.ProjectName), search) {
		return true
	}

	for _, tag := range photo.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}
