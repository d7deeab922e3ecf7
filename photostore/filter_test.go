package photostore

import (
	"testing"
	"time"

	"github.com/constructpro/constructpro-backend/exif"
	"github.com/constructpro/constructpro-backend/geo"
)

func testPhotos() []Photo {
	nyc := &Location{Latitude: 40.7128, Longitude: -74.0060}
	london := geo.Coordinate{Latitude: 51.5074, Longitude: -0.1278}

	return []Photo{
		{
			ID:           "a.jpg",
			IsUnassigned: true,
			ProjectName:  "Unassigned",
			Metadata: Metadata{
				Timestamp: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
				Location:  nyc,
			},
			Tags: []string{"inspection", "foundation"},
		},
		{
			ID:          "42_b.jpg",
			ProjectID:   "42",
			ProjectName: "Harbor Bridge",
			Metadata: Metadata{
				Timestamp: time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC),
			},
			Exif: &exif.Record{GPS: &london},
			Tags: []string{"steelwork"},
		},
		{
			ID:          "7_c.jpg",
			ProjectID:   "7",
			ProjectName: "Office Fit-out",
			Metadata: Metadata{
				Timestamp: time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC),
			},
			Tags: []string{},
		},
	}
}

func ids(photos []Photo) []string {
	out := make([]string, len(photos))
	for i, p := range photos {
		out[i] = p.ID
	}
	return out
}

func TestFilterByProject(t *testing.T) {
	projectID := "42"
	got := FilterPhotos(testPhotos(), Filter{ProjectID: &projectID})
	if len(got) != 1 || got[0].ID != "42_b.jpg" {
		t.Errorf("unexpected result: %v", ids(got))
	}
}

func TestFilterUnassignedOnly(t *testing.T) {
	unassigned := true
	got := FilterPhotos(testPhotos(), Filter{IsUnassigned: &unassigned})
	if len(got) != 1 || got[0].ID != "a.jpg" {
		t.Errorf("unexpected result: %v", ids(got))
	}
}

func TestFilterDateRangeInclusive(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	end := time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC)
	got := FilterPhotos(testPhotos(), Filter{StartDate: &start, EndDate: &end})
	if len(got) != 2 {
		t.Errorf("expected boundary timestamps to be included, got %v", ids(got))
	}
}

func TestFilterByRadius(t *testing.T) {
	// 50km around Manhattan: only the sidecar-located photo qualifies; the
	// photo with no coordinates at all never matches a radius filter.
	got := FilterPhotos(testPhotos(), Filter{Location: &RadiusFilter{
		Latitude:     40.7,
		Longitude:    -74.0,
		RadiusMeters: 50000,
	}})
	if len(got) != 1 || got[0].ID != "a.jpg" {
		t.Errorf("unexpected result: %v", ids(got))
	}
}

func TestFilterRadiusUsesExifFallback(t *testing.T) {
	got := FilterPhotos(testPhotos(), Filter{Location: &RadiusFilter{
		Latitude:     51.5,
		Longitude:    -0.12,
		RadiusMeters: 50000,
	}})
	if len(got) != 1 || got[0].ID != "42_b.jpg" {
		t.Errorf("expected EXIF GPS to satisfy the radius filter, got %v", ids(got))
	}
}

func TestFilterByTags(t *testing.T) {
	got := FilterPhotos(testPhotos(), Filter{Tags: []string{"foundation", "paint"}})
	if len(got) != 1 || got[0].ID != "a.jpg" {
		t.Errorf("expected any-overlap tag match, got %v", ids(got))
	}
}

func TestFilterSearchText(t *testing.T) {
	tests := []struct {
		search string
		want   []string
	}{
		{"harbor", []string{"42_b.jpg"}},       // project name
		{"inspection", []string{"a.jpg"}},      // tag
		{"3/1/2026", []string{"a.jpg"}},        // formatted date
		{"40.7128", []string{"a.jpg"}},         // formatted coordinates
		{"no such thing", []string{}},
	}
	for _, tt := range tests {
		got := FilterPhotos(testPhotos(), Filter{SearchText: tt.search})
		gotIDs := ids(got)
		if len(gotIDs) != len(tt.want) {
			t.Errorf("search %q: expected %v, got %v", tt.search, tt.want, gotIDs)
			continue
		}
		for i := range tt.want {
			if gotIDs[i] != tt.want[i] {
				t.Errorf("search %q: expected %v, got %v", tt.search, tt.want, gotIDs)
			}
		}
	}
}

func TestFilterConjunctive(t *testing.T) {
	unassigned := false
	got := FilterPhotos(testPhotos(), Filter{
		IsUnassigned: &unassigned,
		Tags:         []string{"steelwork"},
	})
	if len(got) != 1 || got[0].ID != "42_b.jpg" {
		t.Errorf("unexpected result: %v", ids(got))
	}
}

func TestFilterEmptyCriteriaMatchesAll(t *testing.T) {
	got := FilterPhotos(testPhotos(), Filter{})
	if len(got) != 3 {
		t.Errorf("expected all photos, got %v", ids(got))
	}
}
