package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if db.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, db.Path())
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "facts.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database with nested path: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("Nested directories were not created")
	}
}

func TestSchema_TablesExist(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	for _, table := range []string{"artists", "facts"} {
		var name string
		err := db.QueryRowContext(context.Background(), "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s does not exist: %v", table, err)
		}
	}
}

func TestVacuum(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	if err := db.Vacuum(context.Background()); err != nil {
		t.Errorf("Vacuum failed: %v", err)
	}
}

func TestClose(t *testing.T) {
	db := newTestDB(t)

	if err := db.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	_, err := db.QueryContext(context.Background(), "SELECT 1")
	if err == nil {
		t.Error("Expected error querying closed database")
	}
}

func TestImportAndLoadArtist(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	a := testArtist("drake", 3)
	n, err := db.ImportArtist(ctx, a)
	if err != nil {
		t.Fatalf("ImportArtist failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 records imported, got %d", n)
	}

	got, err := db.LoadArtist(ctx, "drake")
	if err != nil {
		t.Fatalf("LoadArtist failed: %v", err)
	}
	if got.Profile != a.Profile {
		t.Errorf("Profile = %+v, want %+v", got.Profile, a.Profile)
	}
	if got.Table.Len() != 3 {
		t.Fatalf("Expected 3 records, got %d", got.Table.Len())
	}
	for i := 0; i < 3; i++ {
		if got.Table.Record(i) != a.Table.Record(i) {
			t.Errorf("record %d = %+v, want %+v", i, got.Table.Record(i), a.Table.Record(i))
		}
	}
}

func TestImportArtist_Replaces(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if _, err := db.ImportArtist(ctx, testArtist("dua_lipa", 5)); err != nil {
		t.Fatal(err)
	}
	updated := testArtist("dua_lipa", 2)
	updated.Profile.Color = "#000000"
	if _, err := db.ImportArtist(ctx, updated); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadArtist(ctx, "dua_lipa")
	if err != nil {
		t.Fatal(err)
	}
	if got.Table.Len() != 2 {
		t.Errorf("Expected re-import to replace facts, got %d records", got.Table.Len())
	}
	if got.Profile.Color != "#000000" {
		t.Errorf("Expected updated color, got %s", got.Profile.Color)
	}
}

func TestListArtistsAndLoadAll(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	for _, id := range []string{"the_weeknd", "bad_bunny"} {
		if _, err := db.ImportArtist(ctx, testArtist(id, 4)); err != nil {
			t.Fatal(err)
		}
	}

	infos, err := db.ListArtists(ctx)
	if err != nil {
		t.Fatalf("ListArtists failed: %v", err)
	}
	if len(infos) != 2 || infos[0].Profile.ID != "bad_bunny" || infos[1].Profile.ID != "the_weeknd" {
		t.Fatalf("Unexpected artists: %+v", infos)
	}
	if infos[0].Records != 4 {
		t.Errorf("Expected 4 records, got %d", infos[0].Records)
	}
	if infos[0].ImportedAt.IsZero() {
		t.Error("Expected import time to be set")
	}

	all, err := db.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(all) != 2 || all[1].Table.Len() != 4 {
		t.Errorf("Unexpected LoadAll result: %d artists", len(all))
	}
}

func TestLoadArtist_NotFound(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	_, err := db.LoadArtist(context.Background(), "nobody")
	if !errors.Is(err, ErrArtistNotFound) {
		t.Errorf("Expected ErrArtistNotFound, got %v", err)
	}
}

func TestDeleteArtist(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if _, err := db.ImportArtist(ctx, testArtist("drake", 2)); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteArtist(ctx, "drake"); err != nil {
		t.Fatalf("DeleteArtist failed: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM facts").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("Expected facts to be deleted, %d left", count)
	}
	if err := db.DeleteArtist(ctx, "drake"); !errors.Is(err, ErrArtistNotFound) {
		t.Errorf("Expected ErrArtistNotFound, got %v", err)
	}
}

func TestNormalizeFactDates(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if _, err := db.ImportArtist(ctx, testArtist("drake", 2)); err != nil {
		t.Fatal(err)
	}
	if _, err := db.ExecContext(ctx, "UPDATE facts SET date = date || ' 00:00:00 +0000 UTC'"); err != nil {
		t.Fatal(err)
	}

	n, err := db.NormalizeFactDates(ctx)
	if err != nil {
		t.Fatalf("NormalizeFactDates failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 rows normalized, got %d", n)
	}

	got, err := db.LoadArtist(ctx, "drake")
	if err != nil {
		t.Fatalf("LoadArtist after normalize failed: %v", err)
	}
	if want := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC); !got.Table.Record(1).Date.Equal(want) {
		t.Errorf("Date = %v, want %v", got.Table.Record(1).Date, want)
	}

	if n, _ := db.NormalizeFactDates(ctx); n != 0 {
		t.Errorf("Second pass changed %d rows", n)
	}
}

// Helper to create a test database
func newTestDB(t *testing.T) *DB {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	return db
}

func testArtist(id string, n int) *models.Artist {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	records := make([]models.FactRecord, n)
	for i := range records {
		records[i] = models.FactRecord{
			Date:               start.AddDate(0, 0, i),
			Region:             "USA",
			Track:              "Track",
			Streams:            int64(1000 * (i + 1)),
			Likes:              int64(50 * (i + 1)),
			Shares:             int64(10 * (i + 1)),
			SkipRate:           0.25,
			PlaylistReach:      int64(1500 * (i + 1)),
			CampaignType:       "Playlist Feature",
			PremiumConversions: int64(25 * (i + 1)),
			Revenue:            128.0,
			CostPerAcquisition: 4.5,
			ROI:                0.14,
		}
	}
	return &models.Artist{
		Profile: models.ArtistProfile{ID: id, Name: id, Color: "#FFFFFF", ImageURL: "https://example.com/" + id + ".jpg"},
		Table:   models.NewFactTable(records),
		Source:  id + ".csv",
	}
}
