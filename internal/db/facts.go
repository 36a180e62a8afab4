package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/zai-dashboard-tui/internal/logger"
	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

// ErrArtistNotFound is returned when no artist has the requested ID.
var ErrArtistNotFound = errors.New("artist not found")

// ArtistInfo is an artists row together with its record count.
type ArtistInfo struct {
	Profile    models.ArtistProfile
	Source     string
	Records    int
	ImportedAt time.Time
}

// ImportArtist replaces the stored fact table of an artist with a.Table.
// It returns the number of records written.
func (db *DB) ImportArtist(ctx context.Context, a *models.Artist) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO artists (id, name, color, image_url, source, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			color = excluded.color,
			image_url = excluded.image_url,
			source = excluded.source,
			imported_at = excluded.imported_at
	`,
		a.Profile.ID,
		a.Profile.Name,
		a.Profile.Color,
		a.Profile.ImageURL,
		nullString(a.Source),
		time.Now().UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert artist %s: %w", a.Profile.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM facts WHERE artist_id = ?", a.Profile.ID); err != nil {
		return 0, fmt.Errorf("failed to clear facts for %s: %w", a.Profile.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO facts (
			artist_id, date, region, track, streams, likes, shares, skip_rate,
			playlist_reach, campaign_type, premium_conversions, revenue,
			cost_per_acquisition, roi
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare fact insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	t := a.Table
	for i := 0; i < t.Len(); i++ {
		_, err := stmt.ExecContext(ctx,
			a.Profile.ID,
			t.Date[i].Format(time.DateOnly),
			t.Region[i],
			t.Track[i],
			t.Streams[i],
			t.Likes[i],
			t.Shares[i],
			t.SkipRate[i],
			t.PlaylistReach[i],
			t.CampaignType[i],
			t.PremiumConversions[i],
			t.Revenue[i],
			t.CostPerAcquisition[i],
			t.ROI[i],
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert fact %d for %s: %w", i+1, a.Profile.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	logger.Debug("Imported artist", "id", a.Profile.ID, "records", t.Len())
	return t.Len(), nil
}

// ListArtists returns every stored artist ordered by ID.
func (db *DB) ListArtists(ctx context.Context) ([]ArtistInfo, error) {
	query := `
		SELECT a.id, a.name, a.color, a.image_url, a.source, a.imported_at,
			(SELECT COUNT(*) FROM facts f WHERE f.artist_id = a.id)
		FROM artists a
		ORDER BY a.id
	`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ArtistInfo
	for rows.Next() {
		var (
			info       ArtistInfo
			source     sql.NullString
			importedAt sql.NullString
		)
		err := rows.Scan(
			&info.Profile.ID,
			&info.Profile.Name,
			&info.Profile.Color,
			&info.Profile.ImageURL,
			&source,
			&importedAt,
			&info.Records,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}
		info.Source = source.String
		if importedAt.Valid {
			info.ImportedAt = parseDBTime(importedAt.String)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// LoadArtist materializes the fact table of one artist.
func (db *DB) LoadArtist(ctx context.Context, id string) (*models.Artist, error) {
	a := &models.Artist{Source: db.path}
	err := db.QueryRowContext(ctx,
		"SELECT id, name, color, image_url FROM artists WHERE id = ?", id,
	).Scan(&a.Profile.ID, &a.Profile.Name, &a.Profile.Color, &a.Profile.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrArtistNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query artist %s: %w", id, err)
	}

	table, err := db.loadFacts(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Table = table
	return a, nil
}

// LoadAll materializes every stored artist, ordered by ID.
func (db *DB) LoadAll(ctx context.Context) ([]*models.Artist, error) {
	infos, err := db.ListArtists(ctx)
	if err != nil {
		return nil, err
	}
	artists := make([]*models.Artist, 0, len(infos))
	for _, info := range infos {
		a, err := db.LoadArtist(ctx, info.Profile.ID)
		if err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}
	return artists, nil
}

// DeleteArtist removes an artist and its facts.
func (db *DB) DeleteArtist(ctx context.Context, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Pragmas apply per connection, so the cascade is not relied upon.
	if _, err := tx.ExecContext(ctx, "DELETE FROM facts WHERE artist_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete facts for %s: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM artists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete artist %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrArtistNotFound, id)
	}
	return tx.Commit()
}

func (db *DB) loadFacts(ctx context.Context, id string) (*models.FactTable, error) {
	query := `
		SELECT date, region, track, streams, likes, shares, skip_rate,
			playlist_reach, campaign_type, premium_conversions, revenue,
			cost_per_acquisition, roi
		FROM facts
		WHERE artist_id = ?
		ORDER BY id
	`
	rows, err := db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query facts for %s: %w", id, err)
	}
	defer func() { _ = rows.Close() }()

	table := &models.FactTable{}
	for rows.Next() {
		var (
			r    models.FactRecord
			date string
		)
		err := rows.Scan(
			&date,
			&r.Region,
			&r.Track,
			&r.Streams,
			&r.Likes,
			&r.Shares,
			&r.SkipRate,
			&r.PlaylistReach,
			&r.CampaignType,
			&r.PremiumConversions,
			&r.Revenue,
			&r.CostPerAcquisition,
			&r.ROI,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		r.Date, err = time.Parse(time.DateOnly, date)
		if err != nil {
			return nil, fmt.Errorf("invalid fact date %q for %s: %w", date, id, err)
		}
		table.Append(r)
	}
	return table, rows.Err()
}

func parseDBTime(s string) time.Time {
	for _, layout := range []string{time.DateTime, time.RFC3339, "2006-01-02 15:04:05 -0700 MST"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
