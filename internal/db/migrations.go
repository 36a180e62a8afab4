package db

import (
	"context"
	"fmt"
)

// NormalizeFactDates rewrites fact dates stored with a time component or a
// zone suffix ("2023-01-01 00:00:00 +0000 UTC") to the plain YYYY-MM-DD
// form the loader expects. It returns the number of rows changed.
func (db *DB) NormalizeFactDates(ctx context.Context) (int64, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE facts
		SET date = SUBSTR(date, 1, 10)
		WHERE length(date) > 10`)
	if err != nil {
		return 0, fmt.Errorf("failed to normalize fact dates: %w", err)
	}
	return res.RowsAffected()
}
