package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nandanugg/silentzone/module/core/domain"
	"github.com/nandanugg/silentzone/module/core/internal/repository/database"
)

var _ database.ZoneRepository = (*ZoneRepo)(nil)

const currentZoneID = 1

type ZoneRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewZoneRepo(db *sql.DB) *ZoneRepo {
	return &ZoneRepo{db: db, now: time.Now}
}

func (r *ZoneRepo) SetCurrent(ctx context.Context, rec *domain.ZoneRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now().UTC()
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO current_zone (id, latitude, longitude, name, updated_at) VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO UPDATE SET latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude, name = EXCLUDED.name, updated_at = EXCLUDED.updated_at`,
			currentZoneID, rec.Lat, rec.Lon, rec.Name, rec.CreatedAt,
		); err != nil {
			return fmt.Errorf("upsert current zone: %w", err)
		}

		row := tx.QueryRowContext(ctx,
			`INSERT INTO zone_history (latitude, longitude, name, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
			rec.Lat, rec.Lon, rec.Name, rec.CreatedAt,
		)
		if err := row.Scan(&rec.ID); err != nil {
			return fmt.Errorf("append zone history: %w", err)
		}
		return nil
	})
}

func (r *ZoneRepo) ClearAll(ctx context.Context) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE current_zone SET latitude = 0, longitude = 0, name = '', updated_at = $1 WHERE id = $2`,
			r.now().UTC(), currentZoneID,
		); err != nil {
			return fmt.Errorf("reset current zone: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM zone_history`); err != nil {
			return fmt.Errorf("delete zone history: %w", err)
		}
		return nil
	})
}

func (r *ZoneRepo) GetCurrent(ctx context.Context) (domain.Zone, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT latitude, longitude, name FROM current_zone WHERE id = $1`,
		currentZoneID,
	)

	var z domain.Zone
	if err := row.Scan(&z.Lat, &z.Lon, &z.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Zone{}, nil
		}
		if isUndefinedTable(err) {
			return domain.Zone{}, fmt.Errorf("%w: schema missing", domain.ErrStoreUnavailable)
		}
		return domain.Zone{}, err
	}
	return z, nil
}

func (r *ZoneRepo) ListHistory(ctx context.Context) ([]domain.ZoneRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, latitude, longitude, name, created_at FROM zone_history ORDER BY id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.ZoneRecord
	for rows.Next() {
		var rec domain.ZoneRecord
		if err := rows.Scan(&rec.ID, &rec.Lat, &rec.Lon, &rec.Name, &rec.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}
