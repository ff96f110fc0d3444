package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nandanugg/silentzone/module/core/domain"
	"github.com/nandanugg/silentzone/module/core/internal/repository/database"
)

var _ database.ZoneRepository = (*ZoneRepo)(nil)

const currentZoneID = 1

// ZoneRepo stores zones in an embedded SQLite file. Timestamps are kept as
// unix milliseconds.
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
	millis := rec.CreatedAt.UnixMilli()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO current_zone (id, latitude, longitude, name, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET latitude = excluded.latitude, longitude = excluded.longitude, name = excluded.name, updated_at = excluded.updated_at`,
		currentZoneID, rec.Lat, rec.Lon, rec.Name, millis,
	); err != nil {
		return fmt.Errorf("upsert current zone: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO zone_history (latitude, longitude, name, created_at) VALUES (?, ?, ?, ?)`,
		rec.Lat, rec.Lon, rec.Name, millis,
	)
	if err != nil {
		return fmt.Errorf("append zone history: %w", err)
	}
	if rec.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("history id: %w", err)
	}
	return tx.Commit()
}

func (r *ZoneRepo) ClearAll(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE current_zone SET latitude = 0, longitude = 0, name = '', updated_at = ? WHERE id = ?`,
		r.now().UnixMilli(), currentZoneID,
	); err != nil {
		return fmt.Errorf("reset current zone: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM zone_history`); err != nil {
		return fmt.Errorf("delete zone history: %w", err)
	}
	return tx.Commit()
}

func (r *ZoneRepo) GetCurrent(ctx context.Context) (domain.Zone, error) {
	var z domain.Zone
	err := r.db.QueryRowContext(ctx,
		`SELECT latitude, longitude, name FROM current_zone WHERE id = ?`,
		currentZoneID,
	).Scan(&z.Lat, &z.Lon, &z.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Zone{}, nil
	}
	if err != nil {
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
		var (
			rec    domain.ZoneRecord
			millis int64
		)
		if err := rows.Scan(&rec.ID, &rec.Lat, &rec.Lon, &rec.Name, &millis); err != nil {
			return nil, err
		}
		rec.CreatedAt = time.UnixMilli(millis).UTC()
		results = append(results, rec)
	}
	return results, rows.Err()
}
