package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/nandanugg/silentzone/module/core/domain"
)

func newTestRepo(t *testing.T) (*ZoneRepo, sqlmock.Sqlmock, time.Time) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ts := time.Unix(1715003456, 0).UTC()
	repo := NewZoneRepo(db)
	repo.now = func() time.Time { return ts }
	return repo, mock, ts
}

func TestSetCurrent_Success(t *testing.T) {
	repo, mock, ts := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO current_zone`).
		WithArgs(1, 10.0, 76.0, "Office", ts).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO zone_history \(latitude, longitude, name, created_at\) VALUES (.+) RETURNING id`).
		WithArgs(10.0, 76.0, "Office", ts).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	rec := &domain.ZoneRecord{Lat: 10.0, Lon: 76.0, Name: "Office"}
	if err := repo.SetCurrent(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID != 7 {
		t.Errorf("expected id 7, got %d", rec.ID)
	}
	if !rec.CreatedAt.Equal(ts) {
		t.Errorf("expected created_at %v, got %v", ts, rec.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSetCurrent_HistoryErrorRollsBack(t *testing.T) {
	repo, mock, ts := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO current_zone`).
		WithArgs(1, 10.0, 76.0, "Office", ts).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO zone_history`).
		WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	err := repo.SetCurrent(context.Background(), &domain.ZoneRecord{Lat: 10.0, Lon: 76.0, Name: "Office"})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSetCurrent_BeginError(t *testing.T) {
	repo, mock, _ := newTestRepo(t)

	mock.ExpectBegin().WillReturnError(sqlmock.ErrCancelled)

	err := repo.SetCurrent(context.Background(), &domain.ZoneRecord{Lat: 1, Lon: 2})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestClearAll_Success(t *testing.T) {
	repo, mock, ts := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE current_zone SET latitude = 0, longitude = 0, name = '', updated_at = (.+) WHERE id = (.+)`).
		WithArgs(ts, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM zone_history`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	if err := repo.ClearAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestClearAll_DeleteError(t *testing.T) {
	repo, mock, ts := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE current_zone`).
		WithArgs(ts, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM zone_history`).
		WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	if err := repo.ClearAll(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetCurrent_Success(t *testing.T) {
	repo, mock, _ := newTestRepo(t)

	rows := sqlmock.NewRows([]string{"latitude", "longitude", "name"}).
		AddRow(10.0, 76.0, "Office")
	mock.ExpectQuery(`SELECT latitude, longitude, name FROM current_zone WHERE id = (.+)`).
		WithArgs(1).
		WillReturnRows(rows)

	z, err := repo.GetCurrent(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if z.Lat != 10.0 || z.Lon != 76.0 || z.Name != "Office" {
		t.Errorf("unexpected zone %+v", z)
	}
}

func TestGetCurrent_NoRowIsUnset(t *testing.T) {
	repo, mock, _ := newTestRepo(t)

	mock.ExpectQuery(`SELECT latitude, longitude, name FROM current_zone`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"latitude", "longitude", "name"}))

	z, err := repo.GetCurrent(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if z.IsSet() {
		t.Errorf("expected unset zone, got %+v", z)
	}
}

func TestGetCurrent_MissingSchema(t *testing.T) {
	repo, mock, _ := newTestRepo(t)

	mock.ExpectQuery(`SELECT latitude, longitude, name FROM current_zone`).
		WithArgs(1).
		WillReturnError(&pq.Error{Code: "42P01"})

	_, err := repo.GetCurrent(context.Background())
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestGetCurrent_QueryError(t *testing.T) {
	repo, mock, _ := newTestRepo(t)

	mock.ExpectQuery(`SELECT latitude, longitude, name FROM current_zone`).
		WithArgs(1).
		WillReturnError(sql.ErrConnDone)

	if _, err := repo.GetCurrent(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestListHistory_Success(t *testing.T) {
	repo, mock, _ := newTestRepo(t)

	ts1 := time.Unix(1715000000, 0)
	ts2 := time.Unix(1715005000, 0)
	rows := sqlmock.NewRows([]string{"id", "latitude", "longitude", "name", "created_at"}).
		AddRow(1, 10.0, 76.0, "Current Location", ts1).
		AddRow(2, 10.5, 76.5, "Map Selected Location", ts2)
	mock.ExpectQuery(`SELECT id, latitude, longitude, name, created_at FROM zone_history ORDER BY id ASC`).
		WillReturnRows(rows)

	results, err := repo.ListHistory(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 records, got %d", len(results))
	}
	if results[0].Name != "Current Location" || results[1].Lat != 10.5 {
		t.Errorf("unexpected records %+v", results)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListHistory_Empty(t *testing.T) {
	repo, mock, _ := newTestRepo(t)

	mock.ExpectQuery(`SELECT id, latitude, longitude, name, created_at FROM zone_history`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "latitude", "longitude", "name", "created_at"}))

	results, err := repo.ListHistory(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected 0 records, got %d", len(results))
	}
}

func TestListHistory_QueryError(t *testing.T) {
	repo, mock, _ := newTestRepo(t)

	mock.ExpectQuery(`SELECT id, latitude, longitude, name, created_at FROM zone_history`).
		WillReturnError(sqlmock.ErrCancelled)

	if _, err := repo.ListHistory(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
