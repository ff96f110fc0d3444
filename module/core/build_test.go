package core

import (
	"testing"

	"github.com/nandanugg/silentzone/module/core/internal/repository/database/memory"
	"github.com/nandanugg/silentzone/module/core/internal/repository/database/postgres"
	"github.com/nandanugg/silentzone/module/core/internal/repository/database/sqlite"
)

func TestNewZoneRepository(t *testing.T) {
	tests := []struct {
		driver string
		check  func(t *testing.T, repo any)
	}{
		{"postgres", func(t *testing.T, repo any) {
			if _, ok := repo.(*postgres.ZoneRepo); !ok {
				t.Errorf("expected *postgres.ZoneRepo, got %T", repo)
			}
		}},
		{"sqlite", func(t *testing.T, repo any) {
			if _, ok := repo.(*sqlite.ZoneRepo); !ok {
				t.Errorf("expected *sqlite.ZoneRepo, got %T", repo)
			}
		}},
		{"memory", func(t *testing.T, repo any) {
			if _, ok := repo.(*memory.ZoneRepo); !ok {
				t.Errorf("expected *memory.ZoneRepo, got %T", repo)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			repo, err := newZoneRepository(tt.driver, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, repo)
		})
	}
}

func TestNewZoneRepository_UnknownDriver(t *testing.T) {
	if _, err := newZoneRepository("redis", nil); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
