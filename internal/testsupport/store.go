package testsupport

import (
	"context"
	"testing"

	"dynastysync/internal/config"
	"dynastysync/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewSeason creates a dynasty for teamName and its season for year.
func NewSeason(t testing.TB, st *store.Store, teamName string, year int) (*store.Dynasty, *store.Season) {
	t.Helper()

	ctx := context.Background()
	dynasty, err := st.CreateDynasty(ctx, teamName+" Dynasty", teamName, year)
	if err != nil {
		t.Fatalf("CreateDynasty: %v", err)
	}
	season, err := st.CreateSeason(ctx, dynasty.ID, year)
	if err != nil {
		t.Fatalf("CreateSeason: %v", err)
	}
	return dynasty, season
}
