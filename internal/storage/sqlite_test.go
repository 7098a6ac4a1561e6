package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "home", "deep", "scores.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "scores.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveScore("carryover", 300); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	if high, _ := store.HighScore("carryover"); high != 300 {
		t.Errorf("HighScore() after reopen = %d, want 300", high)
	}
}

func TestStoreTopScores(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []int{100, 50, 200} {
		if _, err := store.SaveScore("carryover", s); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("skipcount", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("carryover", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	want := []int{200, 100, 50}
	if len(scores) != len(want) {
		t.Fatalf("TopScores() returned %d entries, want %d", len(scores), len(want))
	}
	for i, w := range want {
		if scores[i].Score != w {
			t.Errorf("scores[%d] = %d, want %d", i, scores[i].Score, w)
		}
		if scores[i].CreatedAt.IsZero() {
			t.Errorf("scores[%d] has no timestamp", i)
		}
	}

	limited, err := store.TopScores("carryover", 2)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("TopScores(limit 2) = %d entries", len(limited))
	}
}

func TestStoreHighScoreAndClear(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("skipcount")
	if err != nil || high != 0 {
		t.Fatalf("HighScore() on empty = %d, %v; want 0, nil", high, err)
	}

	for i := range 20 {
		store.SaveScore("skipcount", i*10)
	}
	if high, _ := store.HighScore("skipcount"); high != 190 {
		t.Errorf("HighScore() = %d, want 190", high)
	}

	all, err := store.AllScores("skipcount")
	if err != nil || len(all) != 20 {
		t.Fatalf("AllScores() = %d entries, %v", len(all), err)
	}

	if err := store.ClearScores("skipcount"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if all, _ := store.AllScores("skipcount"); len(all) != 0 {
		t.Errorf("after ClearScores got %d entries", len(all))
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("carryover", 100)
	store.SaveScore("carryover", 300)
	store.SaveScore("skipcount", 40)

	stats, err := store.GetGameStats("carryover")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.TotalScore != 400 || stats.AvgScore != 200 {
		t.Errorf("GetGameStats() = %+v", stats)
	}

	empty, err := store.GetGameStats("nothing")
	if err != nil || empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("GetGameStats(empty) = %+v, %v", empty, err)
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 || all["skipcount"].HighScore != 40 {
		t.Errorf("GetAllGamesStats() = %v", all)
	}
}
