package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "highscore"))

	score, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if score != 0 {
		t.Errorf("Load() = %d, expected 0", score)
	}
}

func TestFileStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highscore")
	s := NewFileStore(path)

	if err := s.Save(42); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := s.Save(57); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// A fresh store reads what the first one wrote
	score, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if score != 57 {
		t.Errorf("Load() = %d, expected 57", score)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the score file, found %d entries", len(entries))
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highscore")
	if err := os.WriteFile(path, []byte("not a number"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileStore(path).Load(); err == nil {
		t.Error("expected error for corrupt score file")
	}
}

func TestFileStoreReset(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "highscore"))
	if err := s.Save(10); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	// Resetting twice is fine
	if err := s.Reset(); err != nil {
		t.Fatalf("second Reset() error: %v", err)
	}
	if score, _ := s.Load(); score != 0 {
		t.Errorf("Load() after Reset = %d, expected 0", score)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "starfall.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	defer s.Close()

	score, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if score != 0 {
		t.Errorf("Load() on empty db = %d, expected 0", score)
	}

	for _, v := range []int{5, 12, 9} {
		if err := s.Save(v); err != nil {
			t.Fatalf("Save(%d) error: %v", v, err)
		}
	}
	if score, _ := s.Load(); score != 12 {
		t.Errorf("Load() = %d, expected 12", score)
	}
}

func TestSQLiteSaveKeepsOneRowPerRecord(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "starfall.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	defer s.Close()

	for _, v := range []int{3, 6, 6, 4, 9} {
		if err := s.Save(v); err != nil {
			t.Fatalf("Save(%d) error: %v", v, err)
		}
	}

	var rows int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM high_scores").Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != 3 {
		t.Errorf("high_scores rows = %d, expected 3", rows)
	}
	if score, _ := s.Load(); score != 9 {
		t.Errorf("Load() = %d, expected 9", score)
	}
}

func TestSQLiteRuns(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "starfall.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	defer s.Close()

	for _, v := range []int{3, 30, 7, 30} {
		if err := s.RecordRun(v); err != nil {
			t.Fatalf("RecordRun(%d) error: %v", v, err)
		}
	}

	runs, err := s.TopRuns(3)
	if err != nil {
		t.Fatalf("TopRuns() error: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	expected := []int{30, 30, 7}
	for i, r := range runs {
		if r.Score != expected[i] {
			t.Errorf("runs[%d].Score = %d, expected %d", i, r.Score, expected[i])
		}
	}
	if runs[0].ID > runs[1].ID {
		t.Error("ties should list the earlier run first")
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	runs, _ = s.TopRuns(10)
	if len(runs) != 0 {
		t.Errorf("expected no runs after Reset, got %d", len(runs))
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		path   string
		sqlite bool
	}{
		{name: "db extension", path: filepath.Join(dir, "a.db"), sqlite: true},
		{name: "sqlite extension", path: filepath.Join(dir, "b.SQLITE"), sqlite: true},
		{name: "plain file", path: filepath.Join(dir, "nested", "highscore"), sqlite: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.path)
			if err != nil {
				t.Fatalf("Open() error: %v", err)
			}
			defer s.Close()

			_, isSQLite := s.(*SQLiteStore)
			if isSQLite != tt.sqlite {
				t.Errorf("Open(%q) sqlite = %v, expected %v", tt.path, isSQLite, tt.sqlite)
			}
			if err := s.Save(1); err != nil {
				t.Errorf("Save() error: %v", err)
			}
		})
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestSharedNeverLowersHighScore(t *testing.T) {
	shared := NewShared(NewFileStore(filepath.Join(t.TempDir(), "highscore")))

	tests := []struct {
		save int
		want int
	}{
		{save: 10, want: 10},
		{save: 7, want: 10},
		{save: 10, want: 10},
		{save: 15, want: 15},
	}
	for _, tt := range tests {
		if err := shared.Save(tt.save); err != nil {
			t.Fatalf("Save(%d) error: %v", tt.save, err)
		}
		if got, _ := shared.Load(); got != tt.want {
			t.Errorf("after Save(%d) Load() = %d, expected %d", tt.save, got, tt.want)
		}
	}
}

func TestSharedConcurrentSaves(t *testing.T) {
	shared := NewShared(NewFileStore(filepath.Join(t.TempDir(), "highscore")))

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			if err := shared.Save(score); err != nil {
				t.Errorf("Save(%d) error: %v", score, err)
			}
		}(i)
	}
	wg.Wait()

	if got, _ := shared.Load(); got != 50 {
		t.Errorf("Load() = %d, expected 50", got)
	}
}

func TestSharedRunHistory(t *testing.T) {
	dir := t.TempDir()

	plain := NewShared(NewFileStore(filepath.Join(dir, "highscore")))
	if err := plain.RecordRun(4); err != nil {
		t.Errorf("RecordRun() on file store error: %v", err)
	}
	if runs, err := plain.TopRuns(5); err != nil || runs != nil {
		t.Errorf("TopRuns() on file store = %v, %v, expected nil, nil", runs, err)
	}

	db, err := OpenSQLite(filepath.Join(dir, "starfall.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	shared := NewShared(db)
	defer shared.Close()

	if err := shared.RecordRun(4); err != nil {
		t.Fatalf("RecordRun() error: %v", err)
	}
	runs, err := shared.TopRuns(5)
	if err != nil {
		t.Fatalf("TopRuns() error: %v", err)
	}
	if len(runs) != 1 || runs[0].Score != 4 {
		t.Errorf("TopRuns() = %v, expected one run with score 4", runs)
	}
}
