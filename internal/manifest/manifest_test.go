package manifest_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KaramelBytes/tuplegen/internal/dataset"
	"github.com/KaramelBytes/tuplegen/internal/manifest"
	"github.com/KaramelBytes/tuplegen/internal/tuples"
)

func TestSaveLoadAndList(t *testing.T) {
	dir := t.TempDir()

	older := dataset.New(dataset.KindNested, 1, nil)
	older.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older.AddSamples([]tuples.Sample{{X: 0, Y: 100, Z: 3}})

	newer := dataset.New(dataset.KindCategorical, 2, map[string]any{"count": 1})
	newer.CreatedAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	newer.AddCategorical([]tuples.NormalizedSample{{X: 0, Y: 1, ZID: 0}}, []tuples.Category{{ZID: 0, Z: 9}})

	for _, ds := range []*dataset.Dataset{older, newer} {
		m := manifest.FromDataset(ds)
		m.AddOutput("csv", []string{"out/tuples.csv"})
		if _, err := m.Save(dir); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	// stray files are ignored
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := manifest.Load(dir, newer.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Kind != dataset.KindCategorical || got.Seed != 2 {
		t.Fatalf("unexpected manifest: %+v", got)
	}
	if got.Rows["tuples"] != 1 || got.Rows["categories"] != 1 {
		t.Fatalf("unexpected rows: %v", got.Rows)
	}
	if len(got.Outputs) != 1 || got.Outputs[0].Sink != "csv" {
		t.Fatalf("unexpected outputs: %v", got.Outputs)
	}

	all, err := manifest.List(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != newer.ID || all[1].ID != older.ID {
		t.Fatalf("expected newest first, got %v", all)
	}
}

func TestLoadRejectsBadID(t *testing.T) {
	if _, err := manifest.Load(t.TempDir(), "../etc/passwd"); err == nil {
		t.Fatalf("expected error for non-uuid id")
	}
}

func TestListMissingDir(t *testing.T) {
	all, err := manifest.List(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no manifests, got %d", len(all))
	}
}
