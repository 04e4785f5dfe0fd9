package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/tuplegen/internal/dataset"
	"github.com/KaramelBytes/tuplegen/internal/utils"
	"github.com/google/uuid"
)

const fileExt = ".json"

// Manifest records one generate run: what was generated and where it went.
type Manifest struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Seed      uint64         `json:"seed"`
	Params    map[string]any `json:"params,omitempty"`
	Rows      map[string]int `json:"rows"`
	Outputs   []Output       `json:"outputs"`
	CreatedAt time.Time      `json:"created_at"`
}

// Output lists the locations a sink reported for a run.
type Output struct {
	Sink      string   `json:"sink"`
	Locations []string `json:"locations"`
}

// FromDataset builds a manifest sharing the dataset's id and parameters.
func FromDataset(ds *dataset.Dataset) *Manifest {
	return &Manifest{
		ID:        ds.ID,
		Kind:      ds.Kind,
		Seed:      ds.Seed,
		Params:    ds.Params,
		Rows:      ds.RowCounts(),
		CreatedAt: ds.CreatedAt,
	}
}

// AddOutput appends a sink result.
func (m *Manifest) AddOutput(sink string, locations []string) {
	m.Outputs = append(m.Outputs, Output{Sink: sink, Locations: locations})
}

// Save writes <dir>/<id>.json using atomic write.
func (m *Manifest) Save(dir string) (string, error) {
	if _, err := uuid.Parse(m.ID); err != nil {
		return "", fmt.Errorf("invalid manifest id %q: %w", m.ID, err)
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("ensure dir: %w", err)
	}
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, m.ID+fileExt)
	if err := utils.SafeWriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads the manifest with the given id from dir.
func Load(dir, id string) (*Manifest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", id, err)
	}
	path := filepath.Join(dir, id+fileExt)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("run not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// List returns every manifest in dir, newest first. A missing dir is empty.
func List(dir string) ([]*Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read runs dir: %w", err)
	}
	var out []*Manifest
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		m, err := Load(dir, strings.TrimSuffix(name, fileExt))
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
