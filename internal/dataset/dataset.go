package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/tuplegen/internal/tuples"
	"github.com/google/uuid"
)

// Generator kinds.
const (
	KindCategorical = "categorical"
	KindPunchcard   = "punchcard"
	KindParallel    = "parallel"
	KindNested      = "nested"
)

// Table names produced by the builders below.
const (
	TuplesTable     = "tuples"
	CategoriesTable = "categories"
)

// Dataset is a generated relational dataset, independent of the generator that produced it.
type Dataset struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Seed      uint64         `json:"seed"`
	Params    map[string]any `json:"params,omitempty"`
	Tables    []Table        `json:"tables"`
	CreatedAt time.Time      `json:"created_at"`
}

// Table is a named relation of integer columns. The first column is the key.
type Table struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    [][]int  `json:"rows"`
}

// New constructs an empty dataset with a fresh ID.
func New(kind string, seed uint64, params map[string]any) *Dataset {
	return &Dataset{
		ID:        uuid.NewString(),
		Kind:      kind,
		Seed:      seed,
		Params:    params,
		CreatedAt: time.Now().UTC(),
	}
}

// AddCategorical appends the normalized tuples(x,y,zid) and categories(zid,z) tables.
func (d *Dataset) AddCategorical(samples []tuples.NormalizedSample, table []tuples.Category) {
	tup := Table{Name: TuplesTable, Columns: []string{"x", "y", "zid"}, Rows: make([][]int, len(samples))}
	for i, s := range samples {
		tup.Rows[i] = []int{s.X, s.Y, s.ZID}
	}
	cat := Table{Name: CategoriesTable, Columns: []string{"zid", "z"}, Rows: make([][]int, len(table))}
	for i, c := range table {
		cat.Rows[i] = []int{c.ZID, c.Z}
	}
	d.Tables = append(d.Tables, tup, cat)
}

// AddSamples appends a raw tuples(x,y,z) table.
func (d *Dataset) AddSamples(samples []tuples.Sample) {
	tup := Table{Name: TuplesTable, Columns: []string{"x", "y", "z"}, Rows: make([][]int, len(samples))}
	for i, s := range samples {
		tup.Rows[i] = []int{s.X, s.Y, s.Z}
	}
	d.Tables = append(d.Tables, tup)
}

// Table returns the table with the given name.
func (d *Dataset) Table(name string) (*Table, bool) {
	for i := range d.Tables {
		if d.Tables[i].Name == name {
			return &d.Tables[i], true
		}
	}
	return nil, false
}

// RowCounts maps table name to row count.
func (d *Dataset) RowCounts() map[string]int {
	out := make(map[string]int, len(d.Tables))
	for _, t := range d.Tables {
		out[t.Name] = len(t.Rows)
	}
	return out
}

// Validate checks table names and row widths.
func (d *Dataset) Validate() error {
	if d == nil {
		return errors.New("dataset is nil")
	}
	seen := map[string]struct{}{}
	for _, t := range d.Tables {
		if strings.TrimSpace(t.Name) == "" {
			return errors.New("table name is empty")
		}
		if _, ok := seen[t.Name]; ok {
			return fmt.Errorf("duplicate table %q", t.Name)
		}
		seen[t.Name] = struct{}{}
		if len(t.Columns) == 0 {
			return fmt.Errorf("table %q has no columns", t.Name)
		}
		for i, r := range t.Rows {
			if len(r) != len(t.Columns) {
				return fmt.Errorf("table %q row %d: got %d values, want %d", t.Name, i, len(r), len(t.Columns))
			}
		}
	}
	return nil
}

// WriteCSV writes a header line followed by every row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(t.Columns))
	for i, r := range t.Rows {
		for j := range rec {
			rec[j] = ""
			if j < len(r) {
				rec[j] = strconv.Itoa(r[j])
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
