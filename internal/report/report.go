package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/tuplegen/internal/dataset"
)

// Options controls how much detail a summary carries.
type Options struct {
	// SampleRows determines how many head rows per table to include.
	SampleRows int
	// TopCategories limits the category frequency list; 0 means all.
	TopCategories int
}

// DefaultOptions returns reasonable defaults for dataset summaries.
func DefaultOptions() Options {
	return Options{SampleRows: 5, TopCategories: 8}
}

// Report is a markdown-friendly summary of a generated dataset.
type Report struct {
	ID         string
	Kind       string
	Seed       uint64
	Tables     []TableSummary
	Categories []CategoryCount
	Warnings   []string
}

// TableSummary captures per-column statistics for one table.
type TableSummary struct {
	Name    string
	Rows    int
	Cols    []ColumnSummary
	Samples [][]int
}

// ColumnSummary holds numeric statistics for one integer column.
type ColumnSummary struct {
	Name   string
	Count  int
	Unique int
	Min    int
	Max    int
	Mean   float64
	Std    float64
}

// CategoryCount is how often a category id occurs in the tuples table.
type CategoryCount struct {
	ZID   int
	Z     int
	Count int
}

// Summarize computes a Report for ds.
func Summarize(ds *dataset.Dataset, opt Options) (*Report, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	sampleRows := opt.SampleRows
	if sampleRows < 0 {
		sampleRows = 0
	}
	rep := &Report{ID: ds.ID, Kind: ds.Kind, Seed: ds.Seed}
	for _, t := range ds.Tables {
		rep.Tables = append(rep.Tables, summarizeTable(t, sampleRows))
		if len(t.Rows) == 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("table %s is empty", t.Name))
		}
	}
	rep.Categories = categoryCounts(ds, opt.TopCategories)
	return rep, nil
}

func summarizeTable(t dataset.Table, sampleRows int) TableSummary {
	// Per-column accumulators, Welford for mean and variance
	type colAcc struct {
		n        int
		mean, m2 float64
		min, max int
		seen     map[int]struct{}
	}
	accs := make([]*colAcc, len(t.Columns))
	for i := range accs {
		accs[i] = &colAcc{min: math.MaxInt, max: math.MinInt, seen: map[int]struct{}{}}
	}
	ts := TableSummary{Name: t.Name, Rows: len(t.Rows)}
	for _, row := range t.Rows {
		if len(ts.Samples) < sampleRows {
			ts.Samples = append(ts.Samples, append([]int(nil), row...))
		}
		for j, v := range row {
			c := accs[j]
			c.n++
			if v < c.min {
				c.min = v
			}
			if v > c.max {
				c.max = v
			}
			x := float64(v)
			delta := x - c.mean
			c.mean += delta / float64(c.n)
			c.m2 += delta * (x - c.mean)
			c.seen[v] = struct{}{}
		}
	}
	for j, name := range t.Columns {
		c := accs[j]
		s := ColumnSummary{Name: name, Count: c.n, Unique: len(c.seen)}
		if c.n > 0 {
			s.Min, s.Max, s.Mean = c.min, c.max, c.mean
		}
		if c.n > 1 {
			s.Std = math.Sqrt(c.m2 / float64(c.n-1))
		}
		ts.Cols = append(ts.Cols, s)
	}
	return ts
}

// categoryCounts joins tuples.zid against categories.z. Datasets without a
// category table yield nil.
func categoryCounts(ds *dataset.Dataset, limit int) []CategoryCount {
	cats, ok := ds.Table(dataset.CategoriesTable)
	if !ok {
		return nil
	}
	tup, ok := ds.Table(dataset.TuplesTable)
	if !ok {
		return nil
	}
	zidCol := columnIndex(tup.Columns, "zid")
	if zidCol < 0 {
		return nil
	}
	counts := make(map[int]int, len(cats.Rows))
	for _, row := range tup.Rows {
		counts[row[zidCol]]++
	}
	out := make([]CategoryCount, 0, len(cats.Rows))
	for _, row := range cats.Rows {
		out = append(out, CategoryCount{ZID: row[0], Z: row[1], Count: counts[row[0]]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].ZID < out[j].ZID
		}
		return out[i].Count > out[j].Count
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func columnIndex(cols []string, name string) int {
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	return -1
}

// Markdown renders a compact report for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.ID != "" {
		b.WriteString(fmt.Sprintf("Run: %s\n", r.ID))
	}
	b.WriteString(fmt.Sprintf("Kind: %s\n", r.Kind))
	b.WriteString(fmt.Sprintf("Seed: %d\n", r.Seed))
	b.WriteString(fmt.Sprintf("Tables: %d\n", len(r.Tables)))

	for _, t := range r.Tables {
		b.WriteString(fmt.Sprintf("\n[SCHEMA %s] rows=%d\n", t.Name, t.Rows))
		for _, c := range t.Cols {
			if c.Count == 0 {
				b.WriteString(fmt.Sprintf("- %s: (no values)\n", c.Name))
				continue
			}
			b.WriteString(fmt.Sprintf("- %s: min %d, max %d, mean %.4g, std %.4g, unique %d\n", c.Name, c.Min, c.Max, c.Mean, c.Std, c.Unique))
		}
	}
	if len(r.Categories) > 0 {
		b.WriteString("\n[CATEGORY FREQUENCIES]\n")
		for _, c := range r.Categories {
			b.WriteString(fmt.Sprintf("- zid %d (z=%d): %d\n", c.ZID, c.Z, c.Count))
		}
	}
	for _, t := range r.Tables {
		if len(t.Samples) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("\n[HEAD ROWS %s]\n", t.Name))
		b.WriteString("| ")
		for i, c := range t.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(c.Name)
		}
		b.WriteString(" |\n| ")
		for i := range t.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range t.Samples {
			b.WriteString("| ")
			for i, v := range row {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(fmt.Sprintf("%d", v))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}
