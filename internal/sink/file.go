package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/KaramelBytes/tuplegen/internal/dataset"
	"github.com/KaramelBytes/tuplegen/internal/utils"
)

// CSVSink writes one <table>.csv per table into Dir.
type CSVSink struct {
	Dir string
}

func (CSVSink) Name() string { return NameCSV }

func (s CSVSink) Write(_ context.Context, ds *dataset.Dataset) ([]string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("ensure out dir: %w", err)
	}
	var out []string
	for i := range ds.Tables {
		t := &ds.Tables[i]
		var buf bytes.Buffer
		if err := t.WriteCSV(&buf); err != nil {
			return out, fmt.Errorf("encode %s: %w", t.Name, err)
		}
		path := filepath.Join(dir, t.Name+".csv")
		if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
			return out, fmt.Errorf("write %s: %w", path, err)
		}
		out = append(out, path)
	}
	return out, nil
}

// JSONSink writes the whole dataset as one indented JSON document.
type JSONSink struct {
	Path string
}

func (JSONSink) Name() string { return NameJSON }

func (s JSONSink) Write(_ context.Context, ds *dataset.Dataset) ([]string, error) {
	path := s.Path
	if path == "" {
		path = "dataset.json"
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("ensure json dir: %w", err)
	}
	b, err := utils.PrettyJSON(ds)
	if err != nil {
		return nil, err
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return []string{path}, nil
}

// StdoutSink prints each table as a CSV block under a "# <table>" line,
// with a blank line between blocks. The output as a whole is not a CSV file.
type StdoutSink struct {
	W io.Writer
}

func (StdoutSink) Name() string { return NameStdout }

func (s StdoutSink) Write(_ context.Context, ds *dataset.Dataset) ([]string, error) {
	for i := range ds.Tables {
		t := &ds.Tables[i]
		if i > 0 {
			fmt.Fprintln(s.W)
		}
		fmt.Fprintf(s.W, "# %s\n", t.Name)
		if err := t.WriteCSV(s.W); err != nil {
			return nil, fmt.Errorf("print %s: %w", t.Name, err)
		}
	}
	return []string{"stdout"}, nil
}
