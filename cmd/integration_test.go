package cmd

import (
	"bytes"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/tuplegen/internal/manifest"
	"github.com/KaramelBytes/tuplegen/internal/sink"
	"github.com/KaramelBytes/tuplegen/internal/tuples"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag in the tree to its default so Changed state does not leak between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns captured stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// runCmd is execute for commands that must succeed.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, err := execute(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\nstderr: %s", args, err, errOut)
	}
	return out
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestCLI_GenerateCategoricalCSVAndRuns(t *testing.T) {
	home := isolateHome(t)
	outDir := filepath.Join(home, "out")

	runCmd(t, "generate", "categorical", "-n", "5", "--seed", "10",
		"--y-high", "10", "--z-high", "3", "--sink", "csv", "--out-dir", outDir)

	b, err := os.ReadFile(filepath.Join(outDir, "tuples.csv"))
	if err != nil {
		t.Fatalf("read tuples.csv: %v", err)
	}
	if got, want := string(b), "x,y,zid\n0,5,0\n1,1,0\n2,0,1\n3,2,2\n4,5,0\n"; got != want {
		t.Fatalf("tuples.csv mismatch:\n%s\nwant:\n%s", got, want)
	}
	b, err = os.ReadFile(filepath.Join(outDir, "categories.csv"))
	if err != nil {
		t.Fatalf("read categories.csv: %v", err)
	}
	if got, want := string(b), "zid,z\n0,2\n1,1\n2,0\n"; got != want {
		t.Fatalf("categories.csv mismatch:\n%s\nwant:\n%s", got, want)
	}

	runs, err := manifest.List(filepath.Join(home, ".tuplegen", "runs"))
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected one recorded run, got %d (err=%v)", len(runs), err)
	}
	m := runs[0]
	if m.Kind != "categorical" || m.Seed != 10 || m.Rows["tuples"] != 5 || m.Rows["categories"] != 3 {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if len(m.Outputs) != 1 || m.Outputs[0].Sink != "csv" {
		t.Fatalf("unexpected outputs: %+v", m.Outputs)
	}

	list := runCmd(t, "runs", "list")
	if !strings.Contains(list, m.ID) || !strings.Contains(list, "categories:3,tuples:5") {
		t.Fatalf("runs list missing run: %q", list)
	}
	show := runCmd(t, "runs", "show", m.ID)
	if !strings.Contains(show, `"kind": "categorical"`) || !strings.Contains(show, `"sink": "csv"`) {
		t.Fatalf("runs show output unexpected: %q", show)
	}
}

func TestCLI_GenerateDefaultsToStdout(t *testing.T) {
	isolateHome(t)
	out := runCmd(t, "generate", "categorical", "-n", "5", "--seed", "10",
		"--y-high", "10", "--z-high", "3", "--no-manifest")
	want := "# tuples\nx,y,zid\n0,5,0\n1,1,0\n2,0,1\n3,2,2\n4,5,0\n\n# categories\nzid,z\n0,2\n1,1\n2,0\n"
	if out != want {
		t.Fatalf("stdout mismatch:\n%q\nwant:\n%q", out, want)
	}
}

func TestCLI_GenerateUsesConfigSeedAndCount(t *testing.T) {
	isolateHome(t)
	runCmd(t, "config", "set", "seed", "10")
	runCmd(t, "config", "set", "count", "5")
	out := runCmd(t, "generate", "categorical", "--y-high", "10", "--z-high", "3", "--no-manifest")
	if !strings.HasPrefix(out, "# tuples\nx,y,zid\n0,5,0\n1,1,0\n2,0,1\n3,2,2\n4,5,0\n") {
		t.Fatalf("config seed/count not applied: %q", out)
	}
}

func TestCLI_GenerateInvalidRange(t *testing.T) {
	isolateHome(t)
	_, _, err := execute(t, "generate", "categorical", "--y-low", "5", "--y-high", "1", "--no-manifest")
	if !errors.Is(err, tuples.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	_, _, err = execute(t, "generate", "categorical", "-n", "-1", "--no-manifest")
	if !errors.Is(err, tuples.ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount, got %v", err)
	}
}

func TestCLI_GenerateUnknownSink(t *testing.T) {
	isolateHome(t)
	_, _, err := execute(t, "generate", "categorical", "--sink", "kafka")
	if !errors.Is(err, sink.ErrUnknownSink) {
		t.Fatalf("expected ErrUnknownSink, got %v", err)
	}
}

func TestCLI_GenerateSQLiteSink(t *testing.T) {
	home := isolateHome(t)
	dbPath := filepath.Join(home, "data", "demo.db")
	runCmd(t, "config", "set", "sqlite_path", dbPath)
	runCmd(t, "config", "set", "table_prefix", "demo_")

	_, errOut, err := execute(t, "generate", "categorical", "-n", "20", "--sink", "sqlite", "--no-manifest")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(errOut, "✓ Wrote sqlite") {
		t.Fatalf("missing status line: %q", errOut)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "demo_tuples"`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 20 {
		t.Fatalf("expected 20 rows, got %d", n)
	}
	var orphans int
	q := `SELECT COUNT(*) FROM "demo_tuples" t LEFT JOIN "demo_categories" c ON t.zid = c.zid WHERE c.zid IS NULL`
	if err := db.QueryRow(q).Scan(&orphans); err != nil {
		t.Fatalf("join: %v", err)
	}
	if orphans != 0 {
		t.Fatalf("expected every zid to resolve, got %d orphans", orphans)
	}
}

func TestCLI_GenerateSiblingsToJSON(t *testing.T) {
	home := isolateHome(t)
	cases := [][]string{
		{"generate", "punchcard", "-n", "7"},
		{"generate", "parallel", "-n", "7"},
		{"generate", "nested", "-n", "7", "--y-values", "1, 2,3"},
	}
	for _, args := range cases {
		p := filepath.Join(home, args[1]+".json")
		runCmd(t, append(args, "--sink", "json", "--json-path", p, "--no-manifest")...)
		b, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("%s: read json: %v", args[1], err)
		}
		if !strings.Contains(string(b), `"kind": "`+args[1]+`"`) {
			t.Fatalf("%s: unexpected json: %s", args[1], b)
		}
	}

	_, _, err := execute(t, "generate", "nested", "--y-values", "1,x", "--no-manifest")
	if err == nil || !strings.Contains(err.Error(), "--y-values") {
		t.Fatalf("expected --y-values parse error, got %v", err)
	}
	_, _, err = execute(t, "generate", "punchcard", "--y-step", "0", "--no-manifest")
	if !errors.Is(err, tuples.ErrInvalidStep) {
		t.Fatalf("expected ErrInvalidStep, got %v", err)
	}
}

func TestCLI_SummaryAndMetricsFile(t *testing.T) {
	home := isolateHome(t)
	metricsPath := filepath.Join(home, "tuplegen.prom")
	out := runCmd(t, "generate", "categorical", "-n", "30", "--sink", "json",
		"--out-dir", filepath.Join(home, "out"), "--summary", "--metrics-file", metricsPath, "--no-manifest")
	for _, want := range []string{"[DATASET SUMMARY]", "[CATEGORY FREQUENCIES]", "[HEAD ROWS tuples]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(filepath.Join(home, "out", "dataset.json")); err != nil {
		t.Fatalf("json sink default path: %v", err)
	}
	b, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	for _, want := range []string{
		`tuplegen_rows_generated_total{kind="categorical",table="tuples"} 30`,
		`tuplegen_sink_writes_total{result="ok",sink="json"} 1`,
	} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("metrics missing %q:\n%s", want, b)
		}
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	isolateHome(t)
	runCmd(t, "config", "set", "sinks", "CSV, json,csv")
	runCmd(t, "config", "set", "postgres_dsn", "postgres://u:secret@db/tuples")
	out := runCmd(t, "--debug", "config", "show")
	if !strings.Contains(out, "sinks: csv,json") {
		t.Fatalf("sinks not saved: %q", out)
	}
	if strings.Contains(out, "secret") {
		t.Fatalf("dsn not masked: %q", out)
	}
	if _, _, err := execute(t, "config", "set", "sinks", "kafka"); !errors.Is(err, sink.ErrUnknownSink) {
		t.Fatalf("expected ErrUnknownSink, got %v", err)
	}
	if _, _, err := execute(t, "config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestCLI_ConfigSetDoesNotPersistEnvOverrides(t *testing.T) {
	home := isolateHome(t)
	t.Setenv("TUPLEGEN_COUNT", "7")
	runCmd(t, "config", "set", "seed", "3")

	b, err := os.ReadFile(filepath.Join(home, ".tuplegen", "config.yaml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	body := string(b)
	for _, want := range []string{"seed: 3\n", "count: 50\n", "runs_dir: \"\"\n"} {
		if !strings.Contains(body, want) {
			t.Fatalf("config file missing %q:\n%s", want, body)
		}
	}
	// the env override still applies at load time
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "count: 7\n") {
		t.Fatalf("env override lost: %q", out)
	}
}
