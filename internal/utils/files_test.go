package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFileReplacesContent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "out.csv")
	if err := SafeWriteFile(p, []byte("a")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := SafeWriteFile(p, []byte("b")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "b" {
		t.Fatalf("got %q, want %q", b, "b")
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := ExpandHome("~/.tuplegen/runs")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".tuplegen", "runs"); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
	got, err = ExpandHome("data/./out")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join("data", "out") {
		t.Fatalf("got %s", got)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{\n  \"a\": 1\n}" {
		t.Fatalf("unexpected json: %q", b)
	}
}
