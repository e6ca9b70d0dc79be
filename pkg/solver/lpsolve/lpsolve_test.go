package lpsolve

import (
	"os"
	"path/filepath"
	"testing"
)

func writeLog(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lp_solve.log")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseLowerBoundFromLogFindsLabeledLine(t *testing.T) {
	path := writeLog(t, "Branch and bound stats\nGap: 3.2%\nLower bound: 41.75\nUpper bound: 43.10\n")

	got, ok := parseLowerBoundFromLog(path)
	if !ok {
		t.Fatal("expected a lower bound to be found")
	}
	if got != 41.75 {
		t.Errorf("got %v, want 41.75", got)
	}
}

func TestParseLowerBoundFromLogKeepsLastOccurrence(t *testing.T) {
	path := writeLog(t, "Lower bound: 10\nLower bound: 12.5\n")

	got, ok := parseLowerBoundFromLog(path)
	if !ok {
		t.Fatal("expected a lower bound to be found")
	}
	if got != 12.5 {
		t.Errorf("got %v, want the last reported bound 12.5", got)
	}
}

func TestParseLowerBoundFromLogMissingLine(t *testing.T) {
	path := writeLog(t, "Optimal solution found\n")

	if _, ok := parseLowerBoundFromLog(path); ok {
		t.Error("expected no lower bound to be found")
	}
}

func TestParseLowerBoundFromLogMissingFile(t *testing.T) {
	if _, ok := parseLowerBoundFromLog(filepath.Join(t.TempDir(), "missing.log")); ok {
		t.Error("expected no lower bound for a nonexistent file")
	}
}
