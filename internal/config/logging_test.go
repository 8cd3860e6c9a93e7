package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestSetupLogFileKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 4; i++ {
		name := filepath.Join(dir, fmt.Sprintf("server-2020-01-0%dT00-00-00.log", i))
		if err := os.WriteFile(name, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	f, err := SetupLogFile(dir, 2)
	if err != nil {
		t.Fatalf("SetupLogFile() error = %v", err)
	}
	defer f.Close()

	files, err := filepath.Glob(filepath.Join(dir, "server-*.log"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("kept %d log files, want 2: %v", len(files), files)
	}
	if _, err := os.Stat(f.Name()); err != nil {
		t.Errorf("new log file was removed: %v", err)
	}
}
