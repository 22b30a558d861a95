package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
)

func TestGodotenvQuoting(t *testing.T) {
	content := `DATA_FILE='data/2024 "final" merge.csv'`
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	env, err := godotenv.Read(path)
	if err != nil {
		t.Fatalf("Error reading env: %v", err)
	}

	expected := `data/2024 "final" merge.csv`
	if env["DATA_FILE"] != expected {
		t.Errorf("Expected %s, got %s", expected, env["DATA_FILE"])
	}
}
