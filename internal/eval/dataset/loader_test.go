package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func writeJSONL(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scans.jsonl")
	if err := os.WriteFile(path, []byte(lines), 0644); err != nil {
		t.Fatalf("Failed to write test dataset: %v", err)
	}
	return path
}

func TestLoadJSONL(t *testing.T) {
	path := writeJSONL(t, `{"id":"1","title_text":"Lightning Bolt","collector_text":"2X2 117","expected_name":"Lightning Bolt","expected_set":"2X2","expected_number":"117"}

{"id":"2","title_text":"Serra Angel","collector_text":"","expected_name":"Serra Angel"}
`)

	records, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records (blank lines skipped), got %d", len(records))
	}
	if records[0].ExpectedSet != "2X2" || records[0].ExpectedNumber != "117" {
		t.Errorf("Record 0 labels wrong: %+v", records[0])
	}
	if records[1].TitleText != "Serra Angel" {
		t.Errorf("Record 1 title wrong: %+v", records[1])
	}
}

func TestLoadSampleJSONL(t *testing.T) {
	path := writeJSONL(t, `{"id":"1"}
{"id":"2"}
{"id":"3"}
`)

	records, err := NewLoader(path).LoadSample(2)
	if err != nil {
		t.Fatalf("LoadSample failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}
}

func TestLoadJSONLMalformedLine(t *testing.T) {
	path := writeJSONL(t, `{"id":"1"}
not json at all
`)

	if _, err := NewLoader(path).Load(); err == nil {
		t.Fatal("Expected an error for a malformed line")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scans.csv")
	if err := os.WriteFile(path, []byte("id,title\n"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	if _, err := NewLoader(path).Load(); err == nil {
		t.Fatal("Expected an error for an unsupported extension")
	}
}

func TestLoadNonexistentFile(t *testing.T) {
	if _, err := NewLoader("/does/not/exist.jsonl").Load(); err == nil {
		t.Fatal("Expected an error for a missing file")
	}
}
