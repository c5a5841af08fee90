package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"transport-report-service/internal/domain"
)

func TestLoadSitesEmbeddedDefault(t *testing.T) {
	sites, err := LoadSites("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := sites.All()
	if len(all) != 4 {
		t.Fatalf("expected 4 sites, got %d", len(all))
	}

	hub, err := sites.Get("casa-hub")
	if err != nil {
		t.Fatalf("get casa-hub: %v", err)
	}
	if hub.Master.IsZero() || len(hub.Shifts) == 0 {
		t.Fatalf("casa-hub = %+v, want master and shifts", hub)
	}
}

func TestSitesGetUnknown(t *testing.T) {
	sites, err := ParseSites([]byte(`[{"key":"a","master":{"sheet_id":"x","gid":"0"}}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := sites.Get("b"); !errors.Is(err, domain.ErrUnknownSite) {
		t.Fatalf("err = %v, want ErrUnknownSite", err)
	}

	a, _ := sites.Get("a")
	if a.Name != "a" {
		t.Fatalf("name = %q, want key as default", a.Name)
	}
}

func TestParseSitesValidation(t *testing.T) {
	tests := map[string]string{
		"empty key":      `[{"key":" ","master":{"sheet_id":"x"}}]`,
		"duplicate key":  `[{"key":"a","master":{"sheet_id":"x"}},{"key":"a","master":{"sheet_id":"y"}}]`,
		"no master":      `[{"key":"a"}]`,
		"bad format":     `[{"key":"a","master":{"sheet_id":"x","format":"ods"}}]`,
		"unnamed shift":  `[{"key":"a","master":{"sheet_id":"x"},"shifts":[{"sheet":{"sheet_id":"y"}}]}]`,
		"shift no sheet": `[{"key":"a","master":{"sheet_id":"x"},"shifts":[{"name":"S1"}]}]`,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseSites([]byte(data)); !errors.Is(err, domain.ErrInvalidConfiguration) {
				t.Fatalf("err = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestLoadSitesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.json")
	data := `[{"key":"depot","name":"Depot","master":{"sheet_id":"x","gid":"1","format":"xlsx"}}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	sites, err := LoadSites(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, err := sites.Get("depot")
	if err != nil || d.Master.Format != domain.FormatXLSX {
		t.Fatalf("depot = %+v, %v", d, err)
	}

	if _, err := LoadSites(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
