package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"transport-report-service/internal/domain"
)

//go:embed sites.json
var defaultSites []byte

// Sites is the ordered site table. Lookups are by key.
type Sites struct {
	list  []domain.Site
	byKey map[string]int
}

// LoadSites reads the site table from path, or the embedded default when
// path is empty.
func LoadSites(path string) (*Sites, error) {
	data := defaultSites
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load sites: read %q: %w", path, err)
		}
		data = b
	}

	return ParseSites(data)
}

// ParseSites decodes and validates a JSON site table.
func ParseSites(data []byte) (*Sites, error) {
	var list []domain.Site
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("load sites: parse json: %w", err)
	}

	s := &Sites{list: make([]domain.Site, 0, len(list)), byKey: make(map[string]int, len(list))}
	for i, site := range list {
		site.Key = strings.TrimSpace(site.Key)
		if site.Key == "" {
			return nil, fmt.Errorf("load sites: site at index %d: key cannot be empty: %w", i+1, domain.ErrInvalidConfiguration)
		}
		if _, dup := s.byKey[site.Key]; dup {
			return nil, fmt.Errorf("load sites: duplicate site key %q: %w", site.Key, domain.ErrInvalidConfiguration)
		}
		if site.Name == "" {
			site.Name = site.Key
		}
		if err := validateRef(site.Master); err != nil {
			return nil, fmt.Errorf("load sites: site %q master: %w", site.Key, err)
		}
		for j, sh := range site.Shifts {
			if strings.TrimSpace(sh.Name) == "" {
				return nil, fmt.Errorf("load sites: site %q shift at index %d: name cannot be empty: %w", site.Key, j+1, domain.ErrInvalidConfiguration)
			}
			if err := validateRef(sh.Sheet); err != nil {
				return nil, fmt.Errorf("load sites: site %q shift %q: %w", site.Key, sh.Name, err)
			}
		}

		s.byKey[site.Key] = len(s.list)
		s.list = append(s.list, site)
	}

	return s, nil
}

func validateRef(ref domain.SheetRef) error {
	if strings.TrimSpace(ref.SheetID) == "" {
		return fmt.Errorf("sheet_id cannot be empty: %w", domain.ErrInvalidConfiguration)
	}
	switch ref.Format {
	case "", domain.FormatCSV, domain.FormatXLSX:
		return nil
	default:
		return fmt.Errorf("unsupported format %q: %w", ref.Format, domain.ErrInvalidConfiguration)
	}
}

func (s *Sites) All() []domain.Site {
	out := make([]domain.Site, len(s.list))
	copy(out, s.list)
	return out
}

// Get returns the site configured under key.
func (s *Sites) Get(key string) (domain.Site, error) {
	i, ok := s.byKey[key]
	if !ok {
		return domain.Site{}, fmt.Errorf("site %q: %w", key, domain.ErrUnknownSite)
	}
	return s.list[i], nil
}
