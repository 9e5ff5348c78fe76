package accounts

import (
	"errors"
	"fmt"
	"os"

	"github.com/cleared-dev/concilia/internal/model"
	"github.com/cleared-dev/concilia/internal/textnorm"
)

// Service provides in-memory lookup over one mapping table.
type Service struct {
	kind     Kind
	mappings []model.Mapping
	byName   map[string]model.Mapping
}

// NewService creates a Service from a slice of mappings. The first mapping
// for a normalized name wins.
func NewService(kind Kind, mappings []model.Mapping) *Service {
	s := &Service{kind: kind, byName: make(map[string]model.Mapping, len(mappings))}
	for _, m := range mappings {
		s.add(m)
	}
	return s
}

// Load reads a mapping table. A missing file yields an empty Service and an
// error wrapping os.ErrNotExist, so callers can degrade and warn.
func Load(path string, kind Kind) (*Service, error) {
	mappings, err := ReadMappings(path, kind)
	if err != nil {
		return NewService(kind, nil), fmt.Errorf("loading %s table: %w", kind.NameColumn, err)
	}
	return NewService(kind, mappings), nil
}

// IsMissing reports whether a Load error means the file does not exist.
func IsMissing(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

func (s *Service) add(m model.Mapping) bool {
	key := textnorm.Normalize(m.Name)
	if key == "" || m.Code == "" {
		return false
	}
	s.mappings = append(s.mappings, m)
	if _, ok := s.byName[key]; !ok {
		s.byName[key] = m
	}
	return true
}

// All returns all mappings in file order.
func (s *Service) All() []model.Mapping {
	return s.mappings
}

// Len returns the number of mappings.
func (s *Service) Len() int { return len(s.mappings) }

// Get returns the mapping for a name, compared after normalization.
func (s *Service) Get(name string) (model.Mapping, bool) {
	m, ok := s.byName[textnorm.Normalize(name)]
	return m, ok
}

// Exists reports whether a name is mapped.
func (s *Service) Exists(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// ByCode returns all mappings pointing at code.
func (s *Service) ByCode(code string) []model.Mapping {
	var result []model.Mapping
	for _, m := range s.mappings {
		if m.Code == code {
			result = append(result, m)
		}
	}
	return result
}

// Append adds a mapping. Empty names or codes are rejected.
func (s *Service) Append(m model.Mapping) error {
	m = UnmarshalMapping(m.Name, m.Code)
	if !s.add(m) {
		return fmt.Errorf("mapping needs both %s and %s", s.kind.NameColumn, s.kind.CodeColumn)
	}
	return nil
}

// Save writes the table to path.
func (s *Service) Save(path string) error {
	if err := WriteMappings(path, s.kind, s.mappings); err != nil {
		return fmt.Errorf("writing %s table: %w", s.kind.NameColumn, err)
	}
	return nil
}
