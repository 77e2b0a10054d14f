package settingsstore

import (
	"context"
	"strings"
	"sync"

	marksheet "github.com/alnah/go-marksheet"
)

// MemorySource keeps templates in memory.
type MemorySource struct {
	mu        sync.RWMutex
	templates []*marksheet.Settings
}

// NewMemorySource returns a source holding copies of templates.
func NewMemorySource(templates ...*marksheet.Settings) *MemorySource {
	m := &MemorySource{}
	for _, t := range templates {
		m.Add(t)
	}
	return m
}

// Add stores a copy of t.
func (m *MemorySource) Add(t *marksheet.Settings) {
	if t == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates = append(m.templates, t.Clone())
}

// Templates returns copies of the institution's templates with blank
// fields filled from the defaults.
func (m *MemorySource) Templates(_ context.Context, institution string) ([]*marksheet.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*marksheet.Settings
	for _, t := range m.templates {
		if strings.EqualFold(t.InstitutionCode, institution) {
			out = append(out, withDefaults(t.Clone()))
		}
	}
	return out, nil
}
