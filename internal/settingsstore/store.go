package settingsstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	marksheet "github.com/alnah/go-marksheet"
)

// DefaultTTL is how long a resolved template stays cached.
const DefaultTTL = 5 * time.Minute

// ErrSettingsNotFound is returned when an institution has no effective
// template for the requested type nor a default one.
var ErrSettingsNotFound = errors.New("settings not found")

// Source lists the stored templates of an institution, active or not.
type Source interface {
	Templates(ctx context.Context, institution string) ([]*marksheet.Settings, error)
}

// Store resolves templates from a Source with a TTL cache.
// Safe for concurrent use.
type Store struct {
	src Source
	ttl time.Duration
	now func() time.Time
	log logrus.FieldLogger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	settings *marksheet.Settings
	expires  time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the cache lifetime. Zero disables caching.
func WithTTL(d time.Duration) Option {
	return func(s *Store) {
		if d >= 0 {
			s.ttl = d
		}
	}
}

// WithClock sets the time used for WEF comparisons and cache expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger for skipped templates and cache misses.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Store reading from src.
func New(src Source, opts ...Option) *Store {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Store{
		src:   src,
		ttl:   DefaultTTL,
		now:   time.Now,
		log:   discard,
		cache: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func cacheKey(institution, templateType string) string {
	return institution + ":" + templateType
}

// Resolve returns the template in effect for the institution and template
// type. The caller owns the returned copy.
func (s *Store) Resolve(ctx context.Context, institution, templateType string) (*marksheet.Settings, error) {
	institution = strings.TrimSpace(institution)
	if institution == "" {
		return nil, &marksheet.ConfigurationError{Field: "institution_code", Reason: "is required"}
	}
	if templateType == "" {
		templateType = marksheet.TemplateDefault
	}
	key := cacheKey(institution, templateType)
	now := s.now()

	s.mu.Lock()
	if e, ok := s.cache[key]; ok && now.Before(e.expires) {
		s.mu.Unlock()
		return e.settings.Clone(), nil
	}
	s.mu.Unlock()

	templates, err := s.src.Templates(ctx, institution)
	if err != nil {
		return nil, fmt.Errorf("loading templates for %s: %w", institution, err)
	}

	found := s.effective(templates, institution, templateType, now)
	if found == nil && templateType != marksheet.TemplateDefault {
		s.log.WithFields(logrus.Fields{
			"institution":   institution,
			"template_type": templateType,
		}).Debug("no effective template, falling back to default")
		found = s.effective(templates, institution, marksheet.TemplateDefault, now)
	}
	if found == nil {
		return nil, fmt.Errorf("%w: institution %q, type %q", ErrSettingsNotFound, institution, templateType)
	}

	if s.ttl > 0 {
		s.mu.Lock()
		s.cache[key] = cacheEntry{settings: found.Clone(), expires: now.Add(s.ttl)}
		s.mu.Unlock()
	}
	return found.Clone(), nil
}

// effective picks the active template of templateType with the latest WEF
// not after now. Templates without a WEF are always effective and lose to
// any dated one; ties keep the first template listed.
func (s *Store) effective(templates []*marksheet.Settings, institution, templateType string, now time.Time) *marksheet.Settings {
	var (
		best    *marksheet.Settings
		bestWEF time.Time
	)
	for _, t := range templates {
		if t == nil || !t.Active || !strings.EqualFold(t.InstitutionCode, institution) {
			continue
		}
		typ := t.TemplateType
		if typ == "" {
			typ = marksheet.TemplateDefault
		}
		if typ != templateType {
			continue
		}
		wef, err := EffectiveFrom(t, now.Location())
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"institution": institution,
				"template":    t.TemplateName,
				"reason":      err.Error(),
			}).Warn("skipping template")
			continue
		}
		if wef.After(now) {
			continue
		}
		if best == nil || wef.After(bestWEF) {
			best, bestWEF = t, wef
		}
	}
	return best
}

// EffectiveFrom returns the instant a template takes effect, or the zero
// time when it has no WEF date. WEF dates are read in loc.
func EffectiveFrom(s *marksheet.Settings, loc *time.Location) (time.Time, error) {
	date := strings.TrimSpace(s.WEFDate)
	if date == "" {
		return time.Time{}, nil
	}
	clock := strings.TrimSpace(s.WEFTime)
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid wef %q %q: %w", s.WEFDate, s.WEFTime, err)
	}
	return t, nil
}

// Invalidate drops every cached template of an institution.
func (s *Store) Invalidate(institution string) {
	prefix := strings.TrimSpace(institution) + ":"
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.cache {
		if strings.HasPrefix(key, prefix) {
			delete(s.cache, key)
		}
	}
}

// InvalidateAll empties the cache.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.cache)
}
