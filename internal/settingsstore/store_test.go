package settingsstore

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	marksheet "github.com/alnah/go-marksheet"
)

var testNow = time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

func template(inst, typ, name, wefDate, wefTime string) *marksheet.Settings {
	s := marksheet.DefaultSettings(inst)
	s.TemplateType = typ
	s.TemplateName = name
	s.WEFDate = wefDate
	s.WEFTime = wefTime
	return s
}

// countingSource counts calls to the wrapped source.
type countingSource struct {
	Source
	calls atomic.Int32
	err   error
}

func (c *countingSource) Templates(ctx context.Context, institution string) ([]*marksheet.Settings, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.Source.Templates(ctx, institution)
}

func TestStore_Resolve(t *testing.T) {
	t.Parallel()

	inactive := template("INST01", marksheet.TemplateHallTicket, "inactive", "2025-06-01", "")
	inactive.Active = false

	src := NewMemorySource(
		template("INST01", marksheet.TemplateHallTicket, "undated", "", ""),
		template("INST01", marksheet.TemplateHallTicket, "january", "2025-01-01", ""),
		template("INST01", marksheet.TemplateHallTicket, "may", "2025-05-01", "09:00"),
		template("INST01", marksheet.TemplateHallTicket, "future", "2025-07-01", ""),
		inactive,
		template("INST01", marksheet.TemplateHallTicket, "later today", "2025-06-10", "13:00"),
		template("INST01", marksheet.TemplateDefault, "fallback", "", ""),
		template("INST02", marksheet.TemplateMarksheet, "undated only", "", ""),
		template("INST02", marksheet.TemplateMarksheet, "earlier listed", "2024-01-01", ""),
		template("INST02", marksheet.TemplateMarksheet, "same day later listed", "2024-01-01", ""),
	)
	store := New(src, WithClock(func() time.Time { return testNow }))

	tests := []struct {
		name        string
		institution string
		typ         string
		want        string
		wantErr     error
	}{
		{"latest effective WEF wins", "INST01", marksheet.TemplateHallTicket, "may", nil},
		{"falls back to default type", "INST01", marksheet.TemplateMarksheet, "fallback", nil},
		{"empty type means default", "INST01", "", "fallback", nil},
		{"case-insensitive institution", "inst01", marksheet.TemplateHallTicket, "may", nil},
		{"ties keep the first listed", "INST02", marksheet.TemplateMarksheet, "earlier listed", nil},
		{"no default to fall back to", "INST02", marksheet.TemplateHallTicket, "", ErrSettingsNotFound},
		{"unknown institution", "INST99", marksheet.TemplateHallTicket, "", ErrSettingsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := store.Resolve(context.Background(), tt.institution, tt.typ)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.TemplateName != tt.want {
				t.Errorf("Resolve() template = %q, want %q", got.TemplateName, tt.want)
			}
		})
	}
}

func TestStore_Resolve_MissingInstitution(t *testing.T) {
	t.Parallel()

	_, err := New(NewMemorySource()).Resolve(context.Background(), "  ", marksheet.TemplateDefault)
	var cfg *marksheet.ConfigurationError
	if !errors.As(err, &cfg) || cfg.Field != "institution_code" {
		t.Errorf("Resolve() error = %v, want ConfigurationError on institution_code", err)
	}
}

func TestStore_InvalidWEFIsSkipped(t *testing.T) {
	t.Parallel()

	log, hook := test.NewNullLogger()
	src := NewMemorySource(
		template("INST01", marksheet.TemplateDefault, "broken", "10/06/2025", ""),
		template("INST01", marksheet.TemplateDefault, "good", "2025-06-01", ""),
	)
	got, err := New(src, WithClock(func() time.Time { return testNow }), WithLogger(log)).
		Resolve(context.Background(), "INST01", marksheet.TemplateDefault)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.TemplateName != "good" {
		t.Errorf("Resolve() template = %q, want good", got.TemplateName)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel || entry.Data["template"] != "broken" {
		t.Errorf("last log entry = %+v, want a warning for the broken template", entry)
	}
}

func TestStore_Cache(t *testing.T) {
	t.Parallel()

	now := testNow
	clock := func() time.Time { return now }
	src := &countingSource{Source: NewMemorySource(
		template("INST01", marksheet.TemplateDefault, "a", "", ""),
		template("INST02", marksheet.TemplateDefault, "b", "", ""),
	)}
	store := New(src, WithClock(clock), WithTTL(time.Minute))
	ctx := context.Background()

	resolve := func(inst string) *marksheet.Settings {
		t.Helper()
		s, err := store.Resolve(ctx, inst, marksheet.TemplateDefault)
		if err != nil {
			t.Fatalf("Resolve(%s) error = %v", inst, err)
		}
		return s
	}

	first := resolve("INST01")
	first.InstitutionName = "mutated"
	if again := resolve("INST01"); again.InstitutionName == "mutated" {
		t.Error("cached settings shared with the caller")
	}
	resolve("INST02")
	if got := src.calls.Load(); got != 2 {
		t.Fatalf("source calls = %d, want 2", got)
	}

	store.Invalidate("INST01")
	resolve("INST01")
	resolve("INST02")
	if got := src.calls.Load(); got != 3 {
		t.Errorf("source calls after Invalidate = %d, want 3", got)
	}

	now = now.Add(2 * time.Minute)
	resolve("INST02")
	if got := src.calls.Load(); got != 4 {
		t.Errorf("source calls after expiry = %d, want 4", got)
	}

	store.InvalidateAll()
	resolve("INST01")
	resolve("INST02")
	if got := src.calls.Load(); got != 6 {
		t.Errorf("source calls after InvalidateAll = %d, want 6", got)
	}
}

func TestStore_ZeroTTLDisablesCache(t *testing.T) {
	t.Parallel()

	src := &countingSource{Source: NewMemorySource(template("INST01", marksheet.TemplateDefault, "a", "", ""))}
	store := New(src, WithTTL(0))
	for range 3 {
		if _, err := store.Resolve(context.Background(), "INST01", ""); err != nil {
			t.Fatal(err)
		}
	}
	if got := src.calls.Load(); got != 3 {
		t.Errorf("source calls = %d, want 3", got)
	}
}

func TestStore_SourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	store := New(&countingSource{Source: NewMemorySource(), err: boom})
	if _, err := store.Resolve(context.Background(), "INST01", ""); !errors.Is(err, boom) {
		t.Errorf("Resolve() error = %v, want wrapped source error", err)
	}
}

func TestEffectiveFrom(t *testing.T) {
	t.Parallel()

	ist := time.FixedZone("IST", 5*3600+1800)
	tests := []struct {
		name    string
		date    string
		clock   string
		want    time.Time
		wantErr bool
	}{
		{"no date", "", "", time.Time{}, false},
		{"date only", "2025-06-01", "", time.Date(2025, 6, 1, 0, 0, 0, 0, ist), false},
		{"date and time", "2025-06-01", "14:30", time.Date(2025, 6, 1, 14, 30, 0, 0, ist), false},
		{"bad date", "01-06-2025", "", time.Time{}, true},
		{"bad time", "2025-06-01", "2pm", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := EffectiveFrom(&marksheet.Settings{WEFDate: tt.date, WEFTime: tt.clock}, ist)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EffectiveFrom() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("EffectiveFrom() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMemorySource_CopiesTemplates(t *testing.T) {
	t.Parallel()

	orig := template("INST01", marksheet.TemplateDefault, "a", "", "")
	src := NewMemorySource(orig)
	orig.TemplateName = "changed"

	got, err := src.Templates(context.Background(), "INST01")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].TemplateName != "a" {
		t.Errorf("Templates() = %+v, want the stored copy", got)
	}
	got[0].TemplateName = "mutated"
	again, _ := src.Templates(context.Background(), "INST01")
	if again[0].TemplateName != "a" {
		t.Error("Templates() returned shared pointers")
	}
}

func TestMemorySource_FillsDefaults(t *testing.T) {
	t.Parallel()

	sparse := &marksheet.Settings{
		InstitutionCode: "INST01",
		TemplateType:    marksheet.TemplateMarksheet,
		PrimaryColor:    "#ff0000",
		Active:          true,
	}
	src := NewMemorySource(sparse)

	got, err := src.Templates(context.Background(), "INST01")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("Templates() returned %d templates, want 1", len(got))
	}
	def := marksheet.DefaultSettings("INST01")
	if got[0].PaperSize != def.PaperSize || got[0].FontSizeBody != def.FontSizeBody || got[0].MarginTop != def.MarginTop {
		t.Errorf("Templates()[0] = %+v, want blank fields filled from defaults", got[0])
	}
	if got[0].PrimaryColor != "#ff0000" {
		t.Errorf("PrimaryColor = %q, want the stored value kept", got[0].PrimaryColor)
	}
	if err := got[0].Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
	if sparse.PaperSize != "" {
		t.Error("Templates() modified the caller's template")
	}
}
