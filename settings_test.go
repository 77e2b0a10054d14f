package marksheet

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*Settings)
		wantField string
	}{
		{"defaults are valid", func(*Settings) {}, ""},
		{"missing paper size", func(s *Settings) { s.PaperSize = "" }, "paper_size"},
		{"missing orientation", func(s *Settings) { s.Orientation = "" }, "orientation"},
		{"missing institution code", func(s *Settings) { s.InstitutionCode = "" }, "institution_code"},
		{"unknown template type", func(s *Settings) { s.TemplateType = "brochure" }, "template_type"},
		{"bad logo position", func(s *Settings) { s.LogoPosition = "top" }, "logo_position"},
		{"bad color", func(s *Settings) { s.PrimaryColor = "navy" }, "primary_color"},
		{"color with alpha", func(s *Settings) { s.PrimaryColor = "#ff0000cc" }, ""},
		{"short color with alpha", func(s *Settings) { s.BorderColor = "#f00a" }, ""},
		{"opacity above one", func(s *Settings) { s.WatermarkOpacity = 1.5 }, "watermark_opacity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := DefaultSettings("INST01")
			tt.mutate(s)
			err := s.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			var cerr *ConfigurationError
			if !errors.As(err, &cerr) {
				t.Fatalf("Validate() error = %v, want *ConfigurationError", err)
			}
			if cerr.Field != tt.wantField {
				t.Errorf("ConfigurationError.Field = %q, want %q", cerr.Field, tt.wantField)
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("Validate() error does not wrap ErrConfiguration")
			}
		})
	}

	t.Run("nil settings", func(t *testing.T) {
		t.Parallel()

		var s *Settings
		if err := s.Validate(); !errors.Is(err, ErrConfiguration) {
			t.Errorf("Validate() on nil error = %v, want ErrConfiguration", err)
		}
	})
}

func TestSettings_Geometry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*Settings)
		want      Geometry
		wantField string
	}{
		{
			name:   "A4 portrait defaults",
			mutate: func(*Settings) {},
			want: Geometry{Paper: "A4", Orientation: OrientationPortrait, Width: 210, Height: 297,
				MarginTop: 20, MarginRight: 15, MarginBottom: 20, MarginLeft: 15},
		},
		{
			name: "legal landscape with cm margins",
			mutate: func(s *Settings) {
				s.PaperSize = "legal"
				s.Orientation = "Landscape"
				s.MarginTop, s.MarginBottom, s.MarginLeft, s.MarginRight = "1cm", "1cm", "1cm", "1cm"
			},
			want: Geometry{Paper: "Legal", Orientation: OrientationLandscape, Width: 355.6, Height: 215.9,
				MarginTop: 10, MarginRight: 10, MarginBottom: 10, MarginLeft: 10},
		},
		{
			name:      "unknown paper",
			mutate:    func(s *Settings) { s.PaperSize = "A3" },
			wantField: "paper_size",
		},
		{
			name:      "unknown orientation",
			mutate:    func(s *Settings) { s.Orientation = "diagonal" },
			wantField: "orientation",
		},
		{
			name:      "unparseable margin",
			mutate:    func(s *Settings) { s.MarginLeft = "wide" },
			wantField: "margin_left",
		},
		{
			name:      "margins consume the page",
			mutate:    func(s *Settings) { s.MarginLeft, s.MarginRight = "110mm", "110mm" },
			wantField: "margins",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := DefaultSettings("INST01")
			tt.mutate(s)
			got, err := s.Geometry()
			if tt.wantField != "" {
				var cerr *ConfigurationError
				if !errors.As(err, &cerr) || cerr.Field != tt.wantField {
					t.Errorf("Geometry() error = %v, want ConfigurationError on %q", err, tt.wantField)
				}
				return
			}
			if err != nil {
				t.Fatalf("Geometry() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Geometry() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSettings_Style(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		st, err := DefaultSettings("INST01").Style()
		if err != nil {
			t.Fatalf("Style() error = %v", err)
		}
		if st.FontFamily != "Times" {
			t.Errorf("FontFamily = %q, want Times", st.FontFamily)
		}
		if st.BodySize != 11 || st.HeadingSize != 14 || st.SubheadingSize != 12 {
			t.Errorf("sizes = %v/%v/%v, want 11/14/12", st.BodySize, st.HeadingSize, st.SubheadingSize)
		}
		if diff := cmp.Diff(DefaultSignatureLabels, st.Signatures); diff != "" {
			t.Errorf("Signatures mismatch (-want +got):\n%s", diff)
		}
		if st.Watermark != "" {
			t.Errorf("Watermark = %q, want empty when disabled", st.Watermark)
		}
		if st.Logo != nil {
			t.Error("Logo set without image bytes")
		}
	})

	t.Run("decoration", func(t *testing.T) {
		t.Parallel()

		s := DefaultSettings("INST01")
		s.FontFamily = "Arial, sans-serif"
		s.FontSizeBody = "10pt"
		s.HeaderBackgroundColor = "#fff"
		s.WatermarkEnabled = true
		s.WatermarkText = "PROVISIONAL"
		s.LogoImage = []byte{0x89, 'P', 'N', 'G'}
		s.LogoWidth = "2cm"
		s.SignatureEnabled = false

		st, err := s.Style()
		if err != nil {
			t.Fatalf("Style() error = %v", err)
		}
		if st.FontFamily != "Helvetica" {
			t.Errorf("FontFamily = %q, want Helvetica", st.FontFamily)
		}
		if st.BodySize != 10 {
			t.Errorf("BodySize = %v, want 10", st.BodySize)
		}
		if st.HeaderBackground == nil || *st.HeaderBackground != (RGB{R: 255, G: 255, B: 255}) {
			t.Errorf("HeaderBackground = %v, want white", st.HeaderBackground)
		}
		if st.Watermark != "PROVISIONAL" || st.WatermarkOpacity != 0.1 {
			t.Errorf("watermark = %q at %v, want PROVISIONAL at 0.1", st.Watermark, st.WatermarkOpacity)
		}
		if st.Logo == nil || st.Logo.Width != 20 || st.Logo.Height != 18 {
			t.Errorf("Logo = %+v, want 20x18mm", st.Logo)
		}
		if st.Signatures != nil {
			t.Errorf("Signatures = %v, want nil when disabled", st.Signatures)
		}
	})

	t.Run("bad font size", func(t *testing.T) {
		t.Parallel()

		s := DefaultSettings("INST01")
		s.FontSizeHeading = "huge"
		_, err := s.Style()
		var cerr *ConfigurationError
		if !errors.As(err, &cerr) || cerr.Field != "font_size_heading" {
			t.Errorf("Style() error = %v, want ConfigurationError on font_size_heading", err)
		}
	})

	t.Run("colors with alpha", func(t *testing.T) {
		t.Parallel()

		s := DefaultSettings("INST01")
		s.PrimaryColor = "#ff0000cc"
		s.BorderColor = "#f00a"
		s.HeaderBackgroundColor = "#00ff0080"
		st, err := s.Style()
		if err != nil {
			t.Fatalf("Style() error = %v", err)
		}
		red := RGB{R: 255}
		if diff := cmp.Diff(red, st.Primary); diff != "" {
			t.Errorf("Primary mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(red, st.Border); diff != "" {
			t.Errorf("Border mismatch (-want +got):\n%s", diff)
		}
		if st.HeaderBackground == nil || *st.HeaderBackground != (RGB{G: 255}) {
			t.Errorf("HeaderBackground = %v, want {0 255 0}", st.HeaderBackground)
		}
	})
}

func TestSettings_Clone(t *testing.T) {
	t.Parallel()

	s := DefaultSettings("INST01")
	s.LogoImage = []byte{1, 2, 3}
	cp := s.Clone()
	cp.LogoImage[0] = 9
	cp.SignatureLabels[0] = "Changed"

	if s.LogoImage[0] != 1 {
		t.Error("Clone() shares LogoImage")
	}
	if s.SignatureLabels[0] != DefaultSignatureLabels[0] {
		t.Error("Clone() shares SignatureLabels")
	}
	if (*Settings)(nil).Clone() != nil {
		t.Error("Clone() of nil is not nil")
	}
}

func TestParseHexColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    RGB
		wantErr bool
	}{
		{"#1f2937", RGB{R: 31, G: 41, B: 55}, false},
		{"#abc", RGB{R: 170, G: 187, B: 204}, false},
		{"#f00a", RGB{R: 255}, false},
		{"#ff0000cc", RGB{R: 255}, false},
		{"#ff0000zz", RGB{}, true},
		{"#12345", RGB{}, true},
		{"000000", RGB{}, false},
		{"#12", RGB{}, true},
		{"#zzzzzz", RGB{}, true},
	}

	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHexColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
