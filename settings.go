package marksheet

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alnah/go-marksheet/internal/units"
)

// Template types recognised by the settings store.
const (
	TemplateDefault     = "default"
	TemplateCertificate = "certificate"
	TemplateHallTicket  = "hallticket"
	TemplateMarksheet   = "marksheet"
	TemplateReport      = "report"
)

// Orientation values.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Settings is an institution PDF template record. It is owned by an external
// store; the renderer only reads it. Dimensions are strings such as "20mm"
// and font sizes strings such as "11pt".
type Settings struct {
	ID                string `yaml:"id"`
	InstitutionCode   string `yaml:"institution_code" validate:"required"`
	InstitutionName   string `yaml:"institution_name"`
	Affiliation       string `yaml:"affiliation"`
	Address           string `yaml:"address"`
	AccreditationText string `yaml:"accreditation_text"`

	TemplateName string `yaml:"template_name"`
	TemplateType string `yaml:"template_type" validate:"omitempty,oneof=default certificate hallticket marksheet report"`
	WEFDate      string `yaml:"wef_date"` // YYYY-MM-DD
	WEFTime      string `yaml:"wef_time"` // HH:MM
	Active       bool   `yaml:"active"`

	LogoURL            string `yaml:"logo_url"`
	LogoWidth          string `yaml:"logo_width"`
	LogoHeight         string `yaml:"logo_height"`
	LogoPosition       string `yaml:"logo_position" validate:"omitempty,oneof=left center right"`
	LogoImage          []byte `yaml:"-"`
	SecondaryLogoURL   string `yaml:"secondary_logo_url"`
	SecondaryLogoImage []byte `yaml:"-"`

	HeaderHTML            string `yaml:"header_html"`
	HeaderHeight          string `yaml:"header_height"`
	HeaderBackgroundColor string `yaml:"header_background_color" validate:"omitempty,hexcolor"`
	FooterHTML            string `yaml:"footer_html"`
	FooterHeight          string `yaml:"footer_height"`
	FooterBackgroundColor string `yaml:"footer_background_color" validate:"omitempty,hexcolor"`

	WatermarkEnabled bool    `yaml:"watermark_enabled"`
	WatermarkText    string  `yaml:"watermark_text"`
	WatermarkOpacity float64 `yaml:"watermark_opacity" validate:"gte=0,lte=1"`

	PaperSize    string `yaml:"paper_size" validate:"required"`
	Orientation  string `yaml:"orientation" validate:"required"`
	MarginTop    string `yaml:"margin_top"`
	MarginBottom string `yaml:"margin_bottom"`
	MarginLeft   string `yaml:"margin_left"`
	MarginRight  string `yaml:"margin_right"`

	FontFamily         string `yaml:"font_family"`
	FontSizeBody       string `yaml:"font_size_body"`
	FontSizeHeading    string `yaml:"font_size_heading"`
	FontSizeSubheading string `yaml:"font_size_subheading"`

	PrimaryColor   string `yaml:"primary_color" validate:"omitempty,hexcolor"`
	SecondaryColor string `yaml:"secondary_color" validate:"omitempty,hexcolor"`
	AccentColor    string `yaml:"accent_color" validate:"omitempty,hexcolor"`
	BorderColor    string `yaml:"border_color" validate:"omitempty,hexcolor"`

	PageNumberingEnabled  bool   `yaml:"page_numbering_enabled"`
	PageNumberingFormat   string `yaml:"page_numbering_format"`
	PageNumberingPosition string `yaml:"page_numbering_position" validate:"omitempty,oneof=left center right"`

	SignatureEnabled   bool     `yaml:"signature_section_enabled"`
	SignatureLabels    []string `yaml:"signature_labels"`
	SignatureLineWidth string   `yaml:"signature_line_width"`
}

// Default setting values.
const (
	DefaultPaperSize        = "A4"
	DefaultMargin           = "20mm"
	DefaultSideMargin       = "15mm"
	DefaultFontFamily       = "Times New Roman, serif"
	DefaultBodySize         = 11.0
	DefaultHeadingSize      = 14.0
	DefaultSubheadingSize   = 12.0
	DefaultPageNumberFormat = "Page {page} of {total}"
	DefaultSignatureLine    = 50.0
)

// DefaultSignatureLabels are printed when signatures are enabled without labels.
var DefaultSignatureLabels = []string{"Prepared by", "Verified by", "Controller of Examinations"}

// DefaultSettings returns the template used when a store has no record.
func DefaultSettings(institutionCode string) *Settings {
	return &Settings{
		InstitutionCode:       institutionCode,
		TemplateName:          "Default",
		TemplateType:          TemplateDefault,
		Active:                true,
		LogoPosition:          "left",
		PaperSize:             DefaultPaperSize,
		Orientation:           OrientationPortrait,
		MarginTop:             DefaultMargin,
		MarginBottom:          DefaultMargin,
		MarginLeft:            DefaultSideMargin,
		MarginRight:           DefaultSideMargin,
		FontFamily:            DefaultFontFamily,
		FontSizeBody:          "11pt",
		FontSizeHeading:       "14pt",
		FontSizeSubheading:    "12pt",
		PrimaryColor:          "#1f2937",
		SecondaryColor:        "#4b5563",
		AccentColor:           "#2563eb",
		BorderColor:           "#000000",
		PageNumberingEnabled:  true,
		PageNumberingFormat:   DefaultPageNumberFormat,
		PageNumberingPosition: "center",
		SignatureEnabled:      true,
		SignatureLabels:       append([]string(nil), DefaultSignatureLabels...),
		SignatureLineWidth:    "50mm",
	}
}

// Clone returns a deep copy of s.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	cp := *s
	cp.LogoImage = append([]byte(nil), s.LogoImage...)
	cp.SecondaryLogoImage = append([]byte(nil), s.SecondaryLogoImage...)
	cp.SignatureLabels = append([]string(nil), s.SignatureLabels...)
	return &cp
}

var settingsValidator = newSettingsValidator()

func newSettingsValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the presence of required fields and the enumerations.
// Failures are returned as *ConfigurationError.
func (s *Settings) Validate() error {
	if s == nil {
		return &ConfigurationError{Reason: "settings are required"}
	}
	if err := settingsValidator.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ConfigurationError{Field: fe.Field(), Reason: describeTag(fe)}
		}
		return &ConfigurationError{Reason: err.Error()}
	}
	return nil
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "hexcolor":
		return fmt.Sprintf("must be a hex color, got %q", fe.Value())
	case "gte", "lte":
		return fmt.Sprintf("must be between 0 and 1, got %v", fe.Value())
	}
	return "failed " + fe.Tag() + " check"
}

// Geometry is the page size after orientation and the margins, in mm.
type Geometry struct {
	Paper        string
	Orientation  string
	Width        float64
	Height       float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64
}

// PrintableWidth is the page width inside the side margins.
func (g Geometry) PrintableWidth() float64 {
	return g.Width - g.MarginLeft - g.MarginRight
}

// PrintableHeight is the page height inside the top and bottom margins.
func (g Geometry) PrintableHeight() float64 {
	return g.Height - g.MarginTop - g.MarginBottom
}

// Geometry resolves paper size, orientation and margins.
func (s *Settings) Geometry() (Geometry, error) {
	if err := s.Validate(); err != nil {
		return Geometry{}, err
	}
	paper, err := units.LookupPaper(s.PaperSize)
	if err != nil {
		return Geometry{}, &ConfigurationError{
			Field:  "paper_size",
			Reason: fmt.Sprintf("must be one of %s, got %q", strings.Join(units.PaperNames(), ", "), s.PaperSize),
		}
	}

	g := Geometry{Paper: paper.Name, Width: paper.Width, Height: paper.Height}
	switch strings.ToLower(strings.TrimSpace(s.Orientation)) {
	case OrientationPortrait:
		g.Orientation = OrientationPortrait
	case OrientationLandscape:
		g.Orientation = OrientationLandscape
		g.Width, g.Height = g.Height, g.Width
	default:
		return Geometry{}, &ConfigurationError{Field: "orientation", Reason: fmt.Sprintf("must be portrait or landscape, got %q", s.Orientation)}
	}

	margins := []struct {
		field string
		value string
		def   float64
		dst   *float64
	}{
		{"margin_top", s.MarginTop, 20, &g.MarginTop},
		{"margin_right", s.MarginRight, 15, &g.MarginRight},
		{"margin_bottom", s.MarginBottom, 20, &g.MarginBottom},
		{"margin_left", s.MarginLeft, 15, &g.MarginLeft},
	}
	for _, m := range margins {
		v, err := units.DimensionOr(m.value, m.def)
		if err != nil {
			return Geometry{}, &ConfigurationError{Field: m.field, Reason: err.Error()}
		}
		*m.dst = v
	}

	if g.PrintableWidth() <= 0 || g.PrintableHeight() <= 0 {
		return Geometry{}, &ConfigurationError{Field: "margins", Reason: "leave no printable area"}
	}
	return g, nil
}

// Image is an image with its drawn size in millimetres.
type Image struct {
	Data   []byte
	Width  float64
	Height float64
}

// Style is the resolved typography and decoration of a document.
type Style struct {
	FontFamily     string // core PDF font: Times, Helvetica or Courier
	CSSFontFamily  string
	BodySize       float64
	HeadingSize    float64
	SubheadingSize float64

	Primary   RGB
	Secondary RGB
	Accent    RGB
	Border    RGB

	HeaderBackground *RGB
	FooterBackground *RGB
	HeaderHeight     float64 // 0 means sized to content
	FooterHeight     float64

	Logo          *Image
	SecondaryLogo *Image
	LogoAlign     Align

	Watermark        string
	WatermarkOpacity float64

	PageNumbering    bool
	PageNumberFormat string
	PageNumberAlign  Align

	Signatures         []string
	SignatureLineWidth float64
}

// Style resolves fonts, colors, logo and decoration.
func (s *Settings) Style() (Style, error) {
	if err := s.Validate(); err != nil {
		return Style{}, err
	}

	st := Style{
		FontFamily:       coreFont(s.FontFamily),
		CSSFontFamily:    s.FontFamily,
		PageNumbering:    s.PageNumberingEnabled,
		PageNumberFormat: s.PageNumberingFormat,
		PageNumberAlign:  alignOf(s.PageNumberingPosition, AlignCenter),
		LogoAlign:        alignOf(s.LogoPosition, AlignLeft),
	}
	if st.CSSFontFamily == "" {
		st.CSSFontFamily = DefaultFontFamily
	}
	if st.PageNumberFormat == "" {
		st.PageNumberFormat = DefaultPageNumberFormat
	}

	var err error
	sizes := []struct {
		field string
		value string
		def   float64
		dst   *float64
	}{
		{"font_size_body", s.FontSizeBody, DefaultBodySize, &st.BodySize},
		{"font_size_heading", s.FontSizeHeading, DefaultHeadingSize, &st.HeadingSize},
		{"font_size_subheading", s.FontSizeSubheading, DefaultSubheadingSize, &st.SubheadingSize},
	}
	for _, sz := range sizes {
		if *sz.dst, err = units.FontSizeOr(sz.value, sz.def); err != nil {
			return Style{}, &ConfigurationError{Field: sz.field, Reason: err.Error()}
		}
	}

	colors := []struct {
		field string
		value string
		def   RGB
		dst   *RGB
	}{
		{"primary_color", s.PrimaryColor, RGB{R: 31, G: 41, B: 55}, &st.Primary},
		{"secondary_color", s.SecondaryColor, RGB{R: 75, G: 85, B: 99}, &st.Secondary},
		{"accent_color", s.AccentColor, RGB{R: 37, G: 99, B: 235}, &st.Accent},
		{"border_color", s.BorderColor, ColorBlack, &st.Border},
	}
	for _, c := range colors {
		*c.dst = c.def
		if c.value == "" {
			continue
		}
		if *c.dst, err = ParseHexColor(c.value); err != nil {
			return Style{}, &ConfigurationError{Field: c.field, Reason: err.Error()}
		}
	}
	backgrounds := []struct {
		field string
		value string
		dst   **RGB
	}{
		{"header_background_color", s.HeaderBackgroundColor, &st.HeaderBackground},
		{"footer_background_color", s.FooterBackgroundColor, &st.FooterBackground},
	}
	for _, b := range backgrounds {
		if b.value == "" {
			continue
		}
		c, err := ParseHexColor(b.value)
		if err != nil {
			return Style{}, &ConfigurationError{Field: b.field, Reason: err.Error()}
		}
		*b.dst = &c
	}

	if st.HeaderHeight, err = units.DimensionOr(s.HeaderHeight, 0); err != nil {
		return Style{}, &ConfigurationError{Field: "header_height", Reason: err.Error()}
	}
	if st.FooterHeight, err = units.DimensionOr(s.FooterHeight, 0); err != nil {
		return Style{}, &ConfigurationError{Field: "footer_height", Reason: err.Error()}
	}

	if len(s.LogoImage) > 0 {
		w, err := units.DimensionOr(s.LogoWidth, 18)
		if err != nil {
			return Style{}, &ConfigurationError{Field: "logo_width", Reason: err.Error()}
		}
		h, err := units.DimensionOr(s.LogoHeight, 18)
		if err != nil {
			return Style{}, &ConfigurationError{Field: "logo_height", Reason: err.Error()}
		}
		st.Logo = &Image{Data: s.LogoImage, Width: w, Height: h}
		if len(s.SecondaryLogoImage) > 0 {
			st.SecondaryLogo = &Image{Data: s.SecondaryLogoImage, Width: w, Height: h}
		}
	}

	if s.WatermarkEnabled && strings.TrimSpace(s.WatermarkText) != "" {
		st.Watermark = s.WatermarkText
		st.WatermarkOpacity = s.WatermarkOpacity
		if st.WatermarkOpacity == 0 {
			st.WatermarkOpacity = 0.1
		}
	}

	if s.SignatureEnabled {
		st.Signatures = s.SignatureLabels
		if len(st.Signatures) == 0 {
			st.Signatures = DefaultSignatureLabels
		}
		st.Signatures = append([]string(nil), st.Signatures...)
		if st.SignatureLineWidth, err = units.DimensionOr(s.SignatureLineWidth, DefaultSignatureLine); err != nil {
			return Style{}, &ConfigurationError{Field: "signature_line_width", Reason: err.Error()}
		}
	}
	return st, nil
}

// coreFont maps a CSS font family list to a built-in PDF font.
func coreFont(family string) string {
	f := strings.ToLower(family)
	switch {
	case f == "", strings.Contains(f, "times"), strings.Contains(f, "serif") && !strings.Contains(f, "sans"):
		return "Times"
	case strings.Contains(f, "courier"), strings.Contains(f, "mono"):
		return "Courier"
	}
	return "Helvetica"
}

func alignOf(position string, fallback Align) Align {
	switch strings.ToLower(position) {
	case "left":
		return AlignLeft
	case "center":
		return AlignCenter
	case "right":
		return AlignRight
	}
	return fallback
}

// ParseHexColor parses "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa". PDF fills
// are opaque, so an alpha component is read and dropped.
func ParseHexColor(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3, 4:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]}) + strings.Repeat(h[3:], 2)
	}
	if len(h) == 8 {
		if _, err := strconv.ParseUint(h[6:], 16, 8); err != nil {
			return RGB{}, fmt.Errorf("invalid hex color %q", s)
		}
		h = h[:6]
	}
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color %q", s)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q", s)
	}
	return RGB{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, nil
}
