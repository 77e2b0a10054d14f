package settingsstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	marksheet "github.com/alnah/go-marksheet"
)

// DefaultTable holds institution templates.
const DefaultTable = "pdf_institution_settings"

// SQLSource reads templates from a PostgreSQL table. It only issues SELECTs.
type SQLSource struct {
	db    *sqlx.DB
	query string
}

// settingsRow mirrors the selected columns; NULLs are coalesced in SQL.
type settingsRow struct {
	ID                    string         `db:"id"`
	InstitutionCode       string         `db:"institution_code"`
	InstitutionName       string         `db:"institution_name"`
	Affiliation           string         `db:"affiliation"`
	Address               string         `db:"address"`
	AccreditationText     string         `db:"accreditation_text"`
	TemplateName          string         `db:"template_name"`
	TemplateType          string         `db:"template_type"`
	WEFDate               string         `db:"wef_date"`
	WEFTime               string         `db:"wef_time"`
	Active                bool           `db:"active"`
	LogoURL               string         `db:"logo_url"`
	LogoWidth             string         `db:"logo_width"`
	LogoHeight            string         `db:"logo_height"`
	LogoPosition          string         `db:"logo_position"`
	SecondaryLogoURL      string         `db:"secondary_logo_url"`
	HeaderHTML            string         `db:"header_html"`
	HeaderHeight          string         `db:"header_height"`
	HeaderBackgroundColor string         `db:"header_background_color"`
	FooterHTML            string         `db:"footer_html"`
	FooterHeight          string         `db:"footer_height"`
	FooterBackgroundColor string         `db:"footer_background_color"`
	WatermarkEnabled      bool           `db:"watermark_enabled"`
	WatermarkText         string         `db:"watermark_text"`
	WatermarkOpacity      float64        `db:"watermark_opacity"`
	PaperSize             string         `db:"paper_size"`
	Orientation           string         `db:"orientation"`
	MarginTop             string         `db:"margin_top"`
	MarginBottom          string         `db:"margin_bottom"`
	MarginLeft            string         `db:"margin_left"`
	MarginRight           string         `db:"margin_right"`
	FontFamily            string         `db:"font_family"`
	FontSizeBody          string         `db:"font_size_body"`
	FontSizeHeading       string         `db:"font_size_heading"`
	FontSizeSubheading    string         `db:"font_size_subheading"`
	PrimaryColor          string         `db:"primary_color"`
	SecondaryColor        string         `db:"secondary_color"`
	AccentColor           string         `db:"accent_color"`
	BorderColor           string         `db:"border_color"`
	PageNumberingEnabled  bool           `db:"page_numbering_enabled"`
	PageNumberingFormat   string         `db:"page_numbering_format"`
	PageNumberingPosition string         `db:"page_numbering_position"`
	SignatureEnabled      bool           `db:"signature_section_enabled"`
	SignatureLabels       pq.StringArray `db:"signature_labels"`
	SignatureLineWidth    string         `db:"signature_line_width"`
}

var textColumns = []string{
	"institution_name", "affiliation", "address", "accreditation_text",
	"template_name", "template_type", "logo_url", "logo_width", "logo_height",
	"logo_position", "secondary_logo_url", "header_html", "header_height",
	"header_background_color", "footer_html", "footer_height",
	"footer_background_color", "watermark_text", "paper_size", "orientation",
	"margin_top", "margin_bottom", "margin_left", "margin_right",
	"font_family", "font_size_body", "font_size_heading", "font_size_subheading",
	"primary_color", "secondary_color", "accent_color", "border_color",
	"page_numbering_format", "page_numbering_position", "signature_line_width",
}

// selectQuery builds the SELECT for table. The table name is quoted as an
// identifier; every other value is a bind parameter.
func selectQuery(table string) string {
	cols := []string{
		"id::text AS id",
		"institution_code",
		"COALESCE(to_char(wef_date, 'YYYY-MM-DD'), '') AS wef_date",
		"COALESCE(to_char(wef_time, 'HH24:MI'), '') AS wef_time",
		"active",
		"COALESCE(watermark_enabled, false) AS watermark_enabled",
		"COALESCE(watermark_opacity, 0) AS watermark_opacity",
		"COALESCE(page_numbering_enabled, true) AS page_numbering_enabled",
		"COALESCE(signature_section_enabled, true) AS signature_section_enabled",
		"COALESCE(signature_labels, '{}') AS signature_labels",
	}
	for _, c := range textColumns {
		cols = append(cols, fmt.Sprintf("COALESCE(%s, '') AS %s", c, c))
	}
	return fmt.Sprintf(
		"SELECT %s FROM %s WHERE institution_code = $1 AND active = true ORDER BY id",
		strings.Join(cols, ", "), pq.QuoteIdentifier(table),
	)
}

// NewSQLSource wraps an open database handle.
func NewSQLSource(db *sqlx.DB, table string) *SQLSource {
	if table == "" {
		table = DefaultTable
	}
	return &SQLSource{db: db, query: selectQuery(table)}
}

// OpenSQLSource connects to PostgreSQL with a lib/pq DSN.
func OpenSQLSource(ctx context.Context, dsn string) (*SQLSource, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to settings database: %w", err)
	}
	return NewSQLSource(db, DefaultTable), nil
}

// Close closes the database handle.
func (s *SQLSource) Close() error {
	return s.db.Close()
}

// Templates returns the institution's active templates.
func (s *SQLSource) Templates(ctx context.Context, institution string) ([]*marksheet.Settings, error) {
	var rows []settingsRow
	if err := s.db.SelectContext(ctx, &rows, s.query, institution); err != nil {
		return nil, fmt.Errorf("querying %s: %w", DefaultTable, err)
	}
	out := make([]*marksheet.Settings, len(rows))
	for i, r := range rows {
		out[i] = withDefaults(r.settings())
	}
	return out, nil
}

func (r settingsRow) settings() *marksheet.Settings {
	return &marksheet.Settings{
		ID:                    r.ID,
		InstitutionCode:       r.InstitutionCode,
		InstitutionName:       r.InstitutionName,
		Affiliation:           r.Affiliation,
		Address:               r.Address,
		AccreditationText:     r.AccreditationText,
		TemplateName:          r.TemplateName,
		TemplateType:          r.TemplateType,
		WEFDate:               r.WEFDate,
		WEFTime:               r.WEFTime,
		Active:                r.Active,
		LogoURL:               r.LogoURL,
		LogoWidth:             r.LogoWidth,
		LogoHeight:            r.LogoHeight,
		LogoPosition:          r.LogoPosition,
		SecondaryLogoURL:      r.SecondaryLogoURL,
		HeaderHTML:            r.HeaderHTML,
		HeaderHeight:          r.HeaderHeight,
		HeaderBackgroundColor: r.HeaderBackgroundColor,
		FooterHTML:            r.FooterHTML,
		FooterHeight:          r.FooterHeight,
		FooterBackgroundColor: r.FooterBackgroundColor,
		WatermarkEnabled:      r.WatermarkEnabled,
		WatermarkText:         r.WatermarkText,
		WatermarkOpacity:      r.WatermarkOpacity,
		PaperSize:             r.PaperSize,
		Orientation:           r.Orientation,
		MarginTop:             r.MarginTop,
		MarginBottom:          r.MarginBottom,
		MarginLeft:            r.MarginLeft,
		MarginRight:           r.MarginRight,
		FontFamily:            r.FontFamily,
		FontSizeBody:          r.FontSizeBody,
		FontSizeHeading:       r.FontSizeHeading,
		FontSizeSubheading:    r.FontSizeSubheading,
		PrimaryColor:          r.PrimaryColor,
		SecondaryColor:        r.SecondaryColor,
		AccentColor:           r.AccentColor,
		BorderColor:           r.BorderColor,
		PageNumberingEnabled:  r.PageNumberingEnabled,
		PageNumberingFormat:   r.PageNumberingFormat,
		PageNumberingPosition: r.PageNumberingPosition,
		SignatureEnabled:      r.SignatureEnabled,
		SignatureLabels:       []string(r.SignatureLabels),
		SignatureLineWidth:    r.SignatureLineWidth,
	}
}
