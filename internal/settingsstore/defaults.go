package settingsstore

import marksheet "github.com/alnah/go-marksheet"

// withDefaults fills the unset presentation fields of s from
// marksheet.DefaultSettings. Booleans are taken as stored.
func withDefaults(s *marksheet.Settings) *marksheet.Settings {
	d := marksheet.DefaultSettings(s.InstitutionCode)
	fields := []struct{ dst, def *string }{
		{&s.TemplateName, &d.TemplateName},
		{&s.TemplateType, &d.TemplateType},
		{&s.LogoPosition, &d.LogoPosition},
		{&s.PaperSize, &d.PaperSize},
		{&s.Orientation, &d.Orientation},
		{&s.MarginTop, &d.MarginTop},
		{&s.MarginBottom, &d.MarginBottom},
		{&s.MarginLeft, &d.MarginLeft},
		{&s.MarginRight, &d.MarginRight},
		{&s.FontFamily, &d.FontFamily},
		{&s.FontSizeBody, &d.FontSizeBody},
		{&s.FontSizeHeading, &d.FontSizeHeading},
		{&s.FontSizeSubheading, &d.FontSizeSubheading},
		{&s.PrimaryColor, &d.PrimaryColor},
		{&s.SecondaryColor, &d.SecondaryColor},
		{&s.AccentColor, &d.AccentColor},
		{&s.BorderColor, &d.BorderColor},
		{&s.PageNumberingFormat, &d.PageNumberingFormat},
		{&s.PageNumberingPosition, &d.PageNumberingPosition},
		{&s.SignatureLineWidth, &d.SignatureLineWidth},
	}
	for _, f := range fields {
		if *f.dst == "" {
			*f.dst = *f.def
		}
	}
	if len(s.SignatureLabels) == 0 {
		s.SignatureLabels = d.SignatureLabels
	}
	return s
}
