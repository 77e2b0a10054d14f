// Package settingsstore resolves the PDF template settings an institution
// has in effect for a document type.
//
// Templates come from a Source: an in-memory list, a YAML file, or the
// pdf_institution_settings table of a PostgreSQL database. A Store picks
// the active template with the latest effective date (WEF) that is not in
// the future, falls back to the institution's "default" template, and
// caches the answer for a few minutes.
//
//	src, err := settingsstore.NewFileSource("templates.yaml")
//	store := settingsstore.New(src, settingsstore.WithTTL(time.Minute))
//	settings, err := store.Resolve(ctx, "INST01", marksheet.TemplateHallTicket)
package settingsstore
