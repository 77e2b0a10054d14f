package assets

import (
	"fmt"
	"sort"
)

// AssetResolver reads from an optional override directory first and falls
// back to the embedded assets for anything the directory lacks.
type AssetResolver struct {
	custom   Loader // nil without an override directory
	embedded Loader
}

// NewAssetResolver creates a resolver. An empty customBasePath uses the
// embedded assets only; a non-empty one must be a readable directory.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		fsl, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsl
	}
	return r, nil
}

// Load implements Loader. Only not-found errors fall back; an invalid name
// or an unreadable override is reported.
func (r *AssetResolver) Load(kind Kind, name string) (string, error) {
	if r.custom == nil {
		return r.embedded.Load(kind, name)
	}
	content, err := r.custom.Load(kind, name)
	if err == nil || !IsNotFound(err) {
		return content, err
	}
	return r.embedded.Load(kind, name)
}

// Names implements Loader, merging override and embedded names.
func (r *AssetResolver) Names(kind Kind) []string {
	names := r.embedded.Names(kind)
	if r.custom == nil {
		return names
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	for _, n := range r.custom.Names(kind) {
		if !seen[n] {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// LoadStyle loads a stylesheet by name.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.Load(KindStyle, name)
}

// LoadTemplate loads a page template by name.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.Load(KindTemplate, name)
}

// Stylesheet returns the base style with style layered over it. An empty
// style or the base name gives the base style alone.
func (r *AssetResolver) Stylesheet(style string) (string, error) {
	css, err := r.LoadStyle(DefaultStyleName)
	if err != nil {
		return "", fmt.Errorf("loading style %q: %w", DefaultStyleName, err)
	}
	if style == "" || style == DefaultStyleName {
		return css, nil
	}
	extra, err := r.LoadStyle(style)
	if err != nil {
		return "", fmt.Errorf("loading style %q: %w", style, err)
	}
	return css + "\n" + extra, nil
}

// HasCustomLoader reports whether an override directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

var _ Loader = (*AssetResolver)(nil)
