package assets

import (
	"fmt"
	"path"
)

// Kind selects a family of assets: where it lives and its extension.
type Kind int

const (
	// KindStyle is a CSS stylesheet under styles/.
	KindStyle Kind = iota
	// KindTemplate is an html/template page under templates/.
	KindTemplate
)

// MaxAssetNameLength bounds asset names.
const MaxAssetNameLength = 64

type kindInfo struct {
	label    string
	dir      string
	ext      string
	notFound error
}

var kinds = map[Kind]kindInfo{
	KindStyle:    {"style", "styles", ".css", ErrStyleNotFound},
	KindTemplate: {"template", "templates", ".html", ErrTemplateNotFound},
}

func (k Kind) info() kindInfo {
	if ki, ok := kinds[k]; ok {
		return ki
	}
	return kindInfo{label: "unknown", dir: "unknown", ext: "", notFound: ErrAssetRead}
}

// String returns the kind label.
func (k Kind) String() string { return k.info().label }

// relPath is the slash-separated location of name inside an asset root.
func (k Kind) relPath(name string) string {
	ki := k.info()
	return path.Join(ki.dir, name+ki.ext)
}

func (k Kind) notFound(name string) error {
	return fmt.Errorf("%w: %q", k.info().notFound, name)
}

// ValidateAssetName checks that name is a bare asset name: ASCII letters,
// digits, '-' or '_'. Separators, dots and other characters are rejected
// so a name can never leave its directory or change its extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > MaxAssetNameLength {
		return fmt.Errorf("%w: %d characters, max %d", ErrInvalidAssetName, len(name), MaxAssetNameLength)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}
