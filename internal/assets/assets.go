package assets

// DefaultStyleName is the base style every document loads.
const DefaultStyleName = "marksheet"

// DocumentTemplateName is the page template rendering a whole document.
const DocumentTemplateName = "document"

// Loader reads assets of one kind by bare name.
type Loader interface {
	// Load returns the asset, or an error matching IsNotFound when it
	// does not exist.
	Load(kind Kind, name string) (string, error)
	// Names lists the assets of kind, sorted.
	Names(kind Kind) []string
}

var embeddedAssets = NewEmbeddedLoader()

// LoadStyle loads an embedded stylesheet.
func LoadStyle(name string) (string, error) {
	return embeddedAssets.Load(KindStyle, name)
}

// LoadTemplate loads an embedded page template.
func LoadTemplate(name string) (string, error) {
	return embeddedAssets.Load(KindTemplate, name)
}

// StyleNames lists the embedded styles.
func StyleNames() []string {
	return embeddedAssets.Names(KindStyle)
}
