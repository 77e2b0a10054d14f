// Package assets provides the stylesheets and page template of the browser
// backend.
//
// Loaders share one directory layout:
//
//	{basePath}/
//	├── styles/{name}.css       marksheet.css is always loaded, others layer on top
//	└── templates/{name}.html   document.html renders a whole document
//
// EmbeddedLoader serves the copies compiled into the binary and
// FilesystemLoader an institution's override directory. AssetResolver
// tries the override first and falls back per file.
//
// The page template receives boxes already positioned in millimetres, so an
// override can restyle a marksheet but not repaginate it.
//
// Names are bare identifiers. The filesystem loader also resolves symlinks
// and refuses files outside its directory.
package assets
