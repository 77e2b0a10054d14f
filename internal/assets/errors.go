package assets

import "errors"

// Sentinel errors for asset operations.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath means the asset directory is missing or unreadable.
	ErrInvalidBasePath = errors.New("invalid base path")

	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal means a resolved asset path left the asset directory,
	// typically through a symlink.
	ErrPathTraversal = errors.New("path traversal detected")
)

// IsNotFound reports whether err means the asset does not exist, as opposed
// to an invalid name or an I/O failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}
