package marksheet

import "context"

// Backend draws a paginated document to PDF bytes.
// Implementations must not modify the document.
type Backend interface {
	Draw(ctx context.Context, doc *Document) ([]byte, error)
	Close() error
}

// Compile-time interface implementation checks.
var (
	_ Backend = (*FPDFBackend)(nil)
	_ Backend = (*BrowserBackend)(nil)
)
