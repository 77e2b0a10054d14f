// Package yamlutil is the single entry point to the YAML library. Config
// files, template files and rosters are decoded here; document identities
// are encoded here.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// Input size limits.
const (
	// MaxConfigSize bounds config and template files.
	MaxConfigSize = 1 << 20
	// MaxRosterSize bounds roster files, which carry every mark of a
	// semester batch.
	MaxRosterSize = 32 << 20
)

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

type options struct {
	strict  bool
	maxSize int
}

// Option configures decoding.
type Option func(*options)

// Strict rejects fields missing from the destination type.
func Strict() Option {
	return func(o *options) { o.strict = true }
}

// MaxSize overrides the MaxConfigSize input limit.
func MaxSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSize = n
		}
	}
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v any, opts ...Option) error {
	o := options{maxSize: MaxConfigSize}
	for _, opt := range opts {
		opt(&o)
	}

	switch {
	case len(data) == 0:
		return ErrNilData
	case len(data) > o.maxSize:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), o.maxSize)
	case v == nil:
		return ErrNilDestination
	}

	var decodeOpts []yaml.DecodeOption
	if o.strict {
		decodeOpts = append(decodeOpts, yaml.Strict())
	}
	if err := yaml.UnmarshalWithOptions(data, v, decodeOpts...); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict is Unmarshal with Strict.
func UnmarshalStrict(data []byte, v any) error {
	return Unmarshal(data, v, Strict())
}

// Marshal encodes v. Struct fields keep declaration order, so equal values
// always encode to the same bytes.
func Marshal(v any) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}
