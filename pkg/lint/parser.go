package lint

import (
	"context"

	"github.com/yaklabco/gostyle/pkg/syntax"
)

// Parser turns file content into a FileSnapshot. pkg/parser provides the
// implementation that dispatches on dialect.
//
// Parse must be deterministic, free of I/O and safe for concurrent use.
// Malformed markup is not an error; it is recovered and recorded in
// SyntaxErrors. Errors mean cancellation or unsupported input. The
// snapshot keeps path and content as given, has a non-nil Root, and its
// tokens tile the content exactly (syntax.ValidateTokens).
type Parser interface {
	Parse(ctx context.Context, path string, content []byte) (*syntax.FileSnapshot, error)
}
