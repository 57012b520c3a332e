// Package parser dispatches parsing to the dialect-specific parsers.
package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/gostyle/pkg/langdetect"
	"github.com/yaklabco/gostyle/pkg/parser/html"
	"github.com/yaklabco/gostyle/pkg/parser/scss"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

// ErrUnsupportedDialect is returned when a file is neither HTML nor SCSS.
var ErrUnsupportedDialect = errors.New("unsupported dialect")

// Parser selects the HTML or SCSS parser per file.
// It implements lint.Parser and is safe for concurrent use.
type Parser struct {
	html *html.Parser
	scss *scss.Parser

	// forced, when set, overrides detection for every file.
	forced syntax.Dialect
}

// Option configures a Parser.
type Option func(*Parser)

// WithDialect forces every file to be parsed as the given dialect.
func WithDialect(d syntax.Dialect) Option {
	return func(p *Parser) {
		p.forced = d
	}
}

// New creates a dispatching parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		html: html.New(),
		scss: scss.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse detects the dialect of path and delegates to the matching parser.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*syntax.FileSnapshot, error) {
	dialect := p.forced
	if dialect == syntax.DialectUnknown {
		dialect = langdetect.DetectDialect(path, content)
	}

	return p.ParseDialect(ctx, dialect, path, content)
}

// ParseDialect parses content as the given dialect without detection.
func (p *Parser) ParseDialect(
	ctx context.Context,
	dialect syntax.Dialect,
	path string,
	content []byte,
) (*syntax.FileSnapshot, error) {
	switch dialect {
	case syntax.DialectHTML:
		return p.html.Parse(ctx, path, content)
	case syntax.DialectSCSS:
		return p.scss.Parse(ctx, path, content)
	case syntax.DialectUnknown:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, path)
	default:
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedDialect, path, dialect)
	}
}
