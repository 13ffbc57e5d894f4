package dsl

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"

	"github.com/toyz/metagen/internal/errors"
)

// Parser parses model files
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser creates a model file parser
func NewParser() *Parser {
	parser := participle.MustBuild[File](
		participle.Lexer(modelLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
	return &Parser{parser: parser}
}

// Parse parses src; filename is only used in positions
func (p *Parser) Parse(filename string, src []byte) (*File, error) {
	file, err := p.parser.ParseBytes(filename, src)
	if err != nil {
		return nil, syntaxError(filename, err)
	}
	return file, nil
}

// ParseFile reads and parses the model file at path
func (p *Parser) ParseFile(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file %s: %w", path, err)
	}
	return p.Parse(path, src)
}

// syntaxError converts a participle error into a positioned SyntaxError
func syntaxError(filename string, err error) error {
	var perr participle.Error
	if !errors.As(err, &perr) {
		return errors.NewSyntaxError(filename, 0, 0, err.Error())
	}
	pos := perr.Position()
	return errors.NewSyntaxError(filename, pos.Line, pos.Column, perr.Message())
}
