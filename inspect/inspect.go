// Package inspect parses rendered CSS back into declarations grouped by media
// block so callers can assert on properties instead of raw strings.
package inspect

import (
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ErrUnbalanced reports a media block without its closing brace.
var ErrUnbalanced = errors.New("inspect: unbalanced braces")

// Declaration is a parsed property/value pair.
type Declaration struct {
	Property string
	Value    string
}

// Block is a media block and its declarations.
type Block struct {
	Query        string
	Declarations []Declaration
}

// Get returns the last value declared for property.
func (b Block) Get(property string) (string, bool) {
	return lookup(b.Declarations, property)
}

// Sheet is rendered CSS split into top level declarations and media blocks,
// in source order.
type Sheet struct {
	Declarations []Declaration
	Media        []Block
}

// Get returns the last top level value declared for property.
func (s *Sheet) Get(property string) (string, bool) {
	return lookup(s.Declarations, property)
}

// Block returns the first media block with the given query.
func (s *Sheet) Block(query string) (Block, bool) {
	for _, block := range s.Media {
		if block.Query == query {
			return block, true
		}
	}
	return Block{}, false
}

// Properties lists top level properties in first-seen order.
func (s *Sheet) Properties() []string {
	seen := make(map[string]struct{}, len(s.Declarations))
	out := make([]string, 0, len(s.Declarations))
	for _, decl := range s.Declarations {
		if _, ok := seen[decl.Property]; ok {
			continue
		}
		seen[decl.Property] = struct{}{}
		out = append(out, decl.Property)
	}
	return out
}

// Queries lists media queries in source order.
func (s *Sheet) Queries() []string {
	out := make([]string, len(s.Media))
	for i, block := range s.Media {
		out[i] = block.Query
	}
	return out
}

func lookup(decls []Declaration, property string) (string, bool) {
	for i := len(decls) - 1; i >= 0; i-- {
		if decls[i].Property == property {
			return decls[i].Value, true
		}
	}
	return "", false
}

// Parse splits rendered CSS into a Sheet.
func Parse(source string) (*Sheet, error) {
	sheet := &Sheet{}
	lexer := css.NewLexer(parse.NewInputString(source))

	var top strings.Builder
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			break
		}
		if tt != css.AtKeywordToken || !strings.EqualFold(string(data), "@media") {
			top.Write(data)
			continue
		}

		query, body, err := readMedia(lexer)
		if err != nil {
			return nil, err
		}
		decls, err := parseDeclarations(body)
		if err != nil {
			return nil, err
		}
		sheet.Media = append(sheet.Media, Block{Query: query, Declarations: decls})
	}

	decls, err := parseDeclarations(top.String())
	if err != nil {
		return nil, err
	}
	sheet.Declarations = decls
	return sheet, nil
}

// readMedia consumes the prelude and body of a media rule whose @media
// keyword was just read.
func readMedia(lexer *css.Lexer) (string, string, error) {
	var prelude strings.Builder
	for {
		tt, data := lexer.Next()
		switch tt {
		case css.ErrorToken:
			return "", "", ErrUnbalanced
		case css.LeftBraceToken:
			body, err := readBlock(lexer)
			return collapse(prelude.String()), body, err
		default:
			prelude.Write(data)
		}
	}
}

func readBlock(lexer *css.Lexer) (string, error) {
	var body strings.Builder
	depth := 1
	for {
		tt, data := lexer.Next()
		switch tt {
		case css.ErrorToken:
			return "", ErrUnbalanced
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			depth--
			if depth == 0 {
				return body.String(), nil
			}
		}
		body.Write(data)
	}
}

func parseDeclarations(source string) ([]Declaration, error) {
	if strings.TrimSpace(source) == "" {
		return nil, nil
	}
	parser := css.NewParser(parse.NewInputString(source), true)
	var decls []Declaration
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return decls, nil
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			decls = append(decls, Declaration{
				Property: string(data),
				Value:    joinTokens(parser.Values()),
			})
		}
	}
}

func joinTokens(tokens []css.Token) string {
	var b strings.Builder
	for _, token := range tokens {
		if token.TokenType == css.WhitespaceToken {
			b.WriteByte(' ')
			continue
		}
		b.Write(token.Data)
	}
	return collapse(b.String())
}

func collapse(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
