// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package word

import (
	"fmt"

	"nickandperla.net/ua/internal/scanner"
	"nickandperla.net/ua/internal/token"
)

// Parse turns ua source into a File. The source is expected to be
// formatted already; unformatted names pass through as Name words.
func Parse(source string) (*File, error) {
	p := &parser{scan: scanner.New(source)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	var file File
	for p.cur.Token != token.EOF {
		line, err := p.parseLine()
		if err != nil {
			return nil, err
		}
		if line != nil {
			file.Lines = append(file.Lines, *line)
		}
	}
	return &file, nil
}

type parser struct {
	scan *scanner.Scanner
	cur  *scanner.Item
}

func (p *parser) advance() error {
	item, err := p.scan.Next()
	if err != nil {
		return err
	}
	p.cur = item
	return nil
}

// parseLine parses one source line, returning nil for blank lines.
func (p *parser) parseLine() (*Line, error) {
	for p.cur.Token == token.NEWLINE {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.cur.Token == token.EOF {
		return nil, nil
	}

	num := p.cur.Line

	if p.cur.Token == token.SCOPE {
		if err := p.advance(); err != nil {
			return nil, err
		}
		line := &Line{Num: num, Scope: true}
		if p.cur.Token == token.NAME && p.cur.Str == "test" && p.cur.Line == num {
			line.Test = true
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		return line, p.endOfLine(num)
	}

	words, err := p.parseWords(num, token.EOF)
	if err != nil {
		return nil, err
	}

	// Binding line: NAME ← rest
	if p.cur.Token == token.BIND && p.cur.Line == num {
		if len(words) != 1 {
			return nil, fmt.Errorf("line %d: misplaced %c", num, token.RuneBind)
		}
		name, ok := words[0].(Name)
		if !ok {
			return nil, fmt.Errorf("line %d: cannot bind to %s", num, words[0].String())
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		rest, err := p.parseWords(num, token.EOF)
		if err != nil {
			return nil, err
		}
		if err := p.endOfLine(num); err != nil {
			return nil, err
		}
		return &Line{Num: num, IsBind: true, Binding: name.Value, Words: rest}, nil
	}

	if err := p.endOfLine(num); err != nil {
		return nil, err
	}
	return &Line{Num: num, Words: words}, nil
}

func (p *parser) endOfLine(num int) error {
	switch p.cur.Token {
	case token.NEWLINE:
		return p.advance()
	case token.EOF:
		return nil
	}
	return fmt.Errorf("line %d: unexpected %s", num, p.cur.Token)
}

// parseWords parses words until a newline, EOF, closing delimiter, or
// a ← that belongs to this line.
func (p *parser) parseWords(num int, until token.Token) ([]Word, error) {
	var words []Word
	for {
		switch p.cur.Token {
		case token.EOF, token.NEWLINE, token.BIND,
			token.RBRACKET, token.RPAREN, token.RBRACE:
			if p.cur.Token == until || p.cur.Token == token.EOF ||
				p.cur.Token == token.NEWLINE || p.cur.Token == token.BIND {
				return words, nil
			}
			return nil, fmt.Errorf("line %d: unexpected %s", p.cur.Line, p.cur.Token)
		}
		w, err := p.parseWord(false)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
}

// parseBracketWords parses until the given closer, allowing newlines
// inside the brackets.
func (p *parser) parseBracketWords(open *scanner.Item, closer token.Token) ([]Word, error) {
	var words []Word
	for {
		switch p.cur.Token {
		case token.EOF:
			return nil, &UnclosedError{Line: open.Line, Open: open.Token}
		case token.NEWLINE:
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		case closer:
			return words, p.advance()
		case token.RBRACKET, token.RPAREN, token.RBRACE:
			return nil, fmt.Errorf("line %d: unexpected %s", p.cur.Line, p.cur.Token)
		}
		w, err := p.parseWord(false)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
}

// parseWord parses one word, attaching modifier operands and strand
// continuations. inStrand suppresses strand re-entry.
func (p *parser) parseWord(inStrand bool) (Word, error) {
	w, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if inStrand {
		return w, nil
	}
	if p.cur.Token != token.STRAND {
		return w, nil
	}

	items := []Word{w}
	for p.cur.Token == token.STRAND {
		if err := p.advance(); err != nil {
			return nil, err
		}
		item, err := p.parseWord(true)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return Strand{Items: items}, nil
}

func (p *parser) parseAtom() (Word, error) {
	item := p.cur
	switch item.Token {
	case token.NUMBER:
		return Number{Value: item.Num}, p.advance()
	case token.CHAR:
		return Char{Value: item.Rune}, p.advance()
	case token.STRING:
		return String{Value: item.Str}, p.advance()
	case token.NAME:
		return Name{Value: item.Str}, p.advance()
	case token.GLYPH:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if item.Prim.IsModifier() {
			operand, err := p.parseWord(true)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s is missing its function: %w",
					item.Line, item.Prim.Name(), err)
			}
			return Modified{Mod: item.Prim, Operand: operand}, nil
		}
		return Prim{P: item.Prim}, nil
	case token.LBRACKET:
		if err := p.advance(); err != nil {
			return nil, err
		}
		words, err := p.parseBracketWords(item, token.RBRACKET)
		if err != nil {
			return nil, err
		}
		return Array{Words: words}, nil
	case token.LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		words, err := p.parseBracketWords(item, token.RPAREN)
		if err != nil {
			return nil, err
		}
		return Group{Words: words}, nil
	case token.LBRACE:
		if err := p.advance(); err != nil {
			return nil, err
		}
		words, err := p.parseBracketWords(item, token.RBRACE)
		if err != nil {
			return nil, err
		}
		return Dfn{Words: words}, nil
	case token.SCOPE:
		return nil, fmt.Errorf("line %d: %s is only allowed at the start of a line",
			item.Line, token.ScopeDelim)
	}
	return nil, fmt.Errorf("line %d: unexpected %s", item.Line, item.Token)
}

// UnclosedError reports an unclosed bracket. Interactive callers treat
// it as retryable, like an unterminated literal.
type UnclosedError struct {
	Line int
	Open token.Token
}

func (e *UnclosedError) Error() string {
	return fmt.Sprintf("line %d: unclosed %s", e.Line, e.Open)
}
