package tenscript

import "unicode/utf8"

// Scanner turns source text into tokens. A ';' starts a comment that runs
// to the end of the line.
type Scanner struct {
	input []byte
	pos   int
	line  int
	col   int
}

func NewScanner(input []byte) *Scanner {
	return &Scanner{input: input, line: 1, col: 1}
}

// Scan returns every token up to and including TokenEOF.
func Scan(source string) ([]Token, error) {
	s := NewScanner([]byte(source))
	var tokens []Token
	for {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func (s *Scanner) Next() (Token, error) {
	s.skipSpaceAndComments()
	start := s.here()
	if s.pos >= len(s.input) {
		return Token{Type: TokenEOF, Pos: start}, nil
	}
	ch := s.peek()
	switch {
	case ch == '(':
		s.advance()
		return Token{Type: TokenLParen, Literal: "(", Pos: start}, nil
	case ch == ')':
		s.advance()
		return Token{Type: TokenRParen, Literal: ")", Pos: start}, nil
	case ch == '"' || ch == '\'':
		return s.readString(start)
	case ch == ':':
		s.advance()
		name := s.readWord()
		if name == "" {
			return Token{}, &Error{Pos: start, Term: ":", Expected: "name after ':'", Wrapped: ErrIllegalChar}
		}
		return Token{Type: TokenAtom, Literal: name, Pos: start}, nil
	case isDigit(ch) || ch == '.' || (ch == '-' && isDigit(s.peekAt(1))):
		return s.readNumber(start)
	case isAlpha(ch):
		return Token{Type: TokenIdent, Literal: s.readWord(), Pos: start}, nil
	}
	s.advance()
	return Token{}, &Error{Pos: start, Term: string(ch), Wrapped: ErrIllegalChar}
}

func (s *Scanner) here() Pos { return Pos{Line: s.line, Col: s.col} }

func (s *Scanner) advance() rune {
	if s.pos >= len(s.input) {
		return 0
	}
	r, w := utf8.DecodeRune(s.input[s.pos:])
	s.pos += w
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r
}

func (s *Scanner) peek() rune { return s.peekAt(0) }

func (s *Scanner) peekAt(offset int) rune {
	pos := s.pos
	for ; offset > 0 && pos < len(s.input); offset-- {
		_, w := utf8.DecodeRune(s.input[pos:])
		pos += w
	}
	if pos >= len(s.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(s.input[pos:])
	return r
}

func (s *Scanner) skipSpaceAndComments() {
	for s.pos < len(s.input) {
		switch ch := s.peek(); {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			s.advance()
		case ch == ';':
			for s.pos < len(s.input) && s.peek() != '\n' {
				s.advance()
			}
		default:
			return
		}
	}
}

func (s *Scanner) readWord() string {
	start := s.pos
	if !isAlpha(s.peek()) {
		return ""
	}
	for s.pos < len(s.input) && isWordChar(s.peek()) {
		s.advance()
	}
	return string(s.input[start:s.pos])
}

func (s *Scanner) readString(start Pos) (Token, error) {
	quote := s.advance()
	begin := s.pos
	for {
		if s.pos >= len(s.input) {
			return Token{}, &Error{Pos: start, Term: string(s.input[begin-1:]), Wrapped: ErrUnterminatedString}
		}
		if s.peek() == quote {
			break
		}
		s.advance()
	}
	literal := string(s.input[begin:s.pos])
	s.advance()
	return Token{Type: TokenString, Literal: literal, Pos: start}, nil
}

func (s *Scanner) readNumber(start Pos) (Token, error) {
	begin := s.pos
	if s.peek() == '-' {
		s.advance()
	}
	typ := TokenInteger
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' {
		typ = TokenFloat
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	literal := string(s.input[begin:s.pos])
	if literal == "." || literal == "-." {
		return Token{}, &Error{Pos: start, Term: literal, Expected: "number", Wrapped: ErrIllegalChar}
	}
	if s.peek() == '%' {
		s.advance()
		typ = TokenPercent
	}
	if isAlpha(s.peek()) {
		return Token{}, &Error{Pos: start, Term: literal + string(s.peek()), Expected: "number", Wrapped: ErrIllegalChar}
	}
	return Token{Type: typ, Literal: literal, Pos: start}, nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isAlpha(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }

func isWordChar(r rune) bool {
	return isAlpha(r) || isDigit(r) || r == '-' || r == '+' || r == '_'
}
