package tenscript

import "fmt"

type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLParen
	TokenRParen
	TokenIdent   // grow, A+
	TokenAtom    // :halo-end
	TokenString  // "Halo" or 'XX.X'
	TokenInteger // 12
	TokenFloat   // 1.03
	TokenPercent // 92%
)

type Token struct {
	Type    TokenType
	Literal string
	Pos     Pos
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "end of input"
	}
	if len(t.Literal) > 20 {
		return fmt.Sprintf("%q...", t.Literal[:20])
	}
	return fmt.Sprintf("%q", t.Literal)
}
