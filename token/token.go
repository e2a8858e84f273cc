package token

type TokType int

type Token struct {
	Type    TokType
	Literal string
}

const (
	Illegal TokType = iota
	EOF

	// Identifiers and ints
	ID
	Int

	// Update markers
	Update   // \u
	NoUpdate // \n

	// Operators
	Arrow    // ->
	DblArrow // =>
	Bind     // =

	Plus  // +
	Minus // -
	Mult  // *
	Div   // /

	// Delimiters
	LBrace    // {
	RBrace    // }
	LParen    // (
	RParen    // )
	Comma     // ,
	Semicolon // ;

	// Keywords
	Define
	Let
	Letrec
	In
	Case
	Of

	// Unused
	NumTokenTypes
)

// Note that the order of these is significant:
// e.g. "->" must come before "-"
func GetOperators() []Token {
	return []Token{
		{Arrow, "->"},
		{DblArrow, "=>"},
		{Bind, "="},

		{Plus, "+"},
		{Minus, "-"},
		{Mult, "*"},
		{Div, "/"},

		{LBrace, "{"},
		{RBrace, "}"},
		{LParen, "("},
		{RParen, ")"},
		{Comma, ","},
		{Semicolon, ";"},
	}
}

var keywords = map[string]TokType{
	"define": Define,
	"let":    Let,
	"letrec": Letrec,
	"in":     In,
	"case":   Case,
	"of":     Of,
}

func LookupID(id string) TokType {
	if tok, ok := keywords[id]; ok {
		return tok
	}

	return ID
}
