package grammar

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// A definition file is any number of lexer and parser sections:
//
//	lexer {
//	    routine ints {
//	        if "nonzero" skip else cancel
//	        label Test
//	        next
//	        if "digit" goto Test
//	        do { wrap back add "int" add "posInt" }
//	    }
//	}
//	parser {
//	    rule "int" "int" => combine "pair"
//	    rule "a" "b"* "c" => annotate "abc"
//	}
type defFile struct {
	Sections []*section `@@*`
}

type section struct {
	Lexer  *lexerDecl  `  @@`
	Parser *parserDecl `| @@`
}

type lexerDecl struct {
	Routines []*routineDecl `"lexer" "{" @@* "}"`
}

type routineDecl struct {
	Pos    lexer.Position
	Name   string       `"routine" @Ident`
	Instrs []*instrDecl `"{" @@* "}"`
}

type instrDecl struct {
	Pos   lexer.Position
	Op    string     `  @( "next" | "skip" | "back" | "delete" | "wrap" | "else" | "cancel" )`
	Add   *string    `| "add" @String`
	If    *string    `| "if" @String`
	Label *string    `| "label" @Ident`
	Goto  *string    `| "goto" @Ident`
	Do    *blockDecl `| "do" @@`
	Frags *fragsDecl `| "tagfrags" @@`
}

type blockDecl struct {
	Instrs []*instrDecl `"{" @@* "}"`
}

type fragsDecl struct {
	Tag   string   `@String`
	Frags []string `@String*`
}

type parserDecl struct {
	Rules []*ruleDecl `"parser" "{" @@* "}"`
}

type ruleDecl struct {
	Pos   lexer.Position
	Match []*matchDecl `"rule" @@+`
	Mode  string       `"=>" @( "combine" | "annotate" )`
	Tags  []string     `@String*`
}

type matchDecl struct {
	Tag    string `@String`
	Repeat bool   `@"*"?`
}

var sDefLexer = lexer.MustSimple([]lexer.SimpleRule{
	{"comment", `(?:#|//)[^\n]*`},
	{"String", `"(?:\\.|[^"\\])*"`},
	{"Ident", `[A-Za-z_][A-Za-z0-9_]*`},
	{"Punct", `=>|[{}*]`},
	{"whitespace", `\s+`},
})

var sParseDef = participle.MustBuild[defFile](
	participle.Lexer(sDefLexer),
	participle.Unquote("String"),
)
