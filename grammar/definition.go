package grammar

import (
	"github.com/2x3systems/tagkit/tagkit"
	"github.com/2x3systems/tagkit/tlex"
	"github.com/2x3systems/tagkit/tparse"
	"github.com/pkg/errors"
)

// Definition pairs a Lexer with a Parser.
type Definition struct {
	Name   string
	Lexer  *tlex.Lexer
	Parser *tparse.Parser
}

// RunOpts specifies params for Definition.Run
type RunOpts struct {
	Lex   tagkit.LexOpts
	Parse tagkit.ParseOpts
}

// Result is what a Definition produces from one text.
type Result struct {
	Tokens tagkit.Tokens  // lexer output
	Nodes  []*tagkit.Node // parser output (top-level nodes)
	Stats  tagkit.ParseStats
}

// Compile parses a definition source and builds its routines and rules.
// Syntax errors wrap tagkit.ErrBadDefinition; routine and rule defects keep their own cause.
func Compile(name, src string) (*Definition, error) {
	ast, err := sParseDef.ParseString(name, src)
	if err != nil {
		return nil, errors.Wrapf(tagkit.ErrBadDefinition, "%v", err)
	}

	def := &Definition{
		Name:   name,
		Lexer:  tlex.NewLexer(),
		Parser: tparse.NewParser(),
	}

	for _, sec := range ast.Sections {
		if sec.Lexer != nil {
			for _, rd := range sec.Lexer.Routines {
				r, err := rd.build()
				if err != nil {
					return nil, err
				}
				def.Lexer.Routines = append(def.Lexer.Routines, r)
			}
		}
		if sec.Parser != nil {
			for _, rd := range sec.Parser.Rules {
				rule, err := rd.build()
				if err != nil {
					return nil, err
				}
				def.Parser.Rules = append(def.Parser.Rules, rule)
			}
		}
	}

	return def, nil
}

// MustCompile is Compile but panics on error.
func MustCompile(name, src string) *Definition {
	def, err := Compile(name, src)
	if err != nil {
		panic(err)
	}
	return def
}

// Run tokenizes text, lexes the tokens, lifts them to leaves and parses them to fixpoint.
func (def *Definition) Run(text, file string, opts RunOpts) (*Result, error) {
	res := &Result{
		Tokens: tagkit.Tokenize(text, file),
	}
	if err := def.Lexer.Lex(&res.Tokens, opts.Lex); err != nil {
		return nil, err
	}

	res.Nodes = tagkit.Lift(res.Tokens)

	var err error
	res.Stats, err = def.Parser.Parse(&res.Nodes, opts.Parse)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (rd *routineDecl) build() (*tlex.Routine, error) {
	instrs := buildInstrs(rd.Instrs)
	r, err := tlex.NewRoutine(rd.Name, instrs...)
	if err != nil {
		return nil, errors.Wrapf(err, "%v", rd.Pos)
	}
	return r, nil
}

func buildInstrs(decls []*instrDecl) []tlex.Instruction {
	instrs := make([]tlex.Instruction, 0, len(decls))
	for _, d := range decls {
		instrs = append(instrs, d.build())
	}
	return instrs
}

func (d *instrDecl) build() tlex.Instruction {
	switch {
	case d.Add != nil:
		return tlex.Add(*d.Add)
	case d.If != nil:
		return tlex.If(*d.If)
	case d.Label != nil:
		return tlex.Label(*d.Label)
	case d.Goto != nil:
		return tlex.Goto(*d.Goto)
	case d.Do != nil:
		return tlex.Block(buildInstrs(d.Do.Instrs)...)
	case d.Frags != nil:
		return tlex.TagFrags(d.Frags.Tag, d.Frags.Frags...)
	}

	switch d.Op {
	case "next":
		return tlex.Next
	case "skip":
		return tlex.Skip
	case "back":
		return tlex.Back
	case "delete":
		return tlex.Delete
	case "wrap":
		return tlex.Wrap
	case "else":
		return tlex.Else
	case "cancel":
		return tlex.Cancel
	}
	return tlex.Instruction{}
}

func (rd *ruleDecl) build() (*tparse.Rule, error) {
	match := make([]string, len(rd.Match))
	repeat := tparse.NoRepeat
	for i, m := range rd.Match {
		match[i] = m.Tag
		if !m.Repeat {
			continue
		}
		if repeat != tparse.NoRepeat {
			return nil, errors.Wrapf(tagkit.ErrBadRule, "%v: more than one repeat position", rd.Pos)
		}
		repeat = i
	}

	mode := tagkit.Combine
	if rd.Mode == "annotate" {
		mode = tagkit.Annotate
	}

	rule, err := tparse.NewRule(match, repeat, mode, rd.Tags...)
	if err != nil {
		return nil, errors.Wrapf(err, "%v", rd.Pos)
	}
	return rule, nil
}
