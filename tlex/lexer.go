package tlex

import (
	"github.com/2x3systems/tagkit/tagkit"
	"github.com/plan-systems/klog"
)

// Lexer is an ordered list of Routines.
type Lexer struct {
	Routines []*Routine
}

func NewLexer(routines ...*Routine) *Lexer {
	return &Lexer{
		Routines: routines,
	}
}

// Lex sweeps each Routine over code in order, mutating code in place.
// Each Routine sees everything earlier Routines did to the array.
//
// A non-nil error is always an authoring defect (see NewRoutine and tagkit.ErrStepLimit); input text alone never causes one.
func (lx *Lexer) Lex(code *tagkit.Tokens, opts tagkit.LexOpts) error {
	if code == nil {
		return tagkit.ErrNilSequence
	}
	for _, r := range lx.Routines {
		if opts.Verbose {
			klog.Infof("starting routine %q over %d tokens", r.Name, len(*code))
		}
		if err := r.Sweep(code, opts); err != nil {
			return err
		}
	}
	return nil
}
