package tlex

import (
	"github.com/2x3systems/tagkit/tagkit"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/pkg/errors"
)

// Routine is a named instruction program, compiled once and swept across the whole token array per Lexer run.
type Routine struct {
	Name  string
	prog  *program
	instr []Instruction
}

// program is one compiled frame: an instruction list plus the labels it defines.
// A Block body compiles to its own program, so labels never cross a Block boundary.
type program struct {
	ops    []op
	labels *redblacktree.Tree // label name => index of its Label instruction
}

type op struct {
	Instruction
	target int      // Goto: index of the resolved Label
	sub    *program // Block: compiled body
}

// NewRoutine compiles and validates the given instructions.
//
// Authoring defects are reported here rather than at sweep time:
//   - ErrUndefinedLabel: a Goto names a label not defined in its own frame
//   - ErrDuplicateLabel: a frame defines the same label twice
//   - ErrBadLayout: If / Else not laid out as [If, guarded] or [If, guarded, Else, guarded]
func NewRoutine(name string, instrs ...Instruction) (*Routine, error) {
	prog, err := compile(instrs, name)
	if err != nil {
		return nil, err
	}
	return &Routine{
		Name:  name,
		prog:  prog,
		instr: instrs,
	}, nil
}

// MustNewRoutine is NewRoutine but panics on error.
func MustNewRoutine(name string, instrs ...Instruction) *Routine {
	r, err := NewRoutine(name, instrs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Instructions returns the instructions this Routine was built from.
func (r *Routine) Instructions() []Instruction {
	return r.instr
}

// Labels returns the labels defined by the Routine's top-level frame, sorted by name.
func (r *Routine) Labels() []string {
	keys := r.prog.labels.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.(string)
	}
	return names
}

func compile(instrs []Instruction, where string) (*program, error) {
	prog := &program{
		ops:    make([]op, len(instrs)),
		labels: redblacktree.NewWithStringComparator(),
	}

	// Pass 1: labels for this frame
	for i, in := range instrs {
		prog.ops[i].Instruction = in
		if in.Op != OpCode_Label {
			continue
		}
		if _, exists := prog.labels.Get(in.Arg); exists {
			return nil, errors.Wrapf(tagkit.ErrDuplicateLabel, "%s: instruction %d: label %q", where, i, in.Arg)
		}
		prog.labels.Put(in.Arg, i)
	}

	// Pass 2: layout, jump targets and nested frames
	N := len(instrs)
	for i, in := range instrs {
		switch in.Op {
		case OpCode_If:
			if i+1 >= N {
				return nil, errors.Wrapf(tagkit.ErrBadLayout, "%s: instruction %d: %v has no guarded instruction", where, i, in)
			}
			if g := instrs[i+1].Op; g == OpCode_If || g == OpCode_Else {
				return nil, errors.Wrapf(tagkit.ErrBadLayout, "%s: instruction %d: %v cannot guard %v", where, i, in, g)
			}
		case OpCode_Else:
			if i < 2 || instrs[i-2].Op != OpCode_If {
				return nil, errors.Wrapf(tagkit.ErrBadLayout, "%s: instruction %d: else does not follow a guarded if", where, i)
			}
			if i+1 >= N {
				return nil, errors.Wrapf(tagkit.ErrBadLayout, "%s: instruction %d: else has no guarded instruction", where, i)
			}
			if g := instrs[i+1].Op; g == OpCode_If || g == OpCode_Else {
				return nil, errors.Wrapf(tagkit.ErrBadLayout, "%s: instruction %d: else cannot guard %v", where, i, g)
			}
		case OpCode_Goto:
			target, exists := prog.labels.Get(in.Arg)
			if !exists {
				return nil, errors.Wrapf(tagkit.ErrUndefinedLabel, "%s: instruction %d: goto %s", where, i, in.Arg)
			}
			prog.ops[i].target = target.(int)
		case OpCode_Block:
			sub, err := compile(in.Body, where+"/do")
			if err != nil {
				return nil, err
			}
			prog.ops[i].sub = sub
		case OpCode_Nil:
			return nil, errors.Wrapf(tagkit.ErrBadLayout, "%s: instruction %d: missing op", where, i)
		}
	}

	return prog, nil
}
