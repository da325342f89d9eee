package tlex

import (
	"github.com/2x3systems/tagkit/tagkit"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// machine is the sweep state for one program frame.
type machine struct {
	code       *tagkit.Tokens
	index      int // cursor
	startIndex int // anchor of the current attempt
	ruleIndex  int // program counter
	keepGoing  bool
	steps      *int // instructions run in the current top-level attempt (shared with nested frames)
	stepLimit  int
	verbose    bool
	routine    string
}

// Sweep runs the Routine's program once per anchor position, from 0 until the anchor passes the end of code.
//
// Each attempt restarts the program at its first instruction with the cursor at the anchor, and ends when the program
// runs off its last instruction, the cursor leaves the array, or Cancel executes.
func (r *Routine) Sweep(code *tagkit.Tokens, opts tagkit.LexOpts) error {
	if code == nil {
		return tagkit.ErrNilSequence
	}
	if len(r.prog.ops) == 0 {
		return nil
	}

	steps := 0
	m := machine{
		code:      code,
		steps:     &steps,
		stepLimit: opts.StepBudget(len(*code), r.prog.size()),
		verbose:   opts.Verbose,
		routine:   r.Name,
	}

	for m.startIndex = 0; m.startIndex < len(*code); m.startIndex++ {
		steps = 0
		m.index = m.startIndex
		m.ruleIndex = 0
		if err := m.run(r.prog); err != nil {
			return err
		}
		if m.verbose {
			klog.Infof("%s: attempt ended (anchor %d, %d tokens)", m.routine, m.startIndex, len(*code))
		}
	}

	return nil
}

func (m *machine) run(prog *program) error {
	m.keepGoing = m.inBounds(prog)
	for m.keepGoing {
		*m.steps++
		if *m.steps > m.stepLimit {
			return errors.Wrapf(tagkit.ErrStepLimit, "routine %q: anchor %d: limit %d", m.routine, m.startIndex, m.stepLimit)
		}
		if err := m.step(prog); err != nil {
			return err
		}
	}
	return nil
}

func (m *machine) inBounds(prog *program) bool {
	N := len(*m.code)
	return m.ruleIndex < len(prog.ops) && m.index >= 0 && m.index < N && m.startIndex < N
}

func (m *machine) step(prog *program) error {
	op := &prog.ops[m.ruleIndex]
	code := *m.code

	if m.verbose {
		klog.Infof("%s: [%d] %v @ %d: %v", m.routine, m.ruleIndex, op.Instruction, m.index, code[m.index])
	}

	switch op.Op {
	case OpCode_Next:
		m.index++
		m.ruleIndex++

	case OpCode_Skip:
		m.ruleIndex++

	case OpCode_Back:
		if m.index > 0 {
			m.index--
		}
		m.ruleIndex++

	case OpCode_Add:
		code[m.index].Tags.Add(op.Arg)
		m.ruleIndex++

	case OpCode_Delete:
		*m.code = removeRange(code, m.index, m.index+1)
		if m.index == m.startIndex {
			m.startIndex--
		}
		m.index--
		m.ruleIndex++

	case OpCode_Wrap:
		m.wrap()
		m.ruleIndex++

	case OpCode_Block:
		// The nested frame starts from copies of the cursor and anchor; only array mutations are seen by this frame.
		nested := machine{
			code:       m.code,
			index:      m.index,
			startIndex: m.startIndex,
			steps:      m.steps,
			stepLimit:  m.stepLimit,
			verbose:    m.verbose,
			routine:    m.routine,
		}
		if err := nested.run(op.sub); err != nil {
			return err
		}
		m.ruleIndex++

	case OpCode_If:
		if code[m.index].Tags.Has(op.Arg) {
			m.ruleIndex++
		} else if next := m.ruleIndex + 2; next < len(prog.ops) && prog.ops[next].Op == OpCode_Else {
			m.ruleIndex += 3
		} else {
			m.ruleIndex += 2
		}

	case OpCode_Else:
		m.ruleIndex += 2

	case OpCode_Cancel:
		m.keepGoing = false
		return nil

	case OpCode_Label:
		m.ruleIndex++

	case OpCode_Goto:
		m.ruleIndex = op.target + 1

	default:
		return errors.Wrapf(tagkit.ErrBadLayout, "routine %q: unknown op %v", m.routine, op.Op)
	}

	m.keepGoing = m.inBounds(prog)
	return nil
}

// size is the number of instructions in the frame, nested frames included.
func (prog *program) size() int {
	n := len(prog.ops)
	for i := range prog.ops {
		if sub := prog.ops[i].sub; sub != nil {
			n += sub.size()
		}
	}
	return n
}

// wrap merges [startIndex, index) into a single untagged token at startIndex and moves the cursor just past it.
func (m *machine) wrap() {
	code := *m.code
	end := m.index
	if end <= m.startIndex {
		end = m.startIndex + 1
	}

	merged := tagkit.MergeTokens(code[m.startIndex:end])
	if m.verbose {
		klog.Infof("%s: wrapping %d tokens into %q", m.routine, end-m.startIndex, merged.Content())
	}
	code[m.startIndex] = merged
	*m.code = removeRange(code, m.startIndex+1, end)
	m.index = m.startIndex + 1
}

// removeRange removes code[i:j] in place.
func removeRange(code tagkit.Tokens, i, j int) tagkit.Tokens {
	if i >= j {
		return code
	}
	N := len(code)
	copy(code[i:], code[j:])
	for k := N - (j - i); k < N; k++ {
		code[k] = tagkit.Token{}
	}
	return code[:N-(j-i)]
}
