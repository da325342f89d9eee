package tlex

import (
	"strconv"
	"strings"
)

// OpCode identifies an Instruction variant.
type OpCode byte

const (
	OpCode_Nil    OpCode = iota
	OpCode_Next          // consume the current token
	OpCode_Skip          // advance the program counter only
	OpCode_Back          // move the cursor back one token (floors at 0)
	OpCode_Add           // add Arg to the current token's tags
	OpCode_Delete        // remove the current token
	OpCode_Wrap          // merge [anchor, cursor) into one token at the anchor
	OpCode_Block         // run Body as a nested program with its own counter and labels
	OpCode_If            // guard the next instruction on the current token having tag Arg
	OpCode_Else          // guard the next instruction on the preceding If having failed
	OpCode_Cancel        // abort the current sweep attempt
	OpCode_Label         // mark a jump target named Arg
	OpCode_Goto          // jump to just past label Arg
)

var opNames = [...]string{
	OpCode_Nil:    "nil",
	OpCode_Next:   "next",
	OpCode_Skip:   "skip",
	OpCode_Back:   "back",
	OpCode_Add:    "add",
	OpCode_Delete: "delete",
	OpCode_Wrap:   "wrap",
	OpCode_Block:  "do",
	OpCode_If:     "if",
	OpCode_Else:   "else",
	OpCode_Cancel: "cancel",
	OpCode_Label:  "label",
	OpCode_Goto:   "goto",
}

func (op OpCode) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "?"
}

// Instruction is one step of a Routine.  Instructions are plain values and are never modified once built.
type Instruction struct {
	Op   OpCode
	Arg  string        // tag for Add and If, label name for Label and Goto
	Body []Instruction // nested program for Block
}

var (
	Next   = Instruction{Op: OpCode_Next}
	Skip   = Instruction{Op: OpCode_Skip}
	Back   = Instruction{Op: OpCode_Back}
	Delete = Instruction{Op: OpCode_Delete}
	Wrap   = Instruction{Op: OpCode_Wrap}
	Else   = Instruction{Op: OpCode_Else}
	Cancel = Instruction{Op: OpCode_Cancel}
)

func Add(tag string) Instruction {
	return Instruction{Op: OpCode_Add, Arg: tag}
}

func If(tag string) Instruction {
	return Instruction{Op: OpCode_If, Arg: tag}
}

func Label(name string) Instruction {
	return Instruction{Op: OpCode_Label, Arg: name}
}

func Goto(name string) Instruction {
	return Instruction{Op: OpCode_Goto, Arg: name}
}

// Block nests body as an independent program.
func Block(body ...Instruction) Instruction {
	return Instruction{Op: OpCode_Block, Body: body}
}

// TagFrags returns a Block that adds tag to the current token if it carries any of the given fragment tags.
func TagFrags(tag string, frags ...string) Instruction {
	body := make([]Instruction, 0, 2*len(frags))
	for _, frag := range frags {
		body = append(body, If(frag), Add(tag))
	}
	return Block(body...)
}

func (in Instruction) String() string {
	switch in.Op {
	case OpCode_Add, OpCode_If:
		return in.Op.String() + " " + strconv.Quote(in.Arg)
	case OpCode_Label, OpCode_Goto:
		return in.Op.String() + " " + in.Arg
	case OpCode_Block:
		parts := make([]string, len(in.Body))
		for i, sub := range in.Body {
			parts[i] = sub.String()
		}
		return "do { " + strings.Join(parts, " ") + " }"
	}
	return in.Op.String()
}
