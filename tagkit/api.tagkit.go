package tagkit

const (

	// TagWhitespace is added by Tokenize to every whitespace character and to the trailing sentinel.
	TagWhitespace = "ws"

	// TagSentinel is the literal tag carried by the zero-length token appended after the last character.
	TagSentinel = " "

	// DefaultMaxPasses is the fixpoint pass ceiling used when ParseOpts.MaxPasses is 0.
	// Reaching it means the rule set does not terminate.
	DefaultMaxPasses = 10000

	// DefaultStepLimit is the floor of the per-attempt instruction budget used when LexOpts.StepLimit is 0.
	// Above the floor the budget grows with the token count and the routine's size (see LexOpts.StepBudget).
	DefaultStepLimit = 1 << 20

	// StepsPerOpToken scales the default budget: an attempt may run this many times every instruction
	// of its routine once per token.
	StepsPerOpToken = 4
)

// Mode selects what a parser Rule does with a matched run.
type Mode int32

const (
	// Combine replaces the matched run with one new parent Node.
	Combine Mode = iota

	// Annotate adds the rule's output tags to every Node of the matched run.
	Annotate
)

func (mode Mode) String() string {
	switch mode {
	case Combine:
		return "combine"
	case Annotate:
		return "annotate"
	}
	return "?"
}

// LexOpts specifies params for a lexer run.
type LexOpts struct {
	Verbose   bool // if set, each routine step is traced via klog
	StepLimit int  // max instructions per sweep attempt (0 denotes a budget scaled to the input, see StepBudget)
}

// ParseOpts specifies params for a parser run.
type ParseOpts struct {
	Verbose   bool // if set, each pass and match is traced via klog
	MaxPasses int  // fixpoint pass ceiling (0 denotes DefaultMaxPasses)
}

// ParseStats reports what a Parse call did.
type ParseStats struct {
	Passes  int // number of fixpoint passes run, including the final unchanged pass
	Matches int // number of matches that changed the sequence
}

// PrintOpts specifies what is printed when printing tokens or nodes
type PrintOpts struct {
	Label    string // Prefix label
	Position bool   // If set, line, char and file are printed
	Indent   string // Per-depth indent for trees
}

// DefaultPrintOpts{}
var DefaultPrintOpts = PrintOpts{
	Position: true,
	Indent:   "  ",
}

// StepBudget returns the instruction budget of one sweep attempt over numTokens tokens by a routine of numOps
// instructions (nested Block bodies included).
//
// A routine that makes progress runs each of its instructions at most once per token it passes, so the default
// budget is only exhausted by a loop that stops moving the cursor.
func (opts LexOpts) StepBudget(numTokens, numOps int) int {
	if opts.StepLimit > 0 {
		return opts.StepLimit
	}
	budget := StepsPerOpToken * (numOps + 1) * (numTokens + 1)
	if budget < DefaultStepLimit {
		budget = DefaultStepLimit
	}
	return budget
}

func (opts ParseOpts) Passes() int {
	if opts.MaxPasses <= 0 {
		return DefaultMaxPasses
	}
	return opts.MaxPasses
}
