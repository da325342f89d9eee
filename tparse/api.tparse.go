package tparse

import (
	"strconv"
	"strings"

	"github.com/2x3systems/tagkit/tagkit"
	"github.com/pkg/errors"
)

// NoRepeat denotes a Rule without a repeat position.
const NoRepeat = -1

// Rule is a tag pattern over consecutive nodes plus what to do with a matched run.
//
// Match[i] is the tag required at pattern position i.  If Repeat is a valid position, that position
// matches zero or more consecutive nodes carrying its tag.
//
// Repeat's zero value means position 0 repeats: a Rule literal without a repeat position must set
// Repeat to NoRepeat.  NewRule, Combine and Annotate do this for you.
type Rule struct {
	Match  []string
	Repeat int
	Tags   []string
	Mode   tagkit.Mode
}

// NewRule returns a validated Rule.
func NewRule(match []string, repeat int, mode tagkit.Mode, tags ...string) (*Rule, error) {
	rule := &Rule{
		Match:  match,
		Repeat: repeat,
		Tags:   tags,
		Mode:   mode,
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return rule, nil
}

// MustNewRule is NewRule but panics on error.
func MustNewRule(match []string, repeat int, mode tagkit.Mode, tags ...string) *Rule {
	rule, err := NewRule(match, repeat, mode, tags...)
	if err != nil {
		panic(err)
	}
	return rule
}

// Combine is shorthand for a combine-mode Rule without a repeat position.
func Combine(match []string, tags ...string) *Rule {
	return MustNewRule(match, NoRepeat, tagkit.Combine, tags...)
}

// Annotate is shorthand for an annotate-mode Rule without a repeat position.
func Annotate(match []string, tags ...string) *Rule {
	return MustNewRule(match, NoRepeat, tagkit.Annotate, tags...)
}

func (rule *Rule) Validate() error {
	if len(rule.Match) == 0 {
		return errors.Wrap(tagkit.ErrBadRule, "empty match pattern")
	}
	if rule.Repeat != NoRepeat && (rule.Repeat < 0 || rule.Repeat >= len(rule.Match)) {
		return errors.Wrapf(tagkit.ErrBadRule, "repeat position %d outside pattern of length %d", rule.Repeat, len(rule.Match))
	}
	if rule.Mode != tagkit.Combine && rule.Mode != tagkit.Annotate {
		return errors.Wrapf(tagkit.ErrBadRule, "unknown mode %d", rule.Mode)
	}
	return nil
}

func (rule *Rule) String() string {
	b := strings.Builder{}
	b.WriteString("rule")
	for i, tag := range rule.Match {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(tag))
		if i == rule.Repeat {
			b.WriteByte('*')
		}
	}
	b.WriteString(" => ")
	b.WriteString(rule.Mode.String())
	for _, tag := range rule.Tags {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(tag))
	}
	return b.String()
}
