package tparse

import (
	"github.com/2x3systems/tagkit/tagkit"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Parser is an ordered list of Rules, applied in order within each fixpoint pass.
type Parser struct {
	Rules []*Rule
}

func NewParser(rules ...*Rule) *Parser {
	return &Parser{
		Rules: rules,
	}
}

// Parse runs full passes of every Rule over nodes until a pass changes nothing.
// Every Rule is validated first, so a Rule built as a literal fails with ErrBadRule rather than misbehaving.
//
// If the pass ceiling (opts.MaxPasses) is reached while passes still produce changes, the rule set
// does not terminate and ErrPassLimit is returned; nodes then holds the state after the last pass.
func (p *Parser) Parse(nodes *[]*tagkit.Node, opts tagkit.ParseOpts) (tagkit.ParseStats, error) {
	var stats tagkit.ParseStats
	if nodes == nil {
		return stats, tagkit.ErrNilSequence
	}

	for i, rule := range p.Rules {
		if err := rule.Validate(); err != nil {
			return stats, errors.Wrapf(err, "rule %d", i)
		}
	}

	maxPasses := opts.Passes()
	for {
		if stats.Passes >= maxPasses {
			return stats, errors.Wrapf(tagkit.ErrPassLimit, "ceiling of %d passes exceeded", maxPasses)
		}
		stats.Passes++

		changes := 0
		for _, rule := range p.Rules {
			changes += rule.traverse(nodes, opts.Verbose)
		}
		stats.Matches += changes

		if opts.Verbose {
			klog.Infof("pass %d: %d changes, %d nodes", stats.Passes, changes, len(*nodes))
		}
		if changes == 0 {
			return stats, nil
		}
	}
}
