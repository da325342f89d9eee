package tparse

import (
	"github.com/2x3systems/tagkit/tagkit"
	"github.com/plan-systems/klog"
)

// matchAt returns how many nodes the rule matches starting at nodes[start], or 0 if the window fails.
//
// The pattern position and the node offset advance together; the repeat position holds still while it keeps
// matching and gives way to the next position on the first node that lacks its tag.
func (rule *Rule) matchAt(nodes []*tagkit.Node, start int) int {
	last := len(rule.Match) - 1
	ri, off := 0, 0

	for ri <= last {
		if start+off >= len(nodes) {
			// Only a trailing repeat position may run into the end of the sequence.
			if ri == last && ri == rule.Repeat {
				break
			}
			return 0
		}

		if !nodes[start+off].Tags.Has(rule.Match[ri]) {
			if ri == rule.Repeat {
				ri++
				continue
			}
			return 0
		}

		off++
		if ri != rule.Repeat {
			ri++
		}
	}

	return off
}

// traverse slides a window over the whole sequence, applying the rule at every matching start position.
// Returns the number of matches that changed the sequence.
func (rule *Rule) traverse(nodes *[]*tagkit.Node, verbose bool) int {
	changes := 0

	for start := 0; start < len(*nodes); start++ {
		n := rule.matchAt(*nodes, start)
		if n == 0 {
			continue
		}

		run := (*nodes)[start : start+n]
		changed := false

		switch rule.Mode {
		case tagkit.Combine:
			parent := tagkit.NewParent(run, rule.Tags)
			*nodes = splice(*nodes, start, start+n, parent)
			changed = true
			if verbose {
				klog.Infof("%v: combined %d nodes at %d into %v", rule, n, start, parent)
			}

		case tagkit.Annotate:
			for _, node := range run {
				for _, tag := range rule.Tags {
					if node.Tags.Add(tag) {
						changed = true
					}
				}
			}
			if verbose && changed {
				klog.Infof("%v: annotated %d nodes at %d", rule, n, start)
			}
		}

		if changed {
			changes++
		}
	}

	return changes
}

// splice replaces nodes[i:j] with one node.
func splice(nodes []*tagkit.Node, i, j int, node *tagkit.Node) []*tagkit.Node {
	nodes[i] = node
	N := len(nodes)
	removed := j - i - 1
	if removed <= 0 {
		return nodes
	}
	copy(nodes[i+1:], nodes[j:])
	for k := N - removed; k < N; k++ {
		nodes[k] = nil
	}
	return nodes[:N-removed]
}
