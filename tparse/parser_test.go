package tparse_test

import (
	"strings"
	"testing"

	"github.com/2x3systems/tagkit/tagkit"
	"github.com/2x3systems/tagkit/tparse"
	"github.com/pkg/errors"
)

// leaves builds leaf nodes from "content:tag1,tag2" specs.
func leaves(specs ...string) []*tagkit.Node {
	nodes := make([]*tagkit.Node, len(specs))
	for i, spec := range specs {
		content, tags, _ := strings.Cut(spec, ":")
		n := &tagkit.Node{
			Content: content,
			Line:    1,
			Char:    i + 1,
			File:    "input",
		}
		if tags != "" {
			for _, tag := range strings.Split(tags, ",") {
				n.Tags.Add(tag)
			}
		}
		nodes[i] = n
	}
	return nodes
}

func parse(t *testing.T, p *tparse.Parser, nodes []*tagkit.Node) ([]*tagkit.Node, tagkit.ParseStats) {
	t.Helper()
	stats, err := p.Parse(&nodes, tagkit.ParseOpts{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return nodes, stats
}

func TestCombinePair(t *testing.T) {
	p := tparse.NewParser(tparse.Combine([]string{"int", "int"}, "pair"))
	nodes, stats := parse(t, p, leaves("3:int", "4:int"))

	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	pair := nodes[0]
	if pair.Content != "34" || pair.Tags.Len() != 1 || !pair.Tags.Has("pair") {
		t.Fatalf("bad pair node %v", pair)
	}
	if len(pair.Children) != 2 || pair.Children[0].Content != "3" || pair.Children[1].Content != "4" {
		t.Fatalf("bad children %v", pair.Children)
	}
	if pair.Char != 1 || pair.File != "input" {
		t.Fatalf("parent should take position of its first child: %v", pair)
	}
	if stats.Matches != 1 || stats.Passes != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestIdempotence(t *testing.T) {
	p := tparse.NewParser(
		tparse.Annotate([]string{"digit"}, "int"),
		tparse.Combine([]string{"int", "int"}, "pair"),
	)
	nodes, _ := parse(t, p, leaves("1:digit", "2:digit", "3:digit", "4:digit", "5:digit"))
	if len(nodes) != 3 {
		t.Fatalf("expected 2 pairs and a leftover, got %d nodes", len(nodes))
	}

	again, stats := parse(t, p, nodes)
	if stats.Matches != 0 || stats.Passes != 1 || len(again) != 3 {
		t.Fatalf("second parse should be a no-op, got %+v", stats)
	}
}

func TestOverlappingWindows(t *testing.T) {
	p := tparse.NewParser(tparse.Combine([]string{"a", "b"}, "ab"))
	nodes, _ := parse(t, p, leaves("x:a", "y:a", "z:b"))

	if len(nodes) != 2 || nodes[0].Content != "x" || nodes[1].Content != "yz" {
		t.Fatalf("a failed window should retry one position later: %v", nodes)
	}
}

func TestRepeatPositions(t *testing.T) {
	tests := []struct {
		name    string
		match   []string
		repeat  int
		input   []string
		content []string // resulting node contents
	}{
		{"trailingMany", []string{"a", "b"}, 1, []string{"1:a", "2:b", "3:b"}, []string{"123"}},
		{"trailingZeroAtEnd", []string{"a", "b"}, 1, []string{"0:x", "1:a"}, []string{"0", "1"}},
		{"middleZero", []string{"a", "b", "c"}, 1, []string{"1:a", "2:c"}, []string{"12"}},
		{"middleMany", []string{"a", "b", "c"}, 1, []string{"1:a", "2:b", "3:b", "4:c", "5:x"}, []string{"1234", "5"}},
		{"middleRunsOff", []string{"a", "b", "c"}, 1, []string{"1:a", "2:b"}, []string{"1", "2"}},
		{"leadingMany", []string{"b", "c"}, 0, []string{"1:b", "2:b", "3:c"}, []string{"123"}},
		{"onlyRepeatNeverEmpty", []string{"b"}, 0, []string{"1:x", "2:b", "3:b"}, []string{"1", "23"}},
	}

	for _, tt := range tests {
		rule := tparse.MustNewRule(tt.match, tt.repeat, tagkit.Combine, "out")
		nodes, _ := parse(t, tparse.NewParser(rule), leaves(tt.input...))

		got := make([]string, len(nodes))
		for i, n := range nodes {
			got[i] = n.Content
		}
		if strings.Join(got, "|") != strings.Join(tt.content, "|") {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.content, got)
		}
	}
}

func TestTrailingRepeatMatchesZeroAtEnd(t *testing.T) {
	rule := tparse.MustNewRule([]string{"a", "b"}, 1, tagkit.Combine, "out")
	nodes, stats := parse(t, tparse.NewParser(rule), leaves("1:a"))

	if stats.Matches != 1 || len(nodes) != 1 || len(nodes[0].Children) != 1 || !nodes[0].Tags.Has("out") {
		t.Fatalf("trailing repeat should match zero nodes at end of input: %+v %v", stats, nodes)
	}
}

func TestAnnotate(t *testing.T) {
	p := tparse.NewParser(tparse.Annotate([]string{"int", "int"}, "pair", "num"))
	input := leaves("3:int", "4:int", "5:x")
	nodes, stats := parse(t, p, input)

	if len(nodes) != 3 {
		t.Fatalf("annotate must not change node count")
	}
	for i, n := range nodes[:2] {
		if !n.Tags.HasAll("int", "pair", "num") || len(n.Children) != 0 {
			t.Fatalf("node %d: bad annotate result %v", i, n)
		}
	}
	if nodes[2].Tags.Has("pair") {
		t.Fatal("annotate touched a node outside the match")
	}
	if stats.Matches != 1 || stats.Passes != 2 {
		t.Fatalf("re-annotating should not count as a change: %+v", stats)
	}
}

func TestPassLimit(t *testing.T) {
	p := tparse.NewParser(
		tparse.Combine([]string{"X"}, "Y"),
		tparse.Combine([]string{"Y"}, "X"),
	)

	nodes := leaves("1:X")
	_, err := p.Parse(&nodes, tagkit.ParseOpts{MaxPasses: 50})
	if errors.Cause(err) != tagkit.ErrPassLimit {
		t.Fatalf("expected ErrPassLimit, got %v", err)
	}
	if !strings.Contains(err.Error(), "50") {
		t.Fatalf("diagnostic should state the ceiling: %v", err)
	}

	nodes = leaves("1:X")
	stats, err := p.Parse(&nodes, tagkit.ParseOpts{})
	if errors.Cause(err) != tagkit.ErrPassLimit || stats.Passes != tagkit.DefaultMaxPasses {
		t.Fatalf("expected the default ceiling to trip, got %+v %v", stats, err)
	}
}

func TestNilSequence(t *testing.T) {
	_, err := tparse.NewParser().Parse(nil, tagkit.ParseOpts{})
	if err != tagkit.ErrNilSequence {
		t.Fatalf("expected ErrNilSequence, got %v", err)
	}
}

func TestRuleLiterals(t *testing.T) {
	pairs := tparse.NewParser(&tparse.Rule{
		Match:  []string{"int", "int"},
		Repeat: tparse.NoRepeat,
		Tags:   []string{"pair"},
	})
	nodes := leaves("1:int", "2:int", "3:int")
	stats, err := pairs.Parse(&nodes, tagkit.ParseOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Matches != 1 || len(nodes) != 2 || nodes[0].Content != "12" {
		t.Fatalf("expected one pair, got %d matches and %d nodes", stats.Matches, len(nodes))
	}

	// Repeat left at zero makes the first position repeat and swallow every int.
	greedy := tparse.NewParser(&tparse.Rule{
		Match: []string{"int", "int"},
		Tags:  []string{"pair"},
	})
	nodes = leaves("1:int", "2:int", "3:int")
	if stats, err = greedy.Parse(&nodes, tagkit.ParseOpts{}); err != nil || stats.Matches != 0 {
		t.Fatalf("expected no match, got %+v %v", stats, err)
	}

	bad := tparse.NewParser(
		tparse.Combine([]string{"a"}, "b"),
		&tparse.Rule{Repeat: tparse.NoRepeat, Tags: []string{"x"}},
	)
	nodes = leaves("1:a")
	_, err = bad.Parse(&nodes, tagkit.ParseOpts{})
	if errors.Cause(err) != tagkit.ErrBadRule {
		t.Fatalf("expected ErrBadRule, got %v", err)
	}
	if nodes[0].Content != "1" || nodes[0].Tags.Has("b") {
		t.Fatal("an invalid rule set should not touch the sequence")
	}
}

func TestBadRules(t *testing.T) {
	tests := []struct {
		match  []string
		repeat int
		mode   tagkit.Mode
	}{
		{nil, tparse.NoRepeat, tagkit.Combine},
		{[]string{"a"}, 1, tagkit.Combine},
		{[]string{"a"}, -2, tagkit.Annotate},
		{[]string{"a"}, tparse.NoRepeat, tagkit.Mode(7)},
	}
	for i, tt := range tests {
		if _, err := tparse.NewRule(tt.match, tt.repeat, tt.mode, "x"); errors.Cause(err) != tagkit.ErrBadRule {
			t.Errorf("case %d: expected ErrBadRule, got %v", i, err)
		}
	}

	rule := tparse.MustNewRule([]string{"a", "b"}, 1, tagkit.Annotate, "c")
	if got := rule.String(); got != `rule "a" "b"* => annotate "c"` {
		t.Errorf("bad rule string %s", got)
	}
}
