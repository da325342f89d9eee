package tagkit

import (
	"strings"

	"github.com/emirpasic/gods/sets/linkedhashset"
)

// TagSet is a set of tags that remembers insertion order.
// Membership is what matters; order only makes output reproducible.
//
// The zero value is an empty set ready for use.  Copying a TagSet shares the underlying set; use Clone for an independent copy.
type TagSet struct {
	set *linkedhashset.Set
}

func NewTagSet(tags ...string) TagSet {
	ts := TagSet{}
	for _, tag := range tags {
		ts.Add(tag)
	}
	return ts
}

// Add appends tag and returns true if it was not already present.
func (ts *TagSet) Add(tag string) bool {
	if ts.set == nil {
		ts.set = linkedhashset.New()
	} else if ts.set.Contains(tag) {
		return false
	}
	ts.set.Add(tag)
	return true
}

func (ts TagSet) Has(tag string) bool {
	return ts.set != nil && ts.set.Contains(tag)
}

// HasAll returns true if every given tag is present.
func (ts TagSet) HasAll(tags ...string) bool {
	for _, tag := range tags {
		if !ts.Has(tag) {
			return false
		}
	}
	return true
}

func (ts TagSet) Len() int {
	if ts.set == nil {
		return 0
	}
	return ts.set.Size()
}

// Tags returns the tags in insertion order.
func (ts TagSet) Tags() []string {
	if ts.set == nil {
		return nil
	}
	vals := ts.set.Values()
	tags := make([]string, len(vals))
	for i, v := range vals {
		tags[i] = v.(string)
	}
	return tags
}

func (ts TagSet) Clone() TagSet {
	return NewTagSet(ts.Tags()...)
}

func (ts *TagSet) Clear() {
	ts.set = nil
}

func (ts TagSet) String() string {
	b := strings.Builder{}
	b.WriteByte('[')
	for i, tag := range ts.Tags() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('"')
		b.WriteString(tag)
		b.WriteByte('"')
	}
	b.WriteByte(']')
	return b.String()
}
