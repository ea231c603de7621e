// Package query models the backend query DSL as a tree of nodes.
// Nodes render themselves into plain maps via Source; Encode turns a node into JSON.
package query

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// json sorts map keys, so encoded queries are byte-stable.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Node is a single query DSL expression.
type Node interface {
	Source() (any, error)
}

// Occur is the occurrence type of a boolean clause.
type Occur string

// Boolean clause occurrences.
const (
	Must    Occur = "must"
	Should  Occur = "should"
	MustNot Occur = "must_not"
	Filter  Occur = "filter"
)

var occurOrder = []Occur{Must, Should, MustNot, Filter}

// IsValid reports whether o is a known occurrence.
func (o Occur) IsValid() bool {
	switch o {
	case Must, Should, MustNot, Filter:
		return true
	}
	return false
}

// Encode renders a node as JSON.
func Encode(n Node) ([]byte, error) {
	src, err := n.Source()
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	return b, nil
}

// Bool combines clauses under must/should/must_not/filter.
type Bool struct {
	clauses            map[Occur][]Node
	minimumShouldMatch *int
}

// NewBool creates an empty boolean query.
func NewBool() *Bool {
	return &Bool{clauses: make(map[Occur][]Node, len(occurOrder))}
}

// Add appends n under occurrence o.
func (b *Bool) Add(n Node, o Occur) error {
	if n == nil {
		return fmt.Errorf("bool clause is nil")
	}
	if !o.IsValid() {
		return fmt.Errorf("invalid bool occurrence %q", o)
	}
	b.clauses[o] = append(b.clauses[o], n)
	return nil
}

// SetMinimumShouldMatch sets minimum_should_match.
func (b *Bool) SetMinimumShouldMatch(n int) *Bool {
	b.minimumShouldMatch = &n
	return b
}

// Clauses returns a copy of the clauses added under o.
func (b *Bool) Clauses(o Occur) []Node {
	src := b.clauses[o]
	if len(src) == 0 {
		return nil
	}
	out := make([]Node, len(src))
	copy(out, src)
	return out
}

// Len returns the total number of clauses.
func (b *Bool) Len() int {
	n := 0
	for _, cs := range b.clauses {
		n += len(cs)
	}
	return n
}

// Source implements Node.
func (b *Bool) Source() (any, error) {
	body := make(map[string]any)
	for _, o := range occurOrder {
		cs := b.clauses[o]
		if len(cs) == 0 {
			continue
		}
		srcs := make([]any, 0, len(cs))
		for _, c := range cs {
			s, err := c.Source()
			if err != nil {
				return nil, err
			}
			srcs = append(srcs, s)
		}
		body[string(o)] = srcs
	}
	if b.minimumShouldMatch != nil {
		body["minimum_should_match"] = *b.minimumShouldMatch
	}
	return map[string]any{"bool": body}, nil
}
