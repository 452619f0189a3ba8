// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"strings"

	"github.com/beevik/etree"
)

type (
	// Query locates elements relative to a starting element. Queries are
	// immutable values; every builder method returns a new Query.
	//
	//	Child("SolutionManifest").Child("Publisher")
	//	Descendants("LocalizedName").WhereAttr("languagecode", "1033")
	Query struct {
		steps []step
	}

	step struct {
		tag   string
		deep  bool
		attrs []attrPredicate
	}

	attrPredicate struct {
		key   string
		value string
	}
)

// Child starts a query selecting direct children named tag.
func Child(tag string) Query { return Query{}.Child(tag) }

// Descendants starts a query selecting all descendants named tag.
func Descendants(tag string) Query { return Query{}.Descendants(tag) }

// Child appends a direct-child step.
func (q Query) Child(tag string) Query {
	return q.with(step{tag: tag})
}

// Descendants appends a descendant step.
func (q Query) Descendants(tag string) Query {
	return q.with(step{tag: tag, deep: true})
}

// WhereAttr restricts the last step to elements whose attribute key equals
// value exactly.
func (q Query) WhereAttr(key, value string) Query {
	if len(q.steps) == 0 {
		return q
	}
	steps := cloneSteps(q.steps)
	last := &steps[len(steps)-1]
	last.attrs = append(last.attrs, attrPredicate{key: key, value: value})
	return Query{steps: steps}
}

// String renders the query in XPath-like notation for logs.
func (q Query) String() string {
	var b strings.Builder
	b.WriteString(".")
	for _, s := range q.steps {
		b.WriteString("/")
		if s.deep {
			b.WriteString("/")
		}
		b.WriteString(s.tag)
		for _, a := range s.attrs {
			b.WriteString("[@" + a.key + "='" + a.value + "']")
		}
	}
	return b.String()
}

// All returns every match below from in document order. A nil from yields
// no matches.
func (q Query) All(from *etree.Element) []*etree.Element {
	if from == nil || len(q.steps) == 0 {
		return nil
	}
	current := []*etree.Element{from}
	for _, s := range q.steps {
		seen := make(map[*etree.Element]bool)
		var next []*etree.Element
		for _, e := range current {
			for _, m := range s.matches(e) {
				if !seen[m] {
					seen[m] = true
					next = append(next, m)
				}
			}
		}
		if len(next) == 0 {
			return nil
		}
		current = next
	}
	return current
}

// First returns the first match below from, or nil.
func (q Query) First(from *etree.Element) *etree.Element {
	if matches := q.All(from); len(matches) > 0 {
		return matches[0]
	}
	return nil
}

func (q Query) with(s step) Query {
	steps := cloneSteps(q.steps)
	return Query{steps: append(steps, s)}
}

func (s step) matches(parent *etree.Element) []*etree.Element {
	var out []*etree.Element
	for _, child := range parent.ChildElements() {
		if s.accepts(child) {
			out = append(out, child)
		}
		if s.deep {
			out = append(out, s.matches(child)...)
		}
	}
	return out
}

func (s step) accepts(e *etree.Element) bool {
	if e.Tag != s.tag {
		return false
	}
	for _, a := range s.attrs {
		attr := e.SelectAttr(a.key)
		if attr == nil || attr.Value != a.value {
			return false
		}
	}
	return true
}

func cloneSteps(steps []step) []step {
	out := make([]step, len(steps), len(steps)+1)
	for i, s := range steps {
		s.attrs = append([]attrPredicate(nil), s.attrs...)
		out[i] = s
	}
	return out
}
