package schema

import (
	"sort"
	"strings"
)

// CapabilitySet records which optional attributes of an entity exist in the
// live schema. It is computed once per request and never modified afterwards;
// pass it by value into everything downstream instead of probing again.
type CapabilitySet struct {
	entity  Entity
	present map[Attribute]bool
}

// NewCapabilitySet builds a set for e with the given attributes present.
// Attributes that are not in e's optional list are ignored.
func NewCapabilitySet(e Entity, present ...Attribute) CapabilitySet {
	allowed := make(map[Attribute]bool, len(e.Optional))
	for _, a := range e.Optional {
		allowed[a] = true
	}
	set := make(map[Attribute]bool, len(present))
	for _, a := range present {
		if allowed[a] {
			set[a] = true
		}
	}
	return CapabilitySet{entity: e, present: set}
}

// Has reports whether optional attribute a exists.
func (c CapabilitySet) Has(a Attribute) bool {
	return c.present[a]
}

// Any reports whether at least one of attrs exists.
func (c CapabilitySet) Any(attrs ...Attribute) bool {
	for _, a := range attrs {
		if c.present[a] {
			return true
		}
	}
	return false
}

// Supported filters attrs down to the ones that exist, keeping their order.
func (c CapabilitySet) Supported(attrs ...Attribute) []Attribute {
	var out []Attribute
	for _, a := range attrs {
		if c.present[a] {
			out = append(out, a)
		}
	}
	return out
}

// Entity returns the entity the set was probed for.
func (c CapabilitySet) Entity() Entity {
	return c.entity
}

// Column returns the physical column for a. Callers must check Has first for
// optional attributes.
func (c CapabilitySet) Column(a Attribute) string {
	return c.entity.Column(a)
}

// String lists the present attributes, for logging.
func (c CapabilitySet) String() string {
	names := make([]string, 0, len(c.present))
	for a := range c.present {
		names = append(names, string(a))
	}
	sort.Strings(names)
	return c.entity.Name + "[" + strings.Join(names, ",") + "]"
}
