// Package unit provides the minimal "unit descriptor" collaborator that
// field and grainvalue consume to derive physical units for measurements.
// Unit-string parsing and formatting is out of scope; only equality and
// power-multiplication are required by the rest of the module.
package unit

import (
	"sort"
	"strconv"
	"strings"
)

// Descriptor is an opaque physical-dimension handle. Two descriptors are
// equal iff they denote the same physical dimension.
type Descriptor interface {
	Equal(other Descriptor) bool
	// PowerMultiply returns the unit obtained by raising this unit to
	// power pa, the other unit to power pb, and multiplying the results.
	PowerMultiply(other Descriptor, pa, pb int) Descriptor
	// String renders the unit for diagnostics/tests; not a format guarantee.
	String() string
}

// Simple is a concrete Descriptor keyed by a map of base-symbol -> exponent,
// e.g. {"m": 1} for metres or {} for a dimensionless/unitless quantity.
type Simple struct {
	powers map[string]int
}

// New builds a Simple unit from a single base symbol raised to power 1.
// An empty symbol denotes the dimensionless unit.
func New(symbol string) Simple {
	if symbol == "" {
		return Simple{}
	}
	return Simple{powers: map[string]int{symbol: 1}}
}

// Dimensionless is the unitless descriptor (used for is_angle quantities).
func Dimensionless() Simple { return Simple{} }

func (u Simple) Equal(other Descriptor) bool {
	o, ok := other.(Simple)
	if !ok {
		return false
	}
	if len(u.powers) != len(o.powers) {
		return false
	}
	for k, v := range u.powers {
		if o.powers[k] != v {
			return false
		}
	}
	return true
}

func (u Simple) PowerMultiply(other Descriptor, pa, pb int) Descriptor {
	o, _ := other.(Simple)
	result := make(map[string]int)
	for k, v := range u.powers {
		result[k] += v * pa
	}
	for k, v := range o.powers {
		result[k] += v * pb
	}
	for k, v := range result {
		if v == 0 {
			delete(result, k)
		}
	}
	if len(result) == 0 {
		return Simple{}
	}
	return Simple{powers: result}
}

func (u Simple) String() string {
	if len(u.powers) == 0 {
		return ""
	}
	keys := make([]string, 0, len(u.powers))
	for k := range u.powers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(k)
		if p := u.powers[k]; p != 1 {
			b.WriteString("^")
			b.WriteString(strconv.Itoa(p))
		}
	}
	return b.String()
}

// Power raises a unit to an integer power via PowerMultiply against the
// dimensionless unit.
func Power(u Descriptor, p int) Descriptor {
	return u.PowerMultiply(Dimensionless(), p, 0)
}

// Multiply combines two units at power 1 each.
func Multiply(a, b Descriptor) Descriptor {
	return a.PowerMultiply(b, 1, 1)
}
