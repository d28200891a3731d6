package wiremap

import (
	"math"
	"reflect"
	"regexp"
)

// Constraints are the optional numeric, length, pattern and uniqueness rules
// a mapper may attach to its value. Checks run in a fixed order and the first
// violation wins; later constraints are not evaluated.
type Constraints struct {
	ExclusiveMaximum *float64
	ExclusiveMinimum *float64
	InclusiveMaximum *float64
	InclusiveMinimum *float64
	MaxItems         *int
	MaxLength        *int
	MinItems         *int
	MinLength        *int
	MultipleOf       *float64
	Pattern          *regexp.Regexp
	UniqueItems      bool
}

// validate checks the constraints against a non-absent value. Numeric bounds
// apply only to numeric values and length bounds only to values with a
// length; a constraint that cannot apply to the value's shape is skipped.
func (c *Constraints) validate(value any, objectName string) error {
	if c == nil {
		return nil
	}

	num, isNum := toFloat(value)
	length, hasLen := lengthOf(value)

	fail := func(name string, bound any) error {
		return &ConstraintError{ObjectName: objectName, Value: value, Constraint: name, Bound: bound}
	}

	if c.ExclusiveMaximum != nil && isNum && num >= *c.ExclusiveMaximum {
		return fail("ExclusiveMaximum", *c.ExclusiveMaximum)
	}
	if c.ExclusiveMinimum != nil && isNum && num <= *c.ExclusiveMinimum {
		return fail("ExclusiveMinimum", *c.ExclusiveMinimum)
	}
	if c.InclusiveMaximum != nil && isNum && num > *c.InclusiveMaximum {
		return fail("InclusiveMaximum", *c.InclusiveMaximum)
	}
	if c.InclusiveMinimum != nil && isNum && num < *c.InclusiveMinimum {
		return fail("InclusiveMinimum", *c.InclusiveMinimum)
	}
	if c.MaxItems != nil && hasLen && length > *c.MaxItems {
		return fail("MaxItems", *c.MaxItems)
	}
	if c.MaxLength != nil && hasLen && length > *c.MaxLength {
		return fail("MaxLength", *c.MaxLength)
	}
	if c.MinItems != nil && hasLen && length < *c.MinItems {
		return fail("MinItems", *c.MinItems)
	}
	if c.MinLength != nil && hasLen && length < *c.MinLength {
		return fail("MinLength", *c.MinLength)
	}
	if c.MultipleOf != nil && isNum && math.Mod(num, *c.MultipleOf) != 0 {
		return fail("MultipleOf", *c.MultipleOf)
	}
	if c.Pattern != nil {
		s, ok := value.(string)
		if !ok || !c.Pattern.MatchString(s) {
			return fail("Pattern", c.Pattern.String())
		}
	}
	if c.UniqueItems {
		if items, ok := toSlice(value); ok && hasDuplicates(items) {
			return fail("UniqueItems", true)
		}
	}
	return nil
}

// hasDuplicates does a naive pairwise scan; element counts are small enough
// in schema-constrained payloads that quadratic cost is acceptable.
func hasDuplicates(items []any) bool {
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			if reflect.DeepEqual(items[i], items[j]) {
				return true
			}
		}
	}
	return false
}
