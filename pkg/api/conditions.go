package api

import (
	"fmt"
	"strings"
)

// Condition is a Choice rule predicate. The set of conditions is closed;
// build them with the constructors below.
type Condition interface {
	render() *Object
	validate() error
}

type comparison struct {
	variable string
	op       string
	value    any
	// path is true when value is a reference path rather than a literal.
	path bool
}

func (c comparison) render() *Object {
	obj := NewObject()
	obj.Set("Variable", c.variable)
	obj.Set(c.op, c.value)
	return obj
}

func (c comparison) validate() error {
	if !strings.HasPrefix(c.variable, "$") {
		return fmt.Errorf("%s: variable %q must start with '$'", c.op, c.variable)
	}
	if c.path {
		s, _ := c.value.(string)
		if !strings.HasPrefix(s, "$") {
			return fmt.Errorf("%s: path %q must start with '$'", c.op, s)
		}
	}
	return nil
}

type compound struct {
	op    string
	conds []Condition
}

func (c compound) render() *Object {
	items := make([]any, len(c.conds))
	for i, sub := range c.conds {
		items[i] = sub.render()
	}
	obj := NewObject()
	obj.Set(c.op, items)
	return obj
}

func (c compound) validate() error {
	if len(c.conds) == 0 {
		return fmt.Errorf("%s requires at least one condition", c.op)
	}
	for _, sub := range c.conds {
		if sub == nil {
			return fmt.Errorf("%s contains a nil condition", c.op)
		}
		if err := sub.validate(); err != nil {
			return err
		}
	}
	return nil
}

type negation struct {
	cond Condition
}

func (n negation) render() *Object {
	obj := NewObject()
	obj.Set("Not", n.cond.render())
	return obj
}

func (n negation) validate() error {
	if n.cond == nil {
		return fmt.Errorf("Not requires a condition")
	}
	return n.cond.validate()
}

func literal(variable, op string, value any) Condition {
	return comparison{variable: variable, op: op, value: value}
}

func pathRef(variable, op, path string) Condition {
	return comparison{variable: variable, op: op, value: path, path: true}
}

// And holds when every condition holds.
func And(conds ...Condition) Condition { return compound{op: "And", conds: conds} }

// Or holds when any condition holds.
func Or(conds ...Condition) Condition { return compound{op: "Or", conds: conds} }

// Not negates cond.
func Not(cond Condition) Condition { return negation{cond: cond} }

func StringEquals(variable, value string) Condition {
	return literal(variable, "StringEquals", value)
}

func StringEqualsPath(variable, path string) Condition {
	return pathRef(variable, "StringEqualsPath", path)
}

func StringLessThan(variable, value string) Condition {
	return literal(variable, "StringLessThan", value)
}

func StringLessThanEquals(variable, value string) Condition {
	return literal(variable, "StringLessThanEquals", value)
}

func StringGreaterThan(variable, value string) Condition {
	return literal(variable, "StringGreaterThan", value)
}

func StringGreaterThanEquals(variable, value string) Condition {
	return literal(variable, "StringGreaterThanEquals", value)
}

// StringMatches matches a pattern where '*' is a wildcard.
func StringMatches(variable, pattern string) Condition {
	return literal(variable, "StringMatches", pattern)
}

func NumericEquals(variable string, value float64) Condition {
	return literal(variable, "NumericEquals", value)
}

func NumericEqualsPath(variable, path string) Condition {
	return pathRef(variable, "NumericEqualsPath", path)
}

func NumericLessThan(variable string, value float64) Condition {
	return literal(variable, "NumericLessThan", value)
}

func NumericLessThanPath(variable, path string) Condition {
	return pathRef(variable, "NumericLessThanPath", path)
}

func NumericLessThanEquals(variable string, value float64) Condition {
	return literal(variable, "NumericLessThanEquals", value)
}

func NumericGreaterThan(variable string, value float64) Condition {
	return literal(variable, "NumericGreaterThan", value)
}

func NumericGreaterThanPath(variable, path string) Condition {
	return pathRef(variable, "NumericGreaterThanPath", path)
}

func NumericGreaterThanEquals(variable string, value float64) Condition {
	return literal(variable, "NumericGreaterThanEquals", value)
}

func BooleanEquals(variable string, value bool) Condition {
	return literal(variable, "BooleanEquals", value)
}

func BooleanEqualsPath(variable, path string) Condition {
	return pathRef(variable, "BooleanEqualsPath", path)
}

// TimestampEquals compares against an RFC 3339 timestamp.
func TimestampEquals(variable, value string) Condition {
	return literal(variable, "TimestampEquals", value)
}

func TimestampLessThan(variable, value string) Condition {
	return literal(variable, "TimestampLessThan", value)
}

func TimestampGreaterThan(variable, value string) Condition {
	return literal(variable, "TimestampGreaterThan", value)
}

func IsPresent(variable string) Condition    { return literal(variable, "IsPresent", true) }
func IsNotPresent(variable string) Condition { return literal(variable, "IsPresent", false) }
func IsNull(variable string) Condition       { return literal(variable, "IsNull", true) }
func IsString(variable string) Condition     { return literal(variable, "IsString", true) }
func IsNumeric(variable string) Condition    { return literal(variable, "IsNumeric", true) }
func IsBoolean(variable string) Condition    { return literal(variable, "IsBoolean", true) }
func IsTimestamp(variable string) Condition  { return literal(variable, "IsTimestamp", true) }
