package store

import (
	"strings"
	"time"

	"gorm.io/gorm/clause"
)

// Filter matches a scalar column. Set fields are combined with AND. A nil In
// slice is ignored while an empty one matches nothing; an empty NotIn matches
// everything.
type Filter[T any] struct {
	Equals *T    `json:"equals,omitempty"`
	In     []T   `json:"in,omitempty"`
	NotIn  []T   `json:"notIn,omitempty"`
	Lt     *T    `json:"lt,omitempty"`
	Lte    *T    `json:"lte,omitempty"`
	Gt     *T    `json:"gt,omitempty"`
	Gte    *T    `json:"gte,omitempty"`
	IsNull *bool `json:"isNull,omitempty"`

	Not *Filter[T] `json:"not,omitempty"`
}

type (
	IntFilter      = Filter[int]
	FloatFilter    = Filter[float64]
	BoolFilter     = Filter[bool]
	DateTimeFilter = Filter[time.Time]
)

func (f *Filter[T]) expression(target clause.Expression) clause.Expression {
	if f == nil {
		return nil
	}
	var exprs []clause.Expression
	if f.Equals != nil {
		exprs = append(exprs, compare{target, "=", *f.Equals})
	}
	if f.In != nil {
		exprs = append(exprs, inList{target: target, values: anySlice(f.In)})
	}
	if f.NotIn != nil {
		exprs = append(exprs, inList{target: target, values: anySlice(f.NotIn), negate: true})
	}
	exprs = appendRange(exprs, target, f.Lt, f.Lte, f.Gt, f.Gte)
	if f.IsNull != nil {
		exprs = append(exprs, nullCheck{target, *f.IsNull})
	}
	if e := f.Not.expression(target); e != nil {
		exprs = append(exprs, not(e))
	}
	return and(exprs...)
}

func appendRange[T any](exprs []clause.Expression, target clause.Expression, lt, lte, gt, gte *T) []clause.Expression {
	for _, c := range []struct {
		op string
		v  *T
	}{{"<", lt}, {"<=", lte}, {">", gt}, {">=", gte}} {
		if c.v != nil {
			exprs = append(exprs, compare{target, c.op, *c.v})
		}
	}
	return exprs
}

// StringFilter matches a string column. Mode insensitive folds both sides
// with LOWER.
type StringFilter struct {
	Equals     *string   `json:"equals,omitempty"`
	In         []string  `json:"in,omitempty"`
	NotIn      []string  `json:"notIn,omitempty"`
	Lt         *string   `json:"lt,omitempty"`
	Lte        *string   `json:"lte,omitempty"`
	Gt         *string   `json:"gt,omitempty"`
	Gte        *string   `json:"gte,omitempty"`
	Contains   *string   `json:"contains,omitempty"`
	StartsWith *string   `json:"startsWith,omitempty"`
	EndsWith   *string   `json:"endsWith,omitempty"`
	Mode       QueryMode `json:"mode,omitempty"`
	IsNull     *bool     `json:"isNull,omitempty"`

	Not *StringFilter `json:"not,omitempty"`
}

func (f *StringFilter) expression(target clause.Expression) clause.Expression {
	if f == nil {
		return nil
	}
	fold := f.Mode == ModeInsensitive
	lhs := target
	arg := func(s string) any { return s }
	if fold {
		lhs = lower{target}
		arg = func(s string) any { return strings.ToLower(s) }
	}
	var exprs []clause.Expression
	if f.Equals != nil {
		exprs = append(exprs, compare{lhs, "=", arg(*f.Equals)})
	}
	if f.In != nil {
		exprs = append(exprs, inList{target: lhs, values: foldAll(f.In, arg)})
	}
	if f.NotIn != nil {
		exprs = append(exprs, inList{target: lhs, values: foldAll(f.NotIn, arg), negate: true})
	}
	for _, c := range []struct {
		op string
		v  *string
	}{{"<", f.Lt}, {"<=", f.Lte}, {">", f.Gt}, {">=", f.Gte}} {
		if c.v != nil {
			exprs = append(exprs, compare{lhs, c.op, arg(*c.v)})
		}
	}
	if f.Contains != nil {
		exprs = append(exprs, like{lhs, "%" + likeEscaper.Replace(arg(*f.Contains).(string)) + "%"})
	}
	if f.StartsWith != nil {
		exprs = append(exprs, like{lhs, likeEscaper.Replace(arg(*f.StartsWith).(string)) + "%"})
	}
	if f.EndsWith != nil {
		exprs = append(exprs, like{lhs, "%" + likeEscaper.Replace(arg(*f.EndsWith).(string))})
	}
	if f.IsNull != nil {
		exprs = append(exprs, nullCheck{target, *f.IsNull})
	}
	if f.Not != nil {
		inner := *f.Not
		if inner.Mode == "" {
			inner.Mode = f.Mode
		}
		if e := inner.expression(target); e != nil {
			exprs = append(exprs, not(e))
		}
	}
	return and(exprs...)
}

func foldAll(vs []string, fn func(string) any) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = fn(v)
	}
	return out
}

// Equals matches values equal to v.
func Equals[T any](v T) *Filter[T] { return &Filter[T]{Equals: &v} }

// In matches values listed in vs.
func In[T any](vs ...T) *Filter[T] {
	if vs == nil {
		vs = []T{}
	}
	return &Filter[T]{In: vs}
}

// NotIn matches values not listed in vs.
func NotIn[T any](vs ...T) *Filter[T] {
	if vs == nil {
		vs = []T{}
	}
	return &Filter[T]{NotIn: vs}
}

// IsNull matches NULL columns when null is true and non-NULL ones otherwise.
func IsNull[T any](null bool) *Filter[T] { return &Filter[T]{IsNull: &null} }

// StringEquals matches strings equal to v.
func StringEquals(v string) *StringFilter { return &StringFilter{Equals: &v} }

// StringIn matches strings listed in vs.
func StringIn(vs ...string) *StringFilter {
	if vs == nil {
		vs = []string{}
	}
	return &StringFilter{In: vs}
}

// Contains matches strings containing v.
func Contains(v string) *StringFilter { return &StringFilter{Contains: &v} }

// StartsWith matches strings beginning with v.
func StartsWith(v string) *StringFilter { return &StringFilter{StartsWith: &v} }

// StringIsNull matches NULL string columns when null is true.
func StringIsNull(null bool) *StringFilter { return &StringFilter{IsNull: &null} }

// ListRelationFilter filters on a to-many relation.
type ListRelationFilter[W any] struct {
	Some  *W `json:"some,omitempty"`
	Every *W `json:"every,omitempty"`
	None  *W `json:"none,omitempty"`
}

func (f *ListRelationFilter[W]) expression(s scope, l link) clause.Expression {
	if f == nil {
		return nil
	}
	inner := s.nested()
	var exprs []clause.Expression
	if f.Some != nil {
		exprs = append(exprs, exists{outer: s, inner: inner, link: l, where: nestedWhere(inner, f.Some)})
	}
	if f.None != nil {
		exprs = append(exprs, exists{outer: s, inner: inner, link: l, where: nestedWhere(inner, f.None), negate: true})
	}
	if f.Every != nil {
		var where clause.Expression
		if e := nestedWhere(inner, f.Every); e != nil {
			where = not(e)
		}
		exprs = append(exprs, exists{outer: s, inner: inner, link: l, where: where, negate: true})
	}
	return and(exprs...)
}

// RelationFilter filters on a to-one relation.
type RelationFilter[W any] struct {
	Is     *W    `json:"is,omitempty"`
	IsNot  *W    `json:"isNot,omitempty"`
	IsNull *bool `json:"isNull,omitempty"`
}

func (f *RelationFilter[W]) expression(s scope, l link) clause.Expression {
	if f == nil {
		return nil
	}
	inner := s.nested()
	var exprs []clause.Expression
	if f.Is != nil {
		exprs = append(exprs, exists{outer: s, inner: inner, link: l, where: nestedWhere(inner, f.Is)})
	}
	if f.IsNot != nil {
		exprs = append(exprs, exists{outer: s, inner: inner, link: l, where: nestedWhere(inner, f.IsNot), negate: true})
	}
	if f.IsNull != nil {
		exprs = append(exprs, exists{outer: s, inner: inner, link: l, negate: *f.IsNull})
	}
	return and(exprs...)
}

func nestedWhere[W any](s scope, w *W) clause.Expression {
	in, ok := any(*w).(whereInput)
	if !ok {
		return nil
	}
	return in.expression(s)
}

// whereInput is implemented by every <Model>WhereInput.
type whereInput interface {
	expression(s scope) clause.Expression
}

// uniqueInput is implemented by every <Model>WhereUniqueInput.
type uniqueInput interface {
	uniqueExpression(s scope) (clause.Expression, error)
}

// logical renders the AND, OR and NOT combinators of a where input.
// AND and NOT with no terms match everything, OR with no terms matches
// nothing.
func logical[W whereInput](s scope, andW, orW, notW []W) []clause.Expression {
	var out []clause.Expression
	if len(andW) > 0 {
		out = append(out, and(expressions(s, andW)...))
	}
	if orW != nil {
		out = append(out, junction{op: "OR", exprs: expressions(s, orW), empty: "1 = 0"})
	}
	for _, w := range notW {
		out = append(out, not(w.expression(s)))
	}
	return out
}

func expressions[W whereInput](s scope, ws []W) []clause.Expression {
	out := make([]clause.Expression, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.expression(s))
	}
	return out
}

// conjoin drops nil expressions and ANDs the rest.
func conjoin(exprs ...clause.Expression) clause.Expression {
	kept := exprs[:0:0]
	for _, e := range exprs {
		if e != nil {
			kept = append(kept, e)
		}
	}
	return and(kept...)
}

type uniqueKey struct {
	field string
	value *string
}

func uniqueWhere(s scope, input string, keys ...uniqueKey) (clause.Expression, error) {
	var exprs []clause.Expression
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, "`"+k.field+"`")
		if k.value != nil {
			exprs = append(exprs, compare{s.ref(k.field), "=", *k.value})
		}
	}
	if len(exprs) == 0 {
		return nil, &ValidationError{Message: "Argument `where` of type " + input +
			" needs at least one of " + strings.Join(names, " or ") + " arguments."}
	}
	return and(exprs...), nil
}
