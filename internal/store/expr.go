package store

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"gorm.io/gorm/clause"
)

// scope qualifies column references with the alias of the table they belong
// to. Relation filters open a nested scope per EXISTS subquery.
type scope struct {
	alias string
	depth int
}

func (s scope) col(name string) clause.Column { return clause.Column{Table: s.alias, Name: name} }

func (s scope) ref(name string) clause.Expression { return columnRef{s.col(name)} }

func (s scope) nested() scope {
	return scope{alias: fmt.Sprintf("j%d", s.depth+1), depth: s.depth + 1}
}

type columnRef struct{ column clause.Column }

func (c columnRef) Build(b clause.Builder) { b.WriteQuoted(c.column) }

type aggregateRef struct {
	fn     string
	column clause.Expression
}

func (a aggregateRef) Build(b clause.Builder) {
	b.WriteString(a.fn)
	b.WriteByte('(')
	if a.column == nil {
		b.WriteByte('*')
	} else {
		a.column.Build(b)
	}
	b.WriteByte(')')
}

type lower struct{ expr clause.Expression }

func (l lower) Build(b clause.Builder) {
	b.WriteString("LOWER(")
	l.expr.Build(b)
	b.WriteByte(')')
}

type junction struct {
	op    string
	exprs []clause.Expression
	empty string
}

func (j junction) Build(b clause.Builder) {
	if len(j.exprs) == 0 {
		b.WriteString(j.empty)
		return
	}
	b.WriteByte('(')
	for i, e := range j.exprs {
		if i > 0 {
			b.WriteString(" " + j.op + " ")
		}
		e.Build(b)
	}
	b.WriteByte(')')
}

// and joins exprs with AND. No terms matches every row.
func and(exprs ...clause.Expression) clause.Expression {
	if len(exprs) == 1 {
		return exprs[0]
	}
	return junction{op: "AND", exprs: exprs, empty: "1 = 1"}
}

// or joins exprs with OR. No terms matches nothing.
func or(exprs ...clause.Expression) clause.Expression {
	if len(exprs) == 1 {
		return exprs[0]
	}
	return junction{op: "OR", exprs: exprs, empty: "1 = 0"}
}

type negation struct{ expr clause.Expression }

func (n negation) Build(b clause.Builder) {
	b.WriteString("NOT (")
	n.expr.Build(b)
	b.WriteByte(')')
}

func not(e clause.Expression) clause.Expression { return negation{e} }

type compare struct {
	target clause.Expression
	op     string
	value  any
}

func (c compare) Build(b clause.Builder) {
	c.target.Build(b)
	b.WriteString(" " + c.op + " ")
	b.AddVar(b, bindValue(c.value))
}

type nullCheck struct {
	target clause.Expression
	null   bool
}

func (n nullCheck) Build(b clause.Builder) {
	n.target.Build(b)
	if n.null {
		b.WriteString(" IS NULL")
	} else {
		b.WriteString(" IS NOT NULL")
	}
}

type inList struct {
	target clause.Expression
	values []any
	negate bool
}

func (in inList) Build(b clause.Builder) {
	if len(in.values) == 0 {
		if in.negate {
			b.WriteString("1 = 1")
		} else {
			b.WriteString("1 = 0")
		}
		return
	}
	in.target.Build(b)
	if in.negate {
		b.WriteString(" NOT IN (")
	} else {
		b.WriteString(" IN (")
	}
	for i, v := range in.values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.AddVar(b, bindValue(v))
	}
	b.WriteByte(')')
}

// likeEscape is the ESCAPE character of every LIKE pattern built here.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

type like struct {
	target  clause.Expression
	pattern string
}

func (l like) Build(b clause.Builder) {
	l.target.Build(b)
	b.WriteString(" LIKE ")
	b.AddVar(b, l.pattern)
	b.WriteString(" ESCAPE '" + likeEscape + "'")
}

// link describes how a related table joins the current one:
// related.column = current.references.
type link struct {
	table      string
	column     string
	references string
}

// exists renders [NOT] EXISTS (SELECT 1 FROM table alias WHERE join AND where).
type exists struct {
	outer  scope
	inner  scope
	link   link
	where  clause.Expression
	negate bool
}

func (e exists) Build(b clause.Builder) {
	if e.negate {
		b.WriteString("NOT ")
	}
	b.WriteString("EXISTS (SELECT 1 FROM ")
	b.WriteQuoted(clause.Table{Name: e.link.table})
	b.WriteByte(' ')
	b.WriteQuoted(clause.Table{Name: e.inner.alias})
	b.WriteString(" WHERE ")
	b.WriteQuoted(e.inner.col(e.link.column))
	b.WriteString(" = ")
	b.WriteQuoted(e.outer.col(e.link.references))
	if e.where != nil {
		b.WriteString(" AND ")
		e.where.Build(b)
	}
	b.WriteByte(')')
}

// orderTerm is one ORDER BY item. NULL placement is emulated with a leading
// CASE term so it behaves the same on every dialect.
type orderTerm struct {
	field     string
	target    clause.Expression
	desc      bool
	nulls     NullsOrder
	aggregate bool
}

type orderList []orderTerm

func (o orderList) Build(b clause.Builder) {
	for i, t := range o {
		if i > 0 {
			b.WriteString(", ")
		}
		if t.nulls != "" {
			first, rest := "1", "0"
			if t.nulls == NullsFirst {
				first, rest = "0", "1"
			}
			b.WriteString("CASE WHEN ")
			t.target.Build(b)
			b.WriteString(" IS NULL THEN " + first + " ELSE " + rest + " END, ")
		}
		t.target.Build(b)
		if t.desc {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
	}
}

func (o orderList) reversed() orderList {
	out := make(orderList, len(o))
	for i, t := range o {
		t.desc = !t.desc
		switch t.nulls {
		case NullsFirst:
			t.nulls = NullsLast
		case NullsLast:
			t.nulls = NullsFirst
		}
		out[i] = t
	}
	return out
}

type selectItem struct {
	expr  clause.Expression
	alias string
}

type selectList []selectItem

func (s selectList) Build(b clause.Builder) {
	for i, item := range s {
		if i > 0 {
			b.WriteString(", ")
		}
		item.expr.Build(b)
		b.WriteString(" AS ")
		b.WriteQuoted(clause.Column{Name: item.alias})
	}
}

// bindValue converts values into driver friendly forms: named string types
// become plain strings and times are bound in UTC.
func bindValue(v any) any {
	switch x := v.(type) {
	case nil, string, bool, int, int64, float64, []byte:
		return v
	case time.Time:
		return x.UTC()
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String()
	}
	return v
}

func anySlice[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

func whereOf(exprs ...clause.Expression) clause.Where {
	return clause.Where{Exprs: exprs}
}

func idIn(ids []string) clause.Expression {
	return inList{target: columnRef{clause.Column{Name: "id"}}, values: anySlice(ids)}
}
