package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"slices"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type aggregates[F ~string] struct {
	count, avg, sum, min, max []F
}

type aggColumn[F ~string] struct {
	agg   Aggregate
	field F
	meta  fieldMeta
	all   bool
}

func (c aggColumn[F]) expression(s scope) clause.Expression {
	if c.all {
		return aggregateRef{fn: "COUNT"}
	}
	return aggregateRef{fn: c.agg.function(), column: s.ref(string(c.field))}
}

func (d *delegate[M, W, U, C, D, F, I]) aggregateColumns(a aggregates[F]) ([]aggColumn[F], error) {
	var cols []aggColumn[F]
	for _, group := range []struct {
		agg    Aggregate
		fields []F
	}{{AggCount, a.count}, {AggAvg, a.avg}, {AggSum, a.sum}, {AggMin, a.min}, {AggMax, a.max}} {
		for _, f := range group.fields {
			if group.agg == AggCount && string(f) == CountAll {
				cols = append(cols, aggColumn[F]{agg: AggCount, field: f, all: true})
				continue
			}
			fm, ok := d.meta.field(string(f))
			if !ok {
				return nil, d.meta.unknownField(string(f))
			}
			if (group.agg == AggAvg || group.agg == AggSum) && !fm.kind.numeric() {
				return nil, &ValidationError{Message: fmt.Sprintf("Field `%s` of model `%s` is not numeric and cannot be used in %s.", fm.name, d.meta.name, group.agg)}
			}
			cols = append(cols, aggColumn[F]{agg: group.agg, field: f, meta: fm})
		}
	}
	return cols, nil
}

func newAggregateResult[F ~string](cols []aggColumn[F]) AggregateResult[F] {
	var r AggregateResult[F]
	for _, c := range cols {
		switch c.agg {
		case AggCount:
			if r.Count == nil {
				r.Count = map[F]int64{}
			}
			r.Count[c.field] = 0
		case AggAvg:
			if r.Avg == nil {
				r.Avg = map[F]*float64{}
			}
			r.Avg[c.field] = nil
		case AggSum:
			if r.Sum == nil {
				r.Sum = map[F]*float64{}
			}
			r.Sum[c.field] = nil
		case AggMin:
			if r.Min == nil {
				r.Min = map[F]any{}
			}
			r.Min[c.field] = nil
		case AggMax:
			if r.Max == nil {
				r.Max = map[F]any{}
			}
			r.Max[c.field] = nil
		}
	}
	return r
}

func (r *AggregateResult[F]) set(c aggColumn[F], raw any) {
	switch c.agg {
	case AggCount:
		r.Count[c.field] = toInt(raw)
	case AggAvg:
		r.Avg[c.field] = floatPtr(raw)
	case AggSum:
		r.Sum[c.field] = floatPtr(raw)
	case AggMin:
		r.Min[c.field] = c.meta.normalize(raw)
	case AggMax:
		r.Max[c.field] = c.meta.normalize(raw)
	}
}

func floatPtr(raw any) *float64 {
	if raw == nil {
		return nil
	}
	n, ok := toFloat(raw)
	if !ok {
		return nil
	}
	return &n
}

func aliases(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = prefix + strconv.Itoa(i)
	}
	return out
}

// Aggregate computes count, avg, sum, min and max over the matched records.
func (d *delegate[M, W, U, C, D, F, I]) Aggregate(ctx context.Context, args AggregateArgs[W, U, F]) (*AggregateResult[F], error) {
	return d.aggregate(ctx, "aggregate", window[W, U, F]{
		where: args.Where, orderBy: args.OrderBy, cursor: args.Cursor, take: args.Take, skip: args.Skip,
	}, aggregates[F]{count: args.Count, avg: args.Avg, sum: args.Sum, min: args.Min, max: args.Max})
}

func (d *delegate[M, W, U, C, D, F, I]) aggregate(ctx context.Context, op string, w window[W, U, F], a aggregates[F]) (*AggregateResult[F], error) {
	cols, err := d.aggregateColumns(a)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, &ValidationError{Message: fmt.Sprintf("%s.%s needs at least one aggregate selection.", d.meta.name, op)}
	}
	res := newAggregateResult(cols)
	err = d.run(ctx, op, func(db *gorm.DB) error {
		s := d.meta.scope()
		var src *gorm.DB
		if w.cursor != nil || w.take != nil || (w.skip != nil && *w.skip > 0) {
			sub, _, found, err := d.filtered(db, w)
			if err != nil || !found {
				return err
			}
			src = db.Table("(?) AS ?", sub.Select("*"), clause.Table{Name: d.meta.name})
		} else {
			src = db.Table(d.meta.name)
			if w.where != nil {
				src = src.Clauses(whereOf((*w.where).expression(s)))
			}
		}
		names := aliases("a", len(cols))
		items := make(selectList, len(cols))
		for i, c := range cols {
			items[i] = selectItem{expr: c.expression(s), alias: names[i]}
		}
		rows, err := src.Clauses(clause.Select{Expression: items}).Rows()
		if err != nil {
			return err
		}
		defer rows.Close()
		if rows.Next() {
			vals, err := scanRow(rows, len(cols))
			if err != nil {
				return err
			}
			for i, c := range cols {
				res.set(c, vals[i])
			}
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func scanRow(rows *sql.Rows, n int) ([]any, error) {
	vals := make([]any, n)
	ptrs := make([]any, n)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return vals, nil
}

// GroupBy buckets the matched records by args.By and computes the requested
// aggregates per group.
func (d *delegate[M, W, U, C, D, F, I]) GroupBy(ctx context.Context, args GroupByArgs[W, F]) ([]GroupByResult[F], error) {
	if len(args.By) == 0 {
		return nil, &ValidationError{Message: "Argument `by` of groupBy must contain at least one field."}
	}
	by, err := checkFields(d.meta, args.By)
	if err != nil {
		return nil, err
	}
	cols, err := d.aggregateColumns(aggregates[F]{count: args.Count, avg: args.Avg, sum: args.Sum, min: args.Min, max: args.Max})
	if err != nil {
		return nil, err
	}
	orders, err := d.orderTerms(args.OrderBy, true)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, o := range orders {
		if !o.aggregate && !slices.Contains(by, o.field) {
			missing = append(missing, o.field)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Message: fmt.Sprintf("Every field used for orderBy must be included in the by-arguments of the query. Missing fields: %v", missing)}
	}
	if (args.Take != nil && *args.Take < 0) || (args.Skip != nil && *args.Skip < 0) {
		return nil, &ValidationError{Message: "Arguments `take` and `skip` of groupBy must not be negative."}
	}
	s := d.meta.scope()
	having, err := d.having(s, args.Having, by)
	if err != nil {
		return nil, err
	}

	var out []GroupByResult[F]
	err = d.run(ctx, "groupBy", func(db *gorm.DB) error {
		keys := aliases("g", len(by))
		names := aliases("a", len(cols))
		items := make(selectList, 0, len(by)+len(cols))
		group := make([]clause.Column, len(by))
		for i, f := range by {
			items = append(items, selectItem{expr: s.ref(f), alias: keys[i]})
			group[i] = s.col(f)
		}
		for i, c := range cols {
			items = append(items, selectItem{expr: c.expression(s), alias: names[i]})
		}
		tx := db.Table(d.meta.name)
		if args.Where != nil {
			tx = tx.Clauses(whereOf((*args.Where).expression(s)))
		}
		tx = tx.Clauses(clause.Select{Expression: items}, clause.GroupBy{Columns: group, Having: having})
		if len(orders) > 0 {
			tx = tx.Clauses(clause.OrderBy{Expression: orders})
		}
		if args.Take != nil {
			tx = tx.Limit(*args.Take)
		}
		if args.Skip != nil && *args.Skip > 0 {
			if args.Take == nil {
				tx = tx.Limit(math.MaxInt32)
			}
			tx = tx.Offset(*args.Skip)
		}
		rows, err := tx.Rows()
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			vals, err := scanRow(rows, len(items))
			if err != nil {
				return err
			}
			r := GroupByResult[F]{Keys: make(map[F]any, len(by)), AggregateResult: newAggregateResult(cols)}
			for i, f := range by {
				fm, _ := d.meta.field(f)
				r.Keys[F(f)] = fm.normalize(vals[i])
			}
			for i, c := range cols {
				r.set(c, vals[len(by)+i])
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []GroupByResult[F]{}
	}
	return out, nil
}

// having renders group filters. A term without an aggregate filters the
// grouped column itself and must name a by field.
func (d *delegate[M, W, U, C, D, F, I]) having(s scope, hs []Having[F], by []string) ([]clause.Expression, error) {
	var out []clause.Expression
	for _, h := range hs {
		fm, ok := d.meta.field(string(h.Field))
		if !ok {
			return nil, d.meta.unknownField(string(h.Field))
		}
		var target clause.Expression
		switch {
		case h.Aggregate == "":
			if !slices.Contains(by, fm.name) {
				return nil, &ValidationError{Message: fmt.Sprintf("Field `%s` used in having must be included in the by-arguments of the query.", fm.name)}
			}
			target = s.ref(fm.name)
		case h.Aggregate.function() == "":
			return nil, &ValidationError{Message: fmt.Sprintf("Unknown aggregate %q.", h.Aggregate)}
		default:
			if (h.Aggregate == AggAvg || h.Aggregate == AggSum) && !fm.kind.numeric() {
				return nil, &ValidationError{Message: fmt.Sprintf("Field `%s` of model `%s` is not numeric and cannot be used in %s.", fm.name, d.meta.name, h.Aggregate)}
			}
			target = aggregateRef{fn: h.Aggregate.function(), column: s.ref(fm.name)}
		}
		if e := h.Filter.expression(target); e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}
