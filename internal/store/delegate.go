package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// model is implemented by every model struct.
type model interface {
	TableName() string
	primaryKey() string
	fieldValue(name string) any
}

// batchSize bounds the id lists of batched UPDATE and DELETE statements.
const batchSize = 500

// delegate implements the operations shared by every model. M is the model,
// W its where input, U its unique input, C and D its create and update
// inputs, F its scalar field enum and I its include input.
type delegate[M model, W whereInput, U uniqueInput, C createInput[M], D updateInput, F ~string, I includeInput] struct {
	client *Client
	meta   *modelMeta
}

func (d *delegate[M, W, U, C, D, F, I]) run(ctx context.Context, op string, fn func(db *gorm.DB) error) error {
	return d.client.run(ctx, d.meta.name, op, fn)
}

// FindUnique returns the record matching args.Where, or nil when none does.
// Identical concurrent calls outside a transaction share one query. The
// shared query is not cancelled by any single caller; each caller stops
// waiting when its own ctx is done.
func (d *delegate[M, W, U, C, D, F, I]) FindUnique(ctx context.Context, args FindUniqueArgs[U, F, I]) (*M, error) {
	if d.client.tx != nil || args.Include != nil {
		return d.findUnique(ctx, args)
	}
	key, err := json.Marshal(args)
	if err != nil {
		return d.findUnique(ctx, args)
	}
	shared := context.WithoutCancel(ctx)
	ch := d.client.engine.group.DoChan(d.meta.name+":"+string(key), func() (any, error) {
		return d.findUnique(shared, args)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		rec, _ := res.Val.(*M)
		if rec == nil {
			return nil, nil
		}
		return cloneRecord(rec), nil
	}
}

// cloneRecord copies rec so that callers sharing a query do not share
// pointer or byte slice fields. Relations are not loaded on shared queries.
func cloneRecord[M any](rec *M) *M {
	cp := *rec
	v := reflect.ValueOf(&cp).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.Pointer:
			if !f.IsNil() {
				p := reflect.New(f.Type().Elem())
				p.Elem().Set(f.Elem())
				f.Set(p)
			}
		case reflect.Slice:
			if !f.IsNil() && f.Type().Elem().Kind() == reflect.Uint8 {
				f.SetBytes(slices.Clone(f.Bytes()))
			}
		}
	}
	return &cp
}

func (d *delegate[M, W, U, C, D, F, I]) findUnique(ctx context.Context, args FindUniqueArgs[U, F, I]) (*M, error) {
	sh, err := d.shape(args.Select, args.Omit, args.Include)
	if err != nil {
		return nil, d.client.translate(d.meta.name, "findUnique", err)
	}
	var rec *M
	err = d.run(ctx, "findUnique", func(db *gorm.DB) error {
		expr, err := args.Where.uniqueExpression(d.meta.scope())
		if err != nil {
			return err
		}
		rec, err = d.first(d.applyShape(db.Model(new(M)), sh).Clauses(whereOf(expr)))
		return err
	})
	return rec, err
}

// FindUniqueOrThrow is FindUnique returning a P2025 error when no record
// matches.
func (d *delegate[M, W, U, C, D, F, I]) FindUniqueOrThrow(ctx context.Context, args FindUniqueArgs[U, F, I]) (*M, error) {
	rec, err := d.FindUnique(ctx, args)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, d.client.translate(d.meta.name, "findUniqueOrThrow", notFound(d.meta.name, fmt.Sprintf("No %s found", d.meta.name)))
	}
	return rec, nil
}

// FindFirst returns the first record FindMany would return, or nil.
func (d *delegate[M, W, U, C, D, F, I]) FindFirst(ctx context.Context, args FindManyArgs[W, U, F, I]) (*M, error) {
	if args.Take == nil || *args.Take > 0 {
		args.Take = Ptr(1)
	} else if *args.Take < 0 {
		args.Take = Ptr(-1)
	}
	var rec *M
	err := d.run(ctx, "findFirst", func(db *gorm.DB) error {
		rows, err := d.findMany(db, args)
		if len(rows) > 0 {
			rec = &rows[0]
		}
		return err
	})
	return rec, err
}

// FindFirstOrThrow is FindFirst returning a P2025 error when nothing matches.
func (d *delegate[M, W, U, C, D, F, I]) FindFirstOrThrow(ctx context.Context, args FindManyArgs[W, U, F, I]) (*M, error) {
	rec, err := d.FindFirst(ctx, args)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, d.client.translate(d.meta.name, "findFirstOrThrow", notFound(d.meta.name, fmt.Sprintf("No %s found", d.meta.name)))
	}
	return rec, nil
}

// FindMany returns the records matching args.
func (d *delegate[M, W, U, C, D, F, I]) FindMany(ctx context.Context, args FindManyArgs[W, U, F, I]) ([]M, error) {
	var rows []M
	err := d.run(ctx, "findMany", func(db *gorm.DB) error {
		var err error
		rows, err = d.findMany(db, args)
		return err
	})
	if rows == nil && err == nil {
		rows = []M{}
	}
	return rows, err
}

func (d *delegate[M, W, U, C, D, F, I]) findMany(db *gorm.DB, args FindManyArgs[W, U, F, I]) ([]M, error) {
	sel := args.Select
	if len(sel) > 0 {
		for _, f := range args.Distinct {
			if !slices.Contains(sel, f) {
				sel = append(slices.Clone(sel), f)
			}
		}
	}
	sh, err := d.shape(sel, args.Omit, args.Include)
	if err != nil {
		return nil, err
	}
	distinct, err := checkFields(d.meta, args.Distinct)
	if err != nil {
		return nil, err
	}
	w := window[W, U, F]{
		where:    args.Where,
		orderBy:  args.OrderBy,
		cursor:   args.Cursor,
		take:     args.Take,
		skip:     args.Skip,
		noPaging: len(distinct) > 0,
	}
	tx, reverse, found, err := d.filtered(db, w)
	if err != nil || !found {
		return nil, err
	}
	var rows []M
	if err := d.applyShape(tx, sh).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(distinct) > 0 {
		rows = distinctRows(rows, distinct)
		take := args.Take
		if take != nil && *take < 0 {
			take = Ptr(-*take)
		}
		rows = page(rows, args.Skip, take)
	}
	if reverse {
		slices.Reverse(rows)
	}
	return rows, nil
}

// window is the row selection shared by findMany, count and aggregate.
type window[W, U any, F ~string] struct {
	where   *W
	orderBy []OrderBy[F]
	cursor  *U
	take    *int
	skip    *int
	// noPaging leaves take and skip to the caller.
	noPaging bool
}

// filtered applies where, cursor, ordering and paging. A negative take
// reverses the ordering; reverse reports that the rows must be flipped back.
// found is false when the cursor does not exist.
func (d *delegate[M, W, U, C, D, F, I]) filtered(db *gorm.DB, w window[W, U, F]) (tx *gorm.DB, reverse, found bool, err error) {
	s := d.meta.scope()
	orders, err := d.orderTerms(w.orderBy, false)
	if err != nil {
		return nil, false, false, err
	}
	take := w.take
	if take != nil && *take < 0 {
		reverse = true
		take = Ptr(-*take)
	}
	if w.cursor != nil || reverse {
		orders = withTiebreak(orders, s)
	}
	if reverse {
		orders = orders.reversed()
	}
	var exprs []clause.Expression
	if w.where != nil {
		exprs = append(exprs, (*w.where).expression(s))
	}
	if w.cursor != nil {
		expr, ok, err := d.cursorExpression(db, *w.cursor, orders)
		if err != nil || !ok {
			return nil, false, false, err
		}
		exprs = append(exprs, expr)
	}
	tx = db.Model(new(M))
	if len(exprs) > 0 {
		tx = tx.Clauses(whereOf(exprs...))
	}
	if len(orders) > 0 {
		tx = tx.Clauses(clause.OrderBy{Expression: orders})
	}
	if w.noPaging {
		return tx, reverse, true, nil
	}
	if take != nil {
		tx = tx.Limit(*take)
	}
	if w.skip != nil && *w.skip > 0 {
		if take == nil {
			tx = tx.Limit(math.MaxInt32)
		}
		tx = tx.Offset(*w.skip)
	}
	return tx, reverse, true, nil
}

func withTiebreak(orders orderList, s scope) orderList {
	for _, o := range orders {
		if o.field == "id" {
			return orders
		}
	}
	return append(slices.Clone(orders), orderTerm{field: "id", target: s.ref("id")})
}

// cursorExpression selects the rows at or after the cursor record in the
// given order.
func (d *delegate[M, W, U, C, D, F, I]) cursorExpression(db *gorm.DB, cursor U, orders orderList) (clause.Expression, bool, error) {
	s := d.meta.scope()
	expr, err := cursor.uniqueExpression(s)
	if err != nil {
		return nil, false, err
	}
	cur, err := d.first(db.Model(new(M)).Clauses(whereOf(expr)))
	if err != nil || cur == nil {
		return nil, false, err
	}
	var alts, prefix []clause.Expression
	for _, o := range orders {
		v := (*cur).fieldValue(o.field)
		nullsAfter := d.nullsAfter(o)
		var after, equal clause.Expression
		if v == nil {
			equal = nullCheck{o.target, true}
			if !nullsAfter {
				after = nullCheck{o.target, false}
			}
		} else {
			op := ">"
			if o.desc {
				op = "<"
			}
			equal = compare{o.target, "=", v}
			after = compare{o.target, op, v}
			if nullsAfter {
				after = or(after, nullCheck{o.target, true})
			}
		}
		if after != nil {
			alts = append(alts, and(append(slices.Clone(prefix), after)...))
		}
		prefix = append(prefix, equal)
	}
	alts = append(alts, and(prefix...))
	return or(alts...), true, nil
}

// nullsAfter reports whether NULLs sort after every other value of o.
// Without an explicit placement Postgres treats NULL as the largest value,
// SQLite and MySQL as the smallest.
func (d *delegate[M, W, U, C, D, F, I]) nullsAfter(o orderTerm) bool {
	switch o.nulls {
	case NullsLast:
		return true
	case NullsFirst:
		return false
	}
	largest := d.client.engine.provider == ProviderPostgres
	return largest != o.desc
}

func (d *delegate[M, W, U, C, D, F, I]) orderTerms(orderBy []OrderBy[F], grouped bool) (orderList, error) {
	s := d.meta.scope()
	out := make(orderList, 0, len(orderBy))
	for _, o := range orderBy {
		f, ok := d.meta.field(string(o.Field))
		if !ok {
			return nil, d.meta.unknownField(string(o.Field))
		}
		t := orderTerm{field: f.name, target: s.ref(f.name), desc: o.Sort == Desc, nulls: o.Nulls}
		if o.Aggregate != "" {
			if !grouped {
				return nil, &ValidationError{Message: "Ordering by aggregates is only supported by groupBy."}
			}
			fn := o.Aggregate.function()
			if fn == "" {
				return nil, &ValidationError{Message: fmt.Sprintf("Unknown aggregate %q.", o.Aggregate)}
			}
			if (o.Aggregate == AggAvg || o.Aggregate == AggSum) && !f.kind.numeric() {
				return nil, &ValidationError{Message: fmt.Sprintf("Field `%s` of model `%s` is not numeric.", f.name, d.meta.name)}
			}
			t.target = aggregateRef{fn: fn, column: t.target}
			t.aggregate = true
		}
		out = append(out, t)
	}
	return out, nil
}

func (d *delegate[M, W, U, C, D, F, I]) first(tx *gorm.DB) (*M, error) {
	var rows []M
	if err := tx.Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// shape is the resolved select, omit and include of a query.
type shape struct {
	selects  []string
	omits    []string
	preloads []preload
}

func (d *delegate[M, W, U, C, D, F, I]) shape(sel, omit []F, inc *I) (shape, error) {
	var sh shape
	if len(sel) > 0 && inc != nil {
		return sh, &ValidationError{Message: "Please either use `include` or `select`, but not both at the same time."}
	}
	if len(sel) > 0 && len(omit) > 0 {
		return sh, &ValidationError{Message: "Please either use `omit` or `select`, but not both at the same time."}
	}
	var err error
	if sh.selects, err = checkFields(d.meta, sel); err != nil {
		return sh, err
	}
	if sh.omits, err = checkFields(d.meta, omit); err != nil {
		return sh, err
	}
	if len(sh.selects) == 0 {
		for _, f := range d.client.engine.omit[d.meta.name] {
			if !slices.Contains(sh.omits, f) {
				sh.omits = append(sh.omits, f)
			}
		}
	}
	if inc != nil {
		sh.preloads = (*inc).preloads()
	}
	return sh, nil
}

func (d *delegate[M, W, U, C, D, F, I]) applyShape(tx *gorm.DB, sh shape) *gorm.DB {
	if len(sh.selects) > 0 {
		tx = tx.Select(sh.selects)
	}
	if len(sh.omits) > 0 {
		tx = tx.Omit(sh.omits...)
	}
	for _, p := range sh.preloads {
		omit := d.client.engine.omit[p.model]
		orderBy := p.orderBy
		tx = tx.Preload(p.field, func(db *gorm.DB) *gorm.DB {
			if len(omit) > 0 {
				db = db.Omit(omit...)
			}
			if orderBy != "" {
				db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: orderBy}})
			}
			return db
		})
	}
	return tx
}

// Create inserts a record together with its nested writes.
func (d *delegate[M, W, U, C, D, F, I]) Create(ctx context.Context, args CreateArgs[C, F, I]) (*M, error) {
	sh, err := d.shape(args.Select, args.Omit, args.Include)
	if err != nil {
		return nil, d.client.translate(d.meta.name, "create", err)
	}
	var rec *M
	err = d.run(ctx, "create", func(db *gorm.DB) error {
		return d.client.atomic(db, func(tx *gorm.DB) error {
			id, err := d.create(tx, args.Data)
			if err != nil {
				return err
			}
			rec, err = d.reload(tx, id, sh)
			return err
		})
	})
	return rec, err
}

func (d *delegate[M, W, U, C, D, F, I]) create(tx *gorm.DB, data C) (string, error) {
	m := &mutation{}
	rec, err := data.build(m, d.client.now())
	if err != nil {
		return "", err
	}
	if err := insert(tx, rec, m); err != nil {
		return "", err
	}
	return (*rec).primaryKey(), nil
}

func (d *delegate[M, W, U, C, D, F, I]) reload(tx *gorm.DB, id string, sh shape) (*M, error) {
	return d.first(d.applyShape(tx.Model(new(M)), sh).Clauses(whereOf(idIn([]string{id}))))
}

// CreateMany inserts records in batches and reports how many were written.
// With SkipDuplicates, rows conflicting with a unique constraint are skipped.
func (d *delegate[M, W, U, C, D, F, I]) CreateMany(ctx context.Context, args CreateManyArgs[C, F]) (BatchPayload, error) {
	var n int64
	err := d.run(ctx, "createMany", func(db *gorm.DB) error {
		return d.client.atomic(db, func(tx *gorm.DB) error {
			var err error
			n, _, err = d.createMany(tx, args)
			return err
		})
	})
	return BatchPayload{Count: n}, err
}

// CreateManyAndReturn is CreateMany returning the inserted records.
func (d *delegate[M, W, U, C, D, F, I]) CreateManyAndReturn(ctx context.Context, args CreateManyArgs[C, F]) ([]M, error) {
	sh, err := d.shape(args.Select, args.Omit, nil)
	if err != nil {
		return nil, d.client.translate(d.meta.name, "createManyAndReturn", err)
	}
	rows := []M{}
	err = d.run(ctx, "createManyAndReturn", func(db *gorm.DB) error {
		return d.client.atomic(db, func(tx *gorm.DB) error {
			_, ids, err := d.createMany(tx, args)
			if err != nil {
				return err
			}
			rows, err = d.byIDs(tx, ids, sh)
			return err
		})
	})
	return rows, err
}

func (d *delegate[M, W, U, C, D, F, I]) createMany(tx *gorm.DB, args CreateManyArgs[C, F]) (int64, []string, error) {
	now := d.client.now()
	recs := make([]M, 0, len(args.Data))
	ids := make([]string, 0, len(args.Data))
	for _, in := range args.Data {
		m := &mutation{}
		rec, err := in.build(m, now)
		if err != nil {
			return 0, nil, err
		}
		if m.nested() {
			return 0, nil, &ValidationError{Message: fmt.Sprintf("%s.createMany does not support nested relation writes.", d.meta.name)}
		}
		recs = append(recs, *rec)
		ids = append(ids, (*rec).primaryKey())
	}
	var n int64
	for chunk := range slices.Chunk(recs, 100) {
		q := tx.Omit(clause.Associations)
		if args.SkipDuplicates {
			q = q.Clauses(clause.OnConflict{DoNothing: true})
		}
		res := q.Create(&chunk)
		if res.Error != nil {
			return 0, nil, res.Error
		}
		n += res.RowsAffected
	}
	return n, ids, nil
}

func (d *delegate[M, W, U, C, D, F, I]) byIDs(tx *gorm.DB, ids []string, sh shape) ([]M, error) {
	out := []M{}
	for chunk := range slices.Chunk(ids, batchSize) {
		var rows []M
		q := d.applyShape(tx.Model(new(M)), sh).Clauses(whereOf(idIn(chunk)))
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	order := make(map[string]int, len(ids))
	for i, id := range ids {
		order[id] = i
	}
	slices.SortStableFunc(out, func(a, b M) int { return order[a.primaryKey()] - order[b.primaryKey()] })
	return out, nil
}

// Update modifies the record matching args.Where. It fails with P2025 when
// no record matches.
func (d *delegate[M, W, U, C, D, F, I]) Update(ctx context.Context, args UpdateArgs[U, D, F, I]) (*M, error) {
	sh, err := d.shape(args.Select, args.Omit, args.Include)
	if err != nil {
		return nil, d.client.translate(d.meta.name, "update", err)
	}
	var rec *M
	err = d.run(ctx, "update", func(db *gorm.DB) error {
		return d.client.atomic(db, func(tx *gorm.DB) error {
			id, err := lookupID(tx, d.meta, args.Where)
			if err != nil {
				return err
			}
			if id == "" {
				return notFound(d.meta.name, "Record to update not found.")
			}
			if err := d.updateIDs(tx, []string{id}, args.Data); err != nil {
				return err
			}
			rec, err = d.reload(tx, id, sh)
			return err
		})
	})
	return rec, err
}

func (d *delegate[M, W, U, C, D, F, I]) updateIDs(tx *gorm.DB, ids []string, data D) error {
	u := newUpdate(d.meta, d.client.now())
	if err := data.apply(u); err != nil {
		return err
	}
	for _, step := range u.steps {
		if err := step(tx); err != nil {
			return err
		}
	}
	if u.empty() && !d.meta.updatedAt {
		return nil
	}
	set := u.assignments(tx)
	for chunk := range slices.Chunk(ids, batchSize) {
		if err := tx.Table(d.meta.name).Clauses(whereOf(idIn(chunk))).Updates(set).Error; err != nil {
			return err
		}
	}
	return nil
}

// UpdateMany applies args.Data to every matching record.
func (d *delegate[M, W, U, C, D, F, I]) UpdateMany(ctx context.Context, args UpdateManyArgs[W, D, F]) (BatchPayload, error) {
	var n int64
	err := d.run(ctx, "updateMany", func(db *gorm.DB) error {
		return d.client.atomic(db, func(tx *gorm.DB) error {
			ids, err := d.matchingIDs(tx, args.Where, args.Limit)
			if err != nil || len(ids) == 0 {
				return err
			}
			n = int64(len(ids))
			return d.updateIDs(tx, ids, args.Data)
		})
	})
	return BatchPayload{Count: n}, err
}

// UpdateManyAndReturn is UpdateMany returning the updated records.
func (d *delegate[M, W, U, C, D, F, I]) UpdateManyAndReturn(ctx context.Context, args UpdateManyArgs[W, D, F]) ([]M, error) {
	sh, err := d.shape(args.Select, args.Omit, nil)
	if err != nil {
		return nil, d.client.translate(d.meta.name, "updateManyAndReturn", err)
	}
	rows := []M{}
	err = d.run(ctx, "updateManyAndReturn", func(db *gorm.DB) error {
		return d.client.atomic(db, func(tx *gorm.DB) error {
			ids, err := d.matchingIDs(tx, args.Where, args.Limit)
			if err != nil || len(ids) == 0 {
				return err
			}
			if err := d.updateIDs(tx, ids, args.Data); err != nil {
				return err
			}
			rows, err = d.byIDs(tx, ids, sh)
			return err
		})
	})
	return rows, err
}

// matchingIDs resolves a where input to primary keys. Mutations run against
// the id list because MySQL rejects subqueries on the table being modified.
func (d *delegate[M, W, U, C, D, F, I]) matchingIDs(tx *gorm.DB, where *W, limit *int) ([]string, error) {
	if limit != nil && *limit < 0 {
		return nil, &ValidationError{Message: "Argument `limit` must be a non-negative integer."}
	}
	q := tx.Model(new(M))
	if where != nil {
		q = q.Clauses(whereOf((*where).expression(d.meta.scope())))
	}
	if limit != nil {
		q = q.Limit(*limit)
	}
	var ids []string
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Upsert updates the record matching args.Where, or creates args.Create
// when there is none.
func (d *delegate[M, W, U, C, D, F, I]) Upsert(ctx context.Context, args UpsertArgs[U, C, D, F, I]) (*M, error) {
	sh, err := d.shape(args.Select, args.Omit, args.Include)
	if err != nil {
		return nil, d.client.translate(d.meta.name, "upsert", err)
	}
	var rec *M
	err = d.run(ctx, "upsert", func(db *gorm.DB) error {
		return d.client.atomic(db, func(tx *gorm.DB) error {
			id, err := lookupID(tx, d.meta, args.Where)
			if err != nil {
				return err
			}
			if id != "" {
				err = d.updateIDs(tx, []string{id}, args.Update)
			} else {
				id, err = d.create(tx, args.Create)
			}
			if err != nil {
				return err
			}
			rec, err = d.reload(tx, id, sh)
			return err
		})
	})
	return rec, err
}

// Delete removes the record matching args.Where and returns it. It fails
// with P2025 when no record matches.
func (d *delegate[M, W, U, C, D, F, I]) Delete(ctx context.Context, args DeleteArgs[U, F, I]) (*M, error) {
	sh, err := d.shape(args.Select, args.Omit, args.Include)
	if err != nil {
		return nil, d.client.translate(d.meta.name, "delete", err)
	}
	var rec *M
	err = d.run(ctx, "delete", func(db *gorm.DB) error {
		return d.client.atomic(db, func(tx *gorm.DB) error {
			id, err := lookupID(tx, d.meta, args.Where)
			if err != nil {
				return err
			}
			if id == "" {
				return notFound(d.meta.name, "Record to delete does not exist.")
			}
			if rec, err = d.reload(tx, id, sh); err != nil {
				return err
			}
			return d.deleteIDs(tx, []string{id})
		})
	})
	return rec, err
}

// DeleteMany removes every matching record.
func (d *delegate[M, W, U, C, D, F, I]) DeleteMany(ctx context.Context, args DeleteManyArgs[W]) (BatchPayload, error) {
	var n int64
	err := d.run(ctx, "deleteMany", func(db *gorm.DB) error {
		return d.client.atomic(db, func(tx *gorm.DB) error {
			ids, err := d.matchingIDs(tx, args.Where, args.Limit)
			if err != nil || len(ids) == 0 {
				return err
			}
			n = int64(len(ids))
			return d.deleteIDs(tx, ids)
		})
	})
	return BatchPayload{Count: n}, err
}

func (d *delegate[M, W, U, C, D, F, I]) deleteIDs(tx *gorm.DB, ids []string) error {
	for chunk := range slices.Chunk(ids, batchSize) {
		if err := tx.Clauses(whereOf(idIn(chunk))).Delete(new(M)).Error; err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of records matching args.
func (d *delegate[M, W, U, C, D, F, I]) Count(ctx context.Context, args CountArgs[W, U, F]) (int64, error) {
	res, err := d.aggregate(ctx, "count", window[W, U, F]{
		where: args.Where, orderBy: args.OrderBy, cursor: args.Cursor, take: args.Take, skip: args.Skip,
	}, aggregates[F]{count: []F{CountAll}})
	if err != nil {
		return 0, err
	}
	return res.Count[CountAll], nil
}

func distinctRows[M model](rows []M, fields []string) []M {
	seen := map[string]struct{}{}
	out := rows[:0:0]
	for _, r := range rows {
		vals := make([]any, len(fields))
		for i, f := range fields {
			vals[i] = r.fieldValue(f)
		}
		key := fmt.Sprintf("%#v", vals)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

func page[T any](rows []T, skip, take *int) []T {
	if skip != nil && *skip > 0 {
		if *skip >= len(rows) {
			return rows[:0]
		}
		rows = rows[*skip:]
	}
	if take != nil && *take < len(rows) {
		rows = rows[:*take]
	}
	return rows
}
