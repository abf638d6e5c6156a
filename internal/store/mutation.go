package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// createInput is implemented by every <Model>CreateInput. build returns the
// record to insert and registers nested writes on m.
type createInput[M any] interface {
	build(m *mutation, now time.Time) (*M, error)
}

// updateInput is implemented by every <Model>UpdateInput.
type updateInput interface {
	apply(u *update) error
}

// includeInput is implemented by every <Model>Include.
type includeInput interface {
	preloads() []preload
}

type preload struct {
	field   string
	model   string
	orderBy string
}

// mutation collects the nested writes of a create. before runs ahead of the
// insert, typically to resolve a foreign key, after runs once the parent row
// exists.
type mutation struct {
	before []func(tx *gorm.DB) error
	after  []func(tx *gorm.DB) error
}

func (m *mutation) nested() bool { return len(m.before)+len(m.after) > 0 }

func insert[M any](tx *gorm.DB, rec *M, m *mutation) error {
	for _, fn := range m.before {
		if err := fn(tx); err != nil {
			return err
		}
	}
	if err := tx.Omit(clause.Associations).Create(rec).Error; err != nil {
		return err
	}
	for _, fn := range m.after {
		if err := fn(tx); err != nil {
			return err
		}
	}
	return nil
}

// createChild inserts a related record after its parent.
func createChild[M any, C createInput[M]](m *mutation, in C, now time.Time) {
	m.after = append(m.after, func(tx *gorm.DB) error {
		child := &mutation{}
		rec, err := in.build(child, now)
		if err != nil {
			return err
		}
		return insert(tx, rec, child)
	})
}

// connectParent resolves the foreign key of a to-one relation before the
// insert, either by looking up an existing record or by creating one.
func connectParent[M model, C createInput[M], U uniqueInput](m *mutation, meta *modelMeta, relation string, connect *U, create *C, now time.Time, assign func(id string)) {
	m.before = append(m.before, func(tx *gorm.DB) error {
		switch {
		case connect != nil && create != nil:
			return &ValidationError{Message: fmt.Sprintf("Relation `%s` accepts either `connect` or `create`, not both.", relation)}
		case connect != nil:
			id, err := lookupID(tx, meta, *connect)
			if err != nil {
				return err
			}
			if id == "" {
				return connectNotFound(meta.name, relation)
			}
			assign(id)
		case create != nil:
			child := &mutation{}
			rec, err := (*create).build(child, now)
			if err != nil {
				return err
			}
			if err := insert(tx, rec, child); err != nil {
				return err
			}
			assign((*rec).primaryKey())
		}
		return nil
	})
}

// connectChildren points existing records of a to-many relation at the new
// parent.
func connectChildren[U uniqueInput](m *mutation, meta *modelMeta, relation, foreignKey string, connect []U, parentID func() string) {
	if len(connect) == 0 {
		return
	}
	m.after = append(m.after, func(tx *gorm.DB) error {
		for _, where := range connect {
			id, err := lookupID(tx, meta, where)
			if err != nil {
				return err
			}
			if id == "" {
				return connectNotFound(meta.name, relation)
			}
			err = tx.Table(meta.name).Clauses(whereOf(idIn([]string{id}))).
				Updates(map[string]any{foreignKey: parentID()}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func connectNotFound(model, relation string) *KnownRequestError {
	return notFound(model, fmt.Sprintf("No '%s' record was found for a nested connect on relation '%s'.", model, relation))
}

// lookupID returns the id of the record matching where, or "" when none does.
func lookupID(tx *gorm.DB, meta *modelMeta, where uniqueInput) (string, error) {
	expr, err := where.uniqueExpression(meta.scope())
	if err != nil {
		return "", err
	}
	var ids []string
	if err := tx.Table(meta.name).Clauses(whereOf(expr)).Limit(1).Pluck("id", &ids).Error; err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

// update accumulates the column assignments of an update input.
type update struct {
	meta   *modelMeta
	now    time.Time
	values map[string]any
	arith  map[string]arithmetic
	steps  []func(tx *gorm.DB) error
}

type arithmetic struct {
	op    string
	value any
}

func newUpdate(meta *modelMeta, now time.Time) *update {
	return &update{meta: meta, now: now, values: map[string]any{}, arith: map[string]arithmetic{}}
}

func (u *update) empty() bool { return len(u.values) == 0 && len(u.arith) == 0 }

// assignments renders the SET map. updatedAt is refreshed unless the input
// sets it.
func (u *update) assignments(tx *gorm.DB) map[string]any {
	out := make(map[string]any, len(u.values)+len(u.arith)+1)
	for col, v := range u.values {
		out[col] = v
	}
	for col, a := range u.arith {
		out[col] = gorm.Expr(tx.Statement.Quote(clause.Column{Name: col})+" "+a.op+" ?", a.value)
	}
	if u.meta.updatedAt {
		if _, ok := out["updatedAt"]; !ok {
			out["updatedAt"] = u.now
		}
	}
	return out
}

func setValue[T any](u *update, col string, v *T) {
	if v != nil {
		u.values[col] = bindValue(*v)
	}
}

func setNullable[T any](u *update, col string, v *Nullable[T]) {
	if v == nil {
		return
	}
	if v.Value == nil {
		u.values[col] = nil
		return
	}
	u.values[col] = bindValue(*v.Value)
}

func setNumber[T Number](u *update, col string, v *NumberUpdate[T]) error {
	if v == nil {
		return nil
	}
	ops := 0
	for _, p := range []*T{v.Set, v.Increment, v.Decrement, v.Multiply, v.Divide} {
		if p != nil {
			ops++
		}
	}
	if v.SetNull {
		ops++
	}
	if ops != 1 {
		return &ValidationError{Message: fmt.Sprintf("Argument `%s` on model `%s` needs exactly one operation, got %d.", col, u.meta.name, ops)}
	}
	switch {
	case v.SetNull:
		if f, _ := u.meta.field(col); !f.nullable {
			return &ValidationError{Message: fmt.Sprintf("Argument `%s` on model `%s` must not be null.", col, u.meta.name)}
		}
		u.values[col] = nil
	case v.Set != nil:
		u.values[col] = *v.Set
	case v.Increment != nil:
		u.arith[col] = arithmetic{"+", *v.Increment}
	case v.Decrement != nil:
		u.arith[col] = arithmetic{"-", *v.Decrement}
	case v.Multiply != nil:
		u.arith[col] = arithmetic{"*", *v.Multiply}
	case v.Divide != nil:
		if *v.Divide == 0 {
			return &ValidationError{Message: fmt.Sprintf("Argument `%s` on model `%s`: division by zero.", col, u.meta.name)}
		}
		u.arith[col] = arithmetic{"/", *v.Divide}
	}
	return nil
}

// connectForeignKey resolves a nested connect of an update into a foreign
// key assignment.
func connectForeignKey[U uniqueInput](u *update, meta *modelMeta, relation, foreignKey string, where U) {
	u.steps = append(u.steps, func(tx *gorm.DB) error {
		id, err := lookupID(tx, meta, where)
		if err != nil {
			return err
		}
		if id == "" {
			return connectNotFound(meta.name, relation)
		}
		u.values[foreignKey] = id
		return nil
	})
}
