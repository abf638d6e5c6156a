package store

// OrderBy is one ordering term. Aggregate is only accepted by GroupBy.
type OrderBy[F ~string] struct {
	Field     F          `json:"field"`
	Sort      SortOrder  `json:"sort,omitempty"`
	Nulls     NullsOrder `json:"nulls,omitempty"`
	Aggregate Aggregate  `json:"aggregate,omitempty"`
}

// SortAsc orders by field ascending.
func SortAsc[F ~string](field F) OrderBy[F] { return OrderBy[F]{Field: field, Sort: Asc} }

// SortDesc orders by field descending.
func SortDesc[F ~string](field F) OrderBy[F] { return OrderBy[F]{Field: field, Sort: Desc} }

// FindUniqueArgs selects one record by a unique input.
type FindUniqueArgs[U, F, I any] struct {
	Where   U   `json:"where"`
	Select  []F `json:"select,omitempty"`
	Omit    []F `json:"omit,omitempty"`
	Include *I  `json:"include,omitempty"`
}

// FindManyArgs selects records.
type FindManyArgs[W, U any, F ~string, I any] struct {
	Where    *W           `json:"where,omitempty"`
	OrderBy  []OrderBy[F] `json:"orderBy,omitempty"`
	Cursor   *U           `json:"cursor,omitempty"`
	Take     *int         `json:"take,omitempty"`
	Skip     *int         `json:"skip,omitempty"`
	Distinct []F          `json:"distinct,omitempty"`
	Select   []F          `json:"select,omitempty"`
	Omit     []F          `json:"omit,omitempty"`
	Include  *I           `json:"include,omitempty"`
}

type CreateArgs[C, F, I any] struct {
	Data    C   `json:"data"`
	Select  []F `json:"select,omitempty"`
	Omit    []F `json:"omit,omitempty"`
	Include *I  `json:"include,omitempty"`
}

// CreateManyArgs inserts several records. Nested relation writes are not
// accepted.
type CreateManyArgs[C, F any] struct {
	Data           []C  `json:"data"`
	SkipDuplicates bool `json:"skipDuplicates,omitempty"`
	Select         []F  `json:"select,omitempty"`
	Omit           []F  `json:"omit,omitempty"`
}

type UpdateArgs[U, D, F, I any] struct {
	Where   U   `json:"where"`
	Data    D   `json:"data"`
	Select  []F `json:"select,omitempty"`
	Omit    []F `json:"omit,omitempty"`
	Include *I  `json:"include,omitempty"`
}

// UpdateManyArgs updates every matching record, at most Limit of them when
// Limit is set.
type UpdateManyArgs[W, D, F any] struct {
	Where  *W   `json:"where,omitempty"`
	Data   D    `json:"data"`
	Limit  *int `json:"limit,omitempty"`
	Select []F  `json:"select,omitempty"`
	Omit   []F  `json:"omit,omitempty"`
}

type UpsertArgs[U, C, D, F, I any] struct {
	Where   U   `json:"where"`
	Create  C   `json:"create"`
	Update  D   `json:"update"`
	Select  []F `json:"select,omitempty"`
	Omit    []F `json:"omit,omitempty"`
	Include *I  `json:"include,omitempty"`
}

type DeleteArgs[U, F, I any] struct {
	Where   U   `json:"where"`
	Select  []F `json:"select,omitempty"`
	Omit    []F `json:"omit,omitempty"`
	Include *I  `json:"include,omitempty"`
}

type DeleteManyArgs[W any] struct {
	Where *W   `json:"where,omitempty"`
	Limit *int `json:"limit,omitempty"`
}

type CountArgs[W, U any, F ~string] struct {
	Where   *W           `json:"where,omitempty"`
	OrderBy []OrderBy[F] `json:"orderBy,omitempty"`
	Cursor  *U           `json:"cursor,omitempty"`
	Take    *int         `json:"take,omitempty"`
	Skip    *int         `json:"skip,omitempty"`
}

// AggregateArgs computes aggregates over the records matched by Where and
// the Cursor, Take and Skip window. Count accepts CountAll for the row count.
type AggregateArgs[W, U any, F ~string] struct {
	Where   *W           `json:"where,omitempty"`
	OrderBy []OrderBy[F] `json:"orderBy,omitempty"`
	Cursor  *U           `json:"cursor,omitempty"`
	Take    *int         `json:"take,omitempty"`
	Skip    *int         `json:"skip,omitempty"`
	Count   []F          `json:"_count,omitempty"`
	Avg     []F          `json:"_avg,omitempty"`
	Sum     []F          `json:"_sum,omitempty"`
	Min     []F          `json:"_min,omitempty"`
	Max     []F          `json:"_max,omitempty"`
}

// Having filters groups on an aggregate of Field. Without an Aggregate it
// filters the value of a by field, so Filter compares against values of any
// column type.
type Having[F ~string] struct {
	Field     F            `json:"field"`
	Aggregate Aggregate    `json:"aggregate"`
	Filter    *Filter[any] `json:"filter"`
}

type GroupByArgs[W any, F ~string] struct {
	By      []F          `json:"by"`
	Where   *W           `json:"where,omitempty"`
	Having  []Having[F]  `json:"having,omitempty"`
	OrderBy []OrderBy[F] `json:"orderBy,omitempty"`
	Take    *int         `json:"take,omitempty"`
	Skip    *int         `json:"skip,omitempty"`
	Count   []F          `json:"_count,omitempty"`
	Avg     []F          `json:"_avg,omitempty"`
	Sum     []F          `json:"_sum,omitempty"`
	Min     []F          `json:"_min,omitempty"`
	Max     []F          `json:"_max,omitempty"`
}

// BatchPayload reports how many records a batch operation touched.
type BatchPayload struct {
	Count int64 `json:"count"`
}

// AggregateResult holds the requested aggregates keyed by field. Count is
// keyed by CountAll for the row count. Avg and Sum are nil for empty inputs.
type AggregateResult[F ~string] struct {
	Count map[F]int64    `json:"_count,omitempty"`
	Avg   map[F]*float64 `json:"_avg,omitempty"`
	Sum   map[F]*float64 `json:"_sum,omitempty"`
	Min   map[F]any      `json:"_min,omitempty"`
	Max   map[F]any      `json:"_max,omitempty"`
}

// GroupByResult is one group: the values of the by fields and the group
// aggregates.
type GroupByResult[F ~string] struct {
	Keys map[F]any `json:"keys"`
	AggregateResult[F]
}

// Nullable updates a nullable column. A nil Value sets NULL.
type Nullable[T any] struct {
	Value *T
}

// Set returns a Nullable update writing v.
func Set[T any](v T) *Nullable[T] { return &Nullable[T]{Value: &v} }

// Null returns a Nullable update writing NULL.
func Null[T any]() *Nullable[T] { return &Nullable[T]{} }

// Number is the set of numeric column types.
type Number interface {
	~int | ~int64 | ~float64
}

// NumberUpdate updates a numeric column. Exactly one operation must be set.
// SetNull is only valid on nullable columns.
type NumberUpdate[T Number] struct {
	Set       *T
	Increment *T
	Decrement *T
	Multiply  *T
	Divide    *T
	SetNull   bool
}

func SetTo[T Number](v T) *NumberUpdate[T]     { return &NumberUpdate[T]{Set: &v} }
func Increment[T Number](v T) *NumberUpdate[T] { return &NumberUpdate[T]{Increment: &v} }
func Decrement[T Number](v T) *NumberUpdate[T] { return &NumberUpdate[T]{Decrement: &v} }
func Multiply[T Number](v T) *NumberUpdate[T]  { return &NumberUpdate[T]{Multiply: &v} }
func Divide[T Number](v T) *NumberUpdate[T]    { return &NumberUpdate[T]{Divide: &v} }
