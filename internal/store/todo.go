package store

import (
	"fmt"
	"time"

	"gorm.io/gorm/clause"
)

// Todo is a task tracked by the assistant, optionally tied to the
// conversation that produced it.
type Todo struct {
	ID             string     `gorm:"column:id;primaryKey" json:"id"`
	Title          string     `gorm:"column:title;not null" json:"title"`
	Description    *string    `gorm:"column:description" json:"description"`
	Status         TodoStatus `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	Priority       Priority   `gorm:"column:priority;type:varchar(16);not null" json:"priority"`
	ConversationID *string    `gorm:"column:conversationId;index" json:"conversationId"`
	Position       int        `gorm:"column:position;not null" json:"position"`
	DueDate        *time.Time `gorm:"column:dueDate" json:"dueDate"`
	CompletedAt    *time.Time `gorm:"column:completedAt" json:"completedAt"`
	CreatedAt      time.Time  `gorm:"column:createdAt;not null" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"column:updatedAt;not null" json:"updatedAt"`
}

func (Todo) TableName() string { return "Todo" }

func (t Todo) primaryKey() string { return t.ID }

func (t Todo) fieldValue(name string) any {
	switch name {
	case "id":
		return t.ID
	case "title":
		return t.Title
	case "description":
		return deref(t.Description)
	case "status":
		return string(t.Status)
	case "priority":
		return string(t.Priority)
	case "conversationId":
		return deref(t.ConversationID)
	case "position":
		return t.Position
	case "dueDate":
		return deref(t.DueDate)
	case "completedAt":
		return deref(t.CompletedAt)
	case "createdAt":
		return t.CreatedAt
	case "updatedAt":
		return t.UpdatedAt
	}
	return nil
}

type TodoScalarField string

const (
	TodoFieldID             TodoScalarField = "id"
	TodoFieldTitle          TodoScalarField = "title"
	TodoFieldDescription    TodoScalarField = "description"
	TodoFieldStatus         TodoScalarField = "status"
	TodoFieldPriority       TodoScalarField = "priority"
	TodoFieldConversationID TodoScalarField = "conversationId"
	TodoFieldPosition       TodoScalarField = "position"
	TodoFieldDueDate        TodoScalarField = "dueDate"
	TodoFieldCompletedAt    TodoScalarField = "completedAt"
	TodoFieldCreatedAt      TodoScalarField = "createdAt"
	TodoFieldUpdatedAt      TodoScalarField = "updatedAt"
)

var todoMeta = newModelMeta("Todo",
	fieldMeta{name: "id", kind: kindString},
	fieldMeta{name: "title", kind: kindString},
	fieldMeta{name: "description", kind: kindString, nullable: true},
	fieldMeta{name: "status", kind: kindEnum},
	fieldMeta{name: "priority", kind: kindEnum},
	fieldMeta{name: "conversationId", kind: kindString, nullable: true},
	fieldMeta{name: "position", kind: kindInt},
	fieldMeta{name: "dueDate", kind: kindDateTime, nullable: true},
	fieldMeta{name: "completedAt", kind: kindDateTime, nullable: true},
	fieldMeta{name: "createdAt", kind: kindDateTime},
	fieldMeta{name: "updatedAt", kind: kindDateTime},
)

type (
	TodoStatusFilter = Filter[TodoStatus]
	PriorityFilter   = Filter[Priority]
)

type TodoWhereInput struct {
	AND []TodoWhereInput `json:"AND,omitempty"`
	OR  []TodoWhereInput `json:"OR,omitempty"`
	NOT []TodoWhereInput `json:"NOT,omitempty"`

	ID             *StringFilter     `json:"id,omitempty"`
	Title          *StringFilter     `json:"title,omitempty"`
	Description    *StringFilter     `json:"description,omitempty"`
	Status         *TodoStatusFilter `json:"status,omitempty"`
	Priority       *PriorityFilter   `json:"priority,omitempty"`
	ConversationID *StringFilter     `json:"conversationId,omitempty"`
	Position       *IntFilter        `json:"position,omitempty"`
	DueDate        *DateTimeFilter   `json:"dueDate,omitempty"`
	CompletedAt    *DateTimeFilter   `json:"completedAt,omitempty"`
	CreatedAt      *DateTimeFilter   `json:"createdAt,omitempty"`
	UpdatedAt      *DateTimeFilter   `json:"updatedAt,omitempty"`
}

func (w TodoWhereInput) expression(s scope) clause.Expression {
	return conjoin(append(logical(s, w.AND, w.OR, w.NOT),
		w.ID.expression(s.ref("id")),
		w.Title.expression(s.ref("title")),
		w.Description.expression(s.ref("description")),
		w.Status.expression(s.ref("status")),
		w.Priority.expression(s.ref("priority")),
		w.ConversationID.expression(s.ref("conversationId")),
		w.Position.expression(s.ref("position")),
		w.DueDate.expression(s.ref("dueDate")),
		w.CompletedAt.expression(s.ref("completedAt")),
		w.CreatedAt.expression(s.ref("createdAt")),
		w.UpdatedAt.expression(s.ref("updatedAt")),
	)...)
}

type TodoWhereUniqueInput struct {
	ID *string `json:"id,omitempty"`
}

func (u TodoWhereUniqueInput) uniqueExpression(s scope) (clause.Expression, error) {
	return uniqueWhere(s, "TodoWhereUniqueInput", uniqueKey{"id", u.ID})
}

type TodoCreateInput struct {
	ID             *string
	Title          string
	Description    *string
	Status         *TodoStatus
	Priority       *Priority
	ConversationID *string
	Position       *int
	DueDate        *time.Time
	CompletedAt    *time.Time
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
}

func (in TodoCreateInput) build(_ *mutation, now time.Time) (*Todo, error) {
	rec := &Todo{
		ID:             valueOr(in.ID, newID()),
		Title:          in.Title,
		Description:    in.Description,
		Status:         valueOr(in.Status, TodoStatusBacklog),
		Priority:       valueOr(in.Priority, PriorityMedium),
		ConversationID: in.ConversationID,
		Position:       valueOr(in.Position, 0),
		DueDate:        utcPtr(in.DueDate),
		CompletedAt:    utcPtr(in.CompletedAt),
		CreatedAt:      timeOr(in.CreatedAt, now),
		UpdatedAt:      timeOr(in.UpdatedAt, now),
	}
	if err := checkEnums(rec.Status, rec.Priority); err != nil {
		return nil, err
	}
	return rec, nil
}

func checkEnums(status TodoStatus, priority Priority) error {
	if status != "" && !status.Valid() {
		return &ValidationError{Message: fmt.Sprintf("Invalid value %q for enum TodoStatus.", status)}
	}
	if priority != "" && !priority.Valid() {
		return &ValidationError{Message: fmt.Sprintf("Invalid value %q for enum Priority.", priority)}
	}
	return nil
}

type TodoUpdateInput struct {
	Title          *string
	Description    *Nullable[string]
	Status         *TodoStatus
	Priority       *Priority
	ConversationID *Nullable[string]
	Position       *NumberUpdate[int]
	DueDate        *Nullable[time.Time]
	CompletedAt    *Nullable[time.Time]
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
}

func (in TodoUpdateInput) apply(u *update) error {
	if err := checkEnums(valueOr(in.Status, ""), valueOr(in.Priority, "")); err != nil {
		return err
	}
	setValue(u, "title", in.Title)
	setNullable(u, "description", in.Description)
	setValue(u, "status", in.Status)
	setValue(u, "priority", in.Priority)
	setNullable(u, "conversationId", in.ConversationID)
	setNullable(u, "dueDate", in.DueDate)
	setNullable(u, "completedAt", in.CompletedAt)
	setValue(u, "createdAt", utcPtr(in.CreatedAt))
	setValue(u, "updatedAt", utcPtr(in.UpdatedAt))
	return setNumber(u, "position", in.Position)
}

// TodoInclude is empty: Todo declares no relations.
type TodoInclude struct{}

func (TodoInclude) preloads() []preload { return nil }

type (
	TodoFindUniqueArgs = FindUniqueArgs[TodoWhereUniqueInput, TodoScalarField, TodoInclude]
	TodoFindManyArgs   = FindManyArgs[TodoWhereInput, TodoWhereUniqueInput, TodoScalarField, TodoInclude]
	TodoCreateArgs     = CreateArgs[TodoCreateInput, TodoScalarField, TodoInclude]
	TodoCreateManyArgs = CreateManyArgs[TodoCreateInput, TodoScalarField]
	TodoUpdateArgs     = UpdateArgs[TodoWhereUniqueInput, TodoUpdateInput, TodoScalarField, TodoInclude]
	TodoUpdateManyArgs = UpdateManyArgs[TodoWhereInput, TodoUpdateInput, TodoScalarField]
	TodoUpsertArgs     = UpsertArgs[TodoWhereUniqueInput, TodoCreateInput, TodoUpdateInput, TodoScalarField, TodoInclude]
	TodoDeleteArgs     = DeleteArgs[TodoWhereUniqueInput, TodoScalarField, TodoInclude]
	TodoDeleteManyArgs = DeleteManyArgs[TodoWhereInput]
	TodoCountArgs      = CountArgs[TodoWhereInput, TodoWhereUniqueInput, TodoScalarField]
	TodoAggregateArgs  = AggregateArgs[TodoWhereInput, TodoWhereUniqueInput, TodoScalarField]
	TodoGroupByArgs    = GroupByArgs[TodoWhereInput, TodoScalarField]
)

// TodoDelegate runs queries against the Todo table.
type TodoDelegate struct {
	*delegate[Todo, TodoWhereInput, TodoWhereUniqueInput, TodoCreateInput, TodoUpdateInput, TodoScalarField, TodoInclude]
}

func newTodoDelegate(c *Client) TodoDelegate {
	return TodoDelegate{&delegate[Todo, TodoWhereInput, TodoWhereUniqueInput, TodoCreateInput, TodoUpdateInput, TodoScalarField, TodoInclude]{
		client: c,
		meta:   todoMeta,
	}}
}
