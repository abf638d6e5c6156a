package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gwi.com/voicepilot/internal/store"
)

type TodoService struct {
	client *store.Client
	log    *slog.Logger
}

func NewTodoService(c *store.Client, logger *slog.Logger) *TodoService {
	return &TodoService{client: c, log: logger}
}

// Create adds a todo. Without an explicit position it goes to the end of
// the list.
func (s *TodoService) Create(ctx context.Context, in store.TodoCreateInput) (*store.Todo, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrEmptyTitle
	}
	if in.Status != nil && *in.Status == store.TodoStatusCompleted && in.CompletedAt == nil {
		in.CompletedAt = store.Ptr(time.Now().UTC())
	}
	var todo *store.Todo
	err := s.client.Transaction(ctx, func(tx *store.Client) error {
		if in.Position == nil {
			agg, err := tx.Todo.Aggregate(ctx, store.TodoAggregateArgs{Max: []store.TodoScalarField{store.TodoFieldPosition}})
			if err != nil {
				return err
			}
			next := 1
			if last, ok := agg.Max[store.TodoFieldPosition].(int64); ok {
				next = int(last) + 1
			}
			in.Position = &next
		}
		var err error
		todo, err = tx.Todo.Create(ctx, store.TodoCreateArgs{Data: in})
		return err
	})
	if store.IsForeignKeyViolation(err) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return todo, nil
}

type ListTodosInput struct {
	Status         *store.TodoStatus
	Priority       *store.Priority
	ConversationID *string
	After          *string
	Take           int
}

// List returns todos in board order.
func (s *TodoService) List(ctx context.Context, in ListTodosInput) ([]store.Todo, error) {
	where := store.TodoWhereInput{}
	if in.Status != nil {
		where.Status = store.Equals(*in.Status)
	} else {
		where.Status = store.NotIn(store.TodoStatusArchived)
	}
	if in.Priority != nil {
		where.Priority = store.Equals(*in.Priority)
	}
	if in.ConversationID != nil {
		where.ConversationID = store.StringEquals(*in.ConversationID)
	}
	args := store.TodoFindManyArgs{
		Where: &where,
		OrderBy: []store.OrderBy[store.TodoScalarField]{
			store.SortAsc(store.TodoFieldPosition),
			store.SortAsc(store.TodoFieldID),
		},
		Take: store.Ptr(pageSize(in.Take)),
	}
	if in.After != nil {
		args.Cursor = &store.TodoWhereUniqueInput{ID: in.After}
		args.Skip = store.Ptr(1)
	}
	todos, err := s.client.Todo.FindMany(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// Move changes the status of a todo. Completing it stamps completedAt and
// leaving the completed state clears it.
func (s *TodoService) Move(ctx context.Context, id string, status store.TodoStatus) (*store.Todo, error) {
	if !status.Valid() {
		_, err := store.ParseTodoStatus(string(status))
		return nil, err
	}
	data := store.TodoUpdateInput{Status: &status}
	if status == store.TodoStatusCompleted {
		data.CompletedAt = store.Set(time.Now().UTC())
	} else {
		data.CompletedAt = store.Null[time.Time]()
	}
	return s.update(ctx, id, data)
}

// Reorder places a todo at position.
func (s *TodoService) Reorder(ctx context.Context, id string, position int) (*store.Todo, error) {
	return s.update(ctx, id, store.TodoUpdateInput{Position: store.SetTo(position)})
}

// Update applies arbitrary field changes.
func (s *TodoService) Update(ctx context.Context, id string, data store.TodoUpdateInput) (*store.Todo, error) {
	if data.Title != nil && strings.TrimSpace(*data.Title) == "" {
		return nil, ErrEmptyTitle
	}
	return s.update(ctx, id, data)
}

func (s *TodoService) update(ctx context.Context, id string, data store.TodoUpdateInput) (*store.Todo, error) {
	todo, err := s.client.Todo.Update(ctx, store.TodoUpdateArgs{
		Where: store.TodoWhereUniqueInput{ID: &id},
		Data:  data,
	})
	if store.IsNotFound(err) {
		return nil, ErrTodoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update todo %s: %w", id, err)
	}
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, id string) error {
	_, err := s.client.Todo.Delete(ctx, store.TodoDeleteArgs{Where: store.TodoWhereUniqueInput{ID: &id}})
	if store.IsNotFound(err) {
		return ErrTodoNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete todo %s: %w", id, err)
	}
	return nil
}

// ArchiveCompleted archives completed todos finished before cutoff.
func (s *TodoService) ArchiveCompleted(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.client.Todo.UpdateMany(ctx, store.TodoUpdateManyArgs{
		Where: &store.TodoWhereInput{
			Status:      store.Equals(store.TodoStatusCompleted),
			CompletedAt: &store.DateTimeFilter{Lt: &cutoff},
		},
		Data: store.TodoUpdateInput{Status: store.Ptr(store.TodoStatusArchived)},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to archive todos: %w", err)
	}
	if res.Count > 0 {
		s.log.Info("archived completed todos", "count", res.Count)
	}
	return res.Count, nil
}

// BoardCell counts the todos sharing a status and priority.
type BoardCell struct {
	Status   store.TodoStatus `json:"status"`
	Priority store.Priority   `json:"priority"`
	Count    int64            `json:"count"`
}

type Board struct {
	Cells []BoardCell `json:"cells"`
	// Overdue counts open todos whose due date has passed.
	Overdue int64 `json:"overdue"`
}

// Board summarises todos by status and priority.
func (s *TodoService) Board(ctx context.Context, now time.Time) (*Board, error) {
	groups, err := s.client.Todo.GroupBy(ctx, store.TodoGroupByArgs{
		By:    []store.TodoScalarField{store.TodoFieldStatus, store.TodoFieldPriority},
		Count: []store.TodoScalarField{store.CountAll},
		OrderBy: []store.OrderBy[store.TodoScalarField]{
			store.SortAsc(store.TodoFieldStatus),
			store.SortAsc(store.TodoFieldPriority),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to group todos: %w", err)
	}
	board := &Board{Cells: make([]BoardCell, 0, len(groups))}
	for _, g := range groups {
		status, _ := g.Keys[store.TodoFieldStatus].(string)
		priority, _ := g.Keys[store.TodoFieldPriority].(string)
		board.Cells = append(board.Cells, BoardCell{
			Status:   store.TodoStatus(status),
			Priority: store.Priority(priority),
			Count:    g.Count[store.CountAll],
		})
	}
	board.Overdue, err = s.client.Todo.Count(ctx, store.TodoCountArgs{Where: &store.TodoWhereInput{
		Status:  store.NotIn(store.TodoStatusCompleted, store.TodoStatusArchived),
		DueDate: &store.DateTimeFilter{Lt: &now},
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue todos: %w", err)
	}
	return board, nil
}
