package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gwi.com/voicepilot/internal/core"
	"gwi.com/voicepilot/internal/store"
)

type CreateTodoRequest struct {
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	Status         *string    `json:"status,omitempty"`
	Priority       *string    `json:"priority,omitempty"`
	ConversationID *string    `json:"conversationId,omitempty"`
	Position       *int       `json:"position,omitempty"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
}

func (h *APIHandler) CreateTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateTodoRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	in := store.TodoCreateInput{
		Title:          req.Title,
		Description:    req.Description,
		ConversationID: req.ConversationID,
		Position:       req.Position,
		DueDate:        req.DueDate,
	}
	var err error
	if in.Status, err = parseOptional(req.Status, store.ParseTodoStatus); err != nil {
		h.writeError(w, r, err)
		return
	}
	if in.Priority, err = parseOptional(req.Priority, store.ParsePriority); err != nil {
		h.writeError(w, r, err)
		return
	}
	todo, err := h.todos.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

func (h *APIHandler) ListTodosHandler(w http.ResponseWriter, r *http.Request) {
	after, take, err := paging(r, "Todo")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	in := core.ListTodosInput{After: after, Take: take}
	if in.Status, err = parseOptional(queryParam(q.Get("status")), store.ParseTodoStatus); err != nil {
		h.writeError(w, r, err)
		return
	}
	if in.Priority, err = parseOptional(queryParam(q.Get("priority")), store.ParsePriority); err != nil {
		h.writeError(w, r, err)
		return
	}
	in.ConversationID = queryParam(q.Get("conversationId"))

	todos, err := h.todos.List(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := newPage("Todo", todos, take, func(t store.Todo) string { return t.ID })
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) TodoBoardHandler(w http.ResponseWriter, r *http.Request) {
	board, err := h.todos.Board(r.Context(), time.Now().UTC())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

type UpdateTodoRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Position    *int       `json:"position,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

func (h *APIHandler) UpdateTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateTodoRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	in := store.TodoUpdateInput{Title: req.Title}
	if req.Description != nil {
		in.Description = store.Set(*req.Description)
	}
	if req.Position != nil {
		in.Position = store.SetTo(*req.Position)
	}
	if req.DueDate != nil {
		in.DueDate = store.Set(req.DueDate.UTC())
	}
	var err error
	if in.Priority, err = parseOptional(req.Priority, store.ParsePriority); err != nil {
		h.writeError(w, r, err)
		return
	}
	todo, err := h.todos.Update(r.Context(), chi.URLParam(r, "todoID"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

type MoveTodoRequest struct {
	Status   string `json:"status"`
	Position *int   `json:"position,omitempty"`
}

func (h *APIHandler) MoveTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req MoveTodoRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	status, err := store.ParseTodoStatus(req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "todoID")
	todo, err := h.todos.Move(r.Context(), id, status)
	if err == nil && req.Position != nil {
		todo, err = h.todos.Reorder(r.Context(), id, *req.Position)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (h *APIHandler) DeleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.todos.Delete(r.Context(), chi.URLParam(r, "todoID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseOptional[T any](s *string, parse func(string) (T, error)) (*T, error) {
	if s == nil {
		return nil, nil
	}
	v, err := parse(*s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func queryParam(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
