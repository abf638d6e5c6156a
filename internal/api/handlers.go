package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gwi.com/voicepilot/internal/core"
	"gwi.com/voicepilot/internal/store"
)

type APIHandler struct {
	conversations *core.ConversationService
	todos         *core.TodoService
	settings      *core.SettingsService
	projects      *core.ProjectService
	client        *store.Client
	log           *slog.Logger
}

func NewAPIHandler(client *store.Client, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		conversations: core.NewConversationService(client, logger),
		todos:         core.NewTodoService(client, logger),
		settings:      core.NewSettingsService(client, logger),
		projects:      core.NewProjectService(client, logger),
		client:        client,
		log:           logger,
	}
}

func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Connect(r.Context()); err != nil {
		h.log.Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Path        *string `json:"path,omitempty"`
}

func (h *APIHandler) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.projects.Create(r.Context(), core.CreateProjectInput{Name: req.Name, Description: req.Description, Path: req.Path})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *APIHandler) ListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *APIHandler) GetProjectHandler(w http.ResponseWriter, r *http.Request) {
	p, err := h.projects.Get(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *APIHandler) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.Delete(r.Context(), chi.URLParam(r, "projectID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type CreateConversationRequest struct {
	Title        *string `json:"title,omitempty"`
	ProjectID    *string `json:"projectId,omitempty"`
	FirstMessage *string `json:"firstMessage,omitempty"`
	SystemPrompt *string `json:"systemPrompt,omitempty"`
}

func (h *APIHandler) CreateConversationHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateConversationRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	conv, err := h.conversations.Start(r.Context(), core.StartConversationInput{
		Title:        req.Title,
		ProjectID:    req.ProjectID,
		FirstMessage: req.FirstMessage,
		SystemPrompt: req.SystemPrompt,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

func (h *APIHandler) ListConversationsHandler(w http.ResponseWriter, r *http.Request) {
	after, take, err := paging(r, "Conversation")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	in := core.ListConversationsInput{
		IncludeArchived: q.Get("archived") == "true",
		After:           after,
		Take:            take,
	}
	if v := q.Get("projectId"); v != "" {
		in.ProjectID = &v
	}
	if v := q.Get("q"); v != "" {
		in.Search = &v
	}
	convs, err := h.conversations.List(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := newPage("Conversation", convs, take, func(c store.Conversation) string { return c.ID })
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) GetConversationHandler(w http.ResponseWriter, r *http.Request) {
	conv, err := h.conversations.Details(r.Context(), chi.URLParam(r, "conversationID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (h *APIHandler) DeleteConversationHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.conversations.Delete(r.Context(), chi.URLParam(r, "conversationID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) ArchiveConversationHandler(w http.ResponseWriter, r *http.Request) {
	conv, err := h.conversations.Archive(r.Context(), chi.URLParam(r, "conversationID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

type PostMessageRequest struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content"`
}

func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req PostMessageRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Role == "" {
		req.Role = core.RoleUser
	}
	msg, err := h.conversations.PostMessage(r.Context(), chi.URLParam(r, "conversationID"), req.Role, req.Content)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *APIHandler) ListMessagesHandler(w http.ResponseWriter, r *http.Request) {
	after, take, err := paging(r, "Message")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	msgs, err := h.conversations.Messages(r.Context(), chi.URLParam(r, "conversationID"), after, take)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := newPage("Message", msgs, take, func(m store.Message) string { return m.ID })
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type VoiceConfigRequest struct {
	Voice    *string  `json:"voice,omitempty"`
	Speed    *float64 `json:"speed,omitempty"`
	Pitch    *float64 `json:"pitch,omitempty"`
	Language *string  `json:"language,omitempty"`
	Enabled  *bool    `json:"enabled,omitempty"`
}

func (h *APIHandler) UpdateVoiceConfigHandler(w http.ResponseWriter, r *http.Request) {
	var req VoiceConfigRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	in := store.VoiceConfigUpdateInput{Voice: req.Voice, Language: req.Language, Enabled: req.Enabled}
	if req.Speed != nil {
		in.Speed = store.SetTo(*req.Speed)
	}
	if req.Pitch != nil {
		in.Pitch = store.SetTo(*req.Pitch)
	}
	cfg, err := h.conversations.UpdateVoiceConfig(r.Context(), chi.URLParam(r, "conversationID"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

type ClaudeConfigRequest struct {
	Model        *string  `json:"model,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	MaxTokens    *int     `json:"maxTokens,omitempty"`
	SystemPrompt *string  `json:"systemPrompt,omitempty"`
}

func (h *APIHandler) UpdateClaudeConfigHandler(w http.ResponseWriter, r *http.Request) {
	var req ClaudeConfigRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	in := store.ClaudeConfigUpdateInput{Model: req.Model}
	if req.Temperature != nil {
		in.Temperature = store.SetTo(*req.Temperature)
	}
	if req.MaxTokens != nil {
		in.MaxTokens = store.SetTo(*req.MaxTokens)
	}
	if req.SystemPrompt != nil {
		in.SystemPrompt = store.Set(*req.SystemPrompt)
	}
	cfg, err := h.conversations.UpdateClaudeConfig(r.Context(), chi.URLParam(r, "conversationID"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

type APIKeyRequest struct {
	Provider string `json:"provider"`
	Key      string `json:"key"`
}

func (h *APIHandler) SetAPIKeyHandler(w http.ResponseWriter, r *http.Request) {
	var req APIKeyRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Provider == "" || req.Key == "" {
		h.writeError(w, r, errorf("provider and key are required"))
		return
	}
	key, err := h.conversations.SetAPIKey(r.Context(), chi.URLParam(r, "conversationID"), req.Provider, req.Key)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, key)
}

type ContextRequest struct {
	WorkingDirectory string   `json:"workingDirectory"`
	GitBranch        *string  `json:"gitBranch,omitempty"`
	Files            []string `json:"files,omitempty"`
	Summary          *string  `json:"summary,omitempty"`
}

func (h *APIHandler) SetContextHandler(w http.ResponseWriter, r *http.Request) {
	var req ContextRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.WorkingDirectory == "" {
		h.writeError(w, r, errorf("workingDirectory is required"))
		return
	}
	pc, err := h.conversations.SetContext(r.Context(), chi.URLParam(r, "conversationID"), core.ProjectContextInput{
		WorkingDirectory: req.WorkingDirectory,
		GitBranch:        req.GitBranch,
		Files:            req.Files,
		Summary:          req.Summary,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pc)
}

type SettingsRequest struct {
	Theme        *string `json:"theme,omitempty"`
	Language     *string `json:"language,omitempty"`
	VoiceEnabled *bool   `json:"voiceEnabled,omitempty"`
	AutoSpeak    *bool   `json:"autoSpeak,omitempty"`
}

func (h *APIHandler) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Get(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *APIHandler) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	s, err := h.settings.Update(r.Context(), store.SettingsUpdateInput{
		Theme:        req.Theme,
		Language:     req.Language,
		VoiceEnabled: req.VoiceEnabled,
		AutoSpeak:    req.AutoSpeak,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
