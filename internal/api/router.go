package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-openapi/inflect"
)

// collection is the route of a model's collection, e.g. /todos.
func collection(model string) string {
	return "/" + inflect.Dasherize(inflect.Pluralize(model))
}

// member is the route of a single nested resource, e.g. /voice-config.
func member(model string) string {
	return "/" + inflect.Dasherize(model)
}

func NewRouter(h *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)

		r.Route(collection("Project"), func(r chi.Router) {
			r.Get("/", h.ListProjectsHandler)
			r.Post("/", h.CreateProjectHandler)
			r.Get("/{projectID}", h.GetProjectHandler)
			r.Delete("/{projectID}", h.DeleteProjectHandler)
		})

		r.Route(collection("Conversation"), func(r chi.Router) {
			r.Get("/", h.ListConversationsHandler)
			r.Post("/", h.CreateConversationHandler)
			r.Route("/{conversationID}", func(r chi.Router) {
				r.Get("/", h.GetConversationHandler)
				r.Delete("/", h.DeleteConversationHandler)
				r.Post("/archive", h.ArchiveConversationHandler)
				r.Get(collection("Message"), h.ListMessagesHandler)
				r.Post(collection("Message"), h.PostMessageHandler)
				r.Patch(member("VoiceConfig"), h.UpdateVoiceConfigHandler)
				r.Patch(member("ClaudeConfig"), h.UpdateClaudeConfigHandler)
				r.Put(member("ApiKey"), h.SetAPIKeyHandler)
				r.Put("/context", h.SetContextHandler)
			})
		})

		r.Route(collection("Todo"), func(r chi.Router) {
			r.Get("/", h.ListTodosHandler)
			r.Post("/", h.CreateTodoHandler)
			r.Get("/board", h.TodoBoardHandler)
			r.Patch("/{todoID}", h.UpdateTodoHandler)
			r.Delete("/{todoID}", h.DeleteTodoHandler)
			r.Post("/{todoID}/move", h.MoveTodoHandler)
		})

		r.Get(member("Settings"), h.GetSettingsHandler)
		r.Patch(member("Settings"), h.UpdateSettingsHandler)
	})

	return r
}
