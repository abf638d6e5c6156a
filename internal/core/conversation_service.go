package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/datatypes"

	"gwi.com/voicepilot/internal/store"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"

	maxTitleLength = 60
	defaultPage    = 20
	maxPage        = 100
)

// ConversationService runs the conversation workflows of the assistant on
// top of the store client.
type ConversationService struct {
	client *store.Client
	log    *slog.Logger
}

func NewConversationService(c *store.Client, logger *slog.Logger) *ConversationService {
	return &ConversationService{client: c, log: logger}
}

type StartConversationInput struct {
	Title        *string
	ProjectID    *string
	FirstMessage *string
	SystemPrompt *string
}

// Start creates a conversation together with its voice and model
// configuration, seeded from the current settings, and the optional first
// user message.
func (s *ConversationService) Start(ctx context.Context, in StartConversationInput) (*store.Conversation, error) {
	settings, err := getSettings(ctx, s.client, s.log)
	if err != nil {
		return nil, err
	}
	var conv *store.Conversation
	err = s.client.Transaction(ctx, func(tx *store.Client) error {
		data := store.ConversationCreateInput{
			Title:     in.Title,
			ProjectID: in.ProjectID,
			VoiceConfig: &store.VoiceConfigCreateNestedOne{Create: &store.VoiceConfigCreateInput{
				Language: store.Ptr(settings.Language),
				Enabled:  store.Ptr(settings.VoiceEnabled),
			}},
			ClaudeConfig: &store.ClaudeConfigCreateNestedOne{Create: &store.ClaudeConfigCreateInput{
				SystemPrompt: in.SystemPrompt,
			}},
		}
		if in.FirstMessage != nil && strings.TrimSpace(*in.FirstMessage) != "" {
			data.Messages = &store.MessageCreateNestedMany{Create: []store.MessageCreateInput{
				{Role: RoleUser, Content: *in.FirstMessage},
			}}
			if data.Title == nil {
				data.Title = store.Ptr(deriveTitle(*in.FirstMessage))
			}
		}
		var err error
		conv, err = tx.Conversation.Create(ctx, store.ConversationCreateArgs{
			Data:    data,
			Include: &store.ConversationInclude{Messages: true, VoiceConfig: true, ClaudeConfig: true},
		})
		return err
	})
	if store.IsForeignKeyViolation(err) || store.IsNotFound(err) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to start conversation: %w", err)
	}
	s.log.Info("conversation started", "conversation", conv.ID, "messages", len(conv.Messages))
	return conv, nil
}

type ListConversationsInput struct {
	ProjectID       *string
	Search          *string
	IncludeArchived bool
	// After is the id of the last conversation of the previous page.
	After *string
	Take  int
}

// List returns conversations, most recently updated first.
func (s *ConversationService) List(ctx context.Context, in ListConversationsInput) ([]store.Conversation, error) {
	where := store.ConversationWhereInput{}
	if !in.IncludeArchived {
		where.Archived = store.Equals(false)
	}
	if in.ProjectID != nil {
		where.ProjectID = store.StringEquals(*in.ProjectID)
	}
	if in.Search != nil && *in.Search != "" {
		contains := &store.StringFilter{Contains: in.Search, Mode: store.ModeInsensitive}
		where.OR = []store.ConversationWhereInput{
			{Title: contains},
			{Messages: &store.ListRelationFilter[store.MessageWhereInput]{Some: &store.MessageWhereInput{Content: contains}}},
		}
	}
	args := store.ConversationFindManyArgs{
		Where: &where,
		OrderBy: []store.OrderBy[store.ConversationScalarField]{
			store.SortDesc(store.ConversationFieldUpdatedAt),
			store.SortDesc(store.ConversationFieldID),
		},
		Take: store.Ptr(pageSize(in.Take)),
	}
	if in.After != nil {
		args.Cursor = &store.ConversationWhereUniqueInput{ID: in.After}
		args.Skip = store.Ptr(1)
	}
	convs, err := s.client.Conversation.FindMany(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return convs, nil
}

// Details returns the conversation with its messages, configuration,
// context and project.
func (s *ConversationService) Details(ctx context.Context, id string) (*store.Conversation, error) {
	conv, err := s.client.Conversation.FindUnique(ctx, store.ConversationFindUniqueArgs{
		Where: store.ConversationWhereUniqueInput{ID: &id},
		Include: &store.ConversationInclude{
			Project:        true,
			Messages:       true,
			VoiceConfig:    true,
			ClaudeConfig:   true,
			ProjectContext: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	return conv, nil
}

// PostMessage appends a message to a conversation. The first user message
// of an untitled conversation names it.
func (s *ConversationService) PostMessage(ctx context.Context, conversationID, role, content string) (*store.Message, error) {
	switch role {
	case RoleUser, RoleAssistant, RoleSystem:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	var msg *store.Message
	err := s.client.Transaction(ctx, func(tx *store.Client) error {
		conv, err := tx.Conversation.FindUnique(ctx, store.ConversationFindUniqueArgs{
			Where: store.ConversationWhereUniqueInput{ID: &conversationID},
		})
		if err != nil {
			return err
		}
		if conv == nil {
			return ErrConversationNotFound
		}
		if conv.Archived {
			return ErrConversationArchived
		}
		msg, err = tx.Message.Create(ctx, store.MessageCreateArgs{Data: store.MessageCreateInput{
			ConversationID: conversationID,
			Role:           role,
			Content:        content,
			CreatedAt:      store.Ptr(time.Now().UTC()),
		}})
		if err != nil {
			return err
		}
		update := store.ConversationUpdateInput{UpdatedAt: store.Ptr(msg.CreatedAt)}
		if conv.Title == nil && role == RoleUser {
			update.Title = store.Set(deriveTitle(content))
		}
		_, err = tx.Conversation.Update(ctx, store.ConversationUpdateArgs{
			Where: store.ConversationWhereUniqueInput{ID: &conversationID},
			Data:  update,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) || errors.Is(err, ErrConversationArchived) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to post message: %w", err)
	}
	return msg, nil
}

// Messages pages through a conversation's messages in chronological order.
func (s *ConversationService) Messages(ctx context.Context, conversationID string, after *string, take int) ([]store.Message, error) {
	if err := s.exists(ctx, conversationID); err != nil {
		return nil, err
	}
	args := store.MessageFindManyArgs{
		Where: &store.MessageWhereInput{ConversationID: store.StringEquals(conversationID)},
		OrderBy: []store.OrderBy[store.MessageScalarField]{
			store.SortAsc(store.MessageFieldCreatedAt),
			store.SortAsc(store.MessageFieldID),
		},
		Take: store.Ptr(pageSize(take)),
	}
	if after != nil {
		args.Cursor = &store.MessageWhereUniqueInput{ID: after}
		args.Skip = store.Ptr(1)
	}
	msgs, err := s.client.Message.FindMany(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

// Archive hides a conversation from the default listing and rejects new
// messages.
func (s *ConversationService) Archive(ctx context.Context, id string) (*store.Conversation, error) {
	conv, err := s.client.Conversation.Update(ctx, store.ConversationUpdateArgs{
		Where: store.ConversationWhereUniqueInput{ID: &id},
		Data:  store.ConversationUpdateInput{Archived: store.Ptr(true)},
	})
	if store.IsNotFound(err) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to archive conversation: %w", err)
	}
	return conv, nil
}

// Delete removes a conversation and everything attached to it.
func (s *ConversationService) Delete(ctx context.Context, id string) error {
	_, err := s.client.Conversation.Delete(ctx, store.ConversationDeleteArgs{
		Where: store.ConversationWhereUniqueInput{ID: &id},
	})
	if store.IsNotFound(err) {
		return ErrConversationNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// UpdateVoiceConfig changes the voice settings of a conversation.
func (s *ConversationService) UpdateVoiceConfig(ctx context.Context, conversationID string, in store.VoiceConfigUpdateInput) (*store.VoiceConfig, error) {
	in.ConversationID = nil
	cfg, err := s.client.VoiceConfig.Update(ctx, store.VoiceConfigUpdateArgs{
		Where: store.VoiceConfigWhereUniqueInput{ConversationID: &conversationID},
		Data:  in,
	})
	if store.IsNotFound(err) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update voice config: %w", err)
	}
	return cfg, nil
}

// UpdateClaudeConfig changes the model settings of a conversation.
func (s *ConversationService) UpdateClaudeConfig(ctx context.Context, conversationID string, in store.ClaudeConfigUpdateInput) (*store.ClaudeConfig, error) {
	in.ConversationID = nil
	cfg, err := s.client.ClaudeConfig.Update(ctx, store.ClaudeConfigUpdateArgs{
		Where: store.ClaudeConfigWhereUniqueInput{ConversationID: &conversationID},
		Data:  in,
	})
	if store.IsNotFound(err) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update claude config: %w", err)
	}
	return cfg, nil
}

// SetAPIKey stores the provider key used by a conversation, replacing any
// previous one. The key itself is left out of the result.
func (s *ConversationService) SetAPIKey(ctx context.Context, conversationID, provider, key string) (*store.APIKey, error) {
	omit := []store.APIKeyScalarField{store.APIKeyFieldKey}
	k, err := s.client.APIKey.Upsert(ctx, store.APIKeyUpsertArgs{
		Where:  store.APIKeyWhereUniqueInput{ConversationID: &conversationID},
		Create: store.APIKeyCreateInput{ConversationID: conversationID, Provider: provider, Key: key},
		Update: store.APIKeyUpdateInput{Provider: &provider, Key: &key},
		Omit:   omit,
	})
	if store.IsForeignKeyViolation(err) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set api key: %w", err)
	}
	return k, nil
}

type ProjectContextInput struct {
	WorkingDirectory string
	GitBranch        *string
	Files            []string
	Summary          *string
}

// SetContext records the working-directory context of a conversation.
func (s *ConversationService) SetContext(ctx context.Context, conversationID string, in ProjectContextInput) (*store.ProjectContext, error) {
	var files datatypes.JSON
	if in.Files != nil {
		raw, err := json.Marshal(in.Files)
		if err != nil {
			return nil, fmt.Errorf("failed to encode context files: %w", err)
		}
		files = raw
	}
	update := store.ProjectContextUpdateInput{
		WorkingDirectory: &in.WorkingDirectory,
		GitBranch:        nullable(in.GitBranch),
		Summary:          nullable(in.Summary),
	}
	if files != nil {
		update.Files = store.Set(files)
	} else {
		update.Files = store.Null[datatypes.JSON]()
	}
	pc, err := s.client.ProjectContext.Upsert(ctx, store.ProjectContextUpsertArgs{
		Where: store.ProjectContextWhereUniqueInput{ConversationID: &conversationID},
		Create: store.ProjectContextCreateInput{
			ConversationID:   conversationID,
			WorkingDirectory: in.WorkingDirectory,
			GitBranch:        in.GitBranch,
			Files:            files,
			Summary:          in.Summary,
		},
		Update: update,
	})
	if store.IsForeignKeyViolation(err) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set project context: %w", err)
	}
	return pc, nil
}

func (s *ConversationService) exists(ctx context.Context, id string) error {
	n, err := s.client.Conversation.Count(ctx, store.ConversationCountArgs{
		Where: &store.ConversationWhereInput{ID: store.StringEquals(id)},
	})
	if err != nil {
		return fmt.Errorf("failed to look up conversation: %w", err)
	}
	if n == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// deriveTitle shortens a message into a conversation title.
func deriveTitle(content string) string {
	title := strings.Join(strings.Fields(content), " ")
	title = strings.Trim(title, "\"' .")
	if utf8.RuneCountInString(title) <= maxTitleLength {
		return title
	}
	runes := []rune(title)[:maxTitleLength]
	cut := len(runes)
	for i := len(runes) - 1; i > maxTitleLength/2; i-- {
		if runes[i] == ' ' {
			cut = i
			break
		}
	}
	return string(runes[:cut]) + "..."
}

func pageSize(take int) int {
	switch {
	case take <= 0:
		return defaultPage
	case take > maxPage:
		return maxPage
	}
	return take
}

func nullable[T any](v *T) *store.Nullable[T] {
	if v == nil {
		return store.Null[T]()
	}
	return store.Set(*v)
}
