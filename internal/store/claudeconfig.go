package store

import (
	"time"

	"gorm.io/gorm/clause"
)

// ClaudeConfig holds the model parameters used when a conversation talks to
// the assistant.
type ClaudeConfig struct {
	ID             string    `gorm:"column:id;primaryKey" json:"id"`
	ConversationID string    `gorm:"column:conversationId;not null;uniqueIndex" json:"conversationId"`
	Model          string    `gorm:"column:model;not null" json:"model"`
	Temperature    float64   `gorm:"column:temperature;not null" json:"temperature"`
	MaxTokens      int       `gorm:"column:maxTokens;not null" json:"maxTokens"`
	SystemPrompt   *string   `gorm:"column:systemPrompt" json:"systemPrompt"`
	CreatedAt      time.Time `gorm:"column:createdAt;not null" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updatedAt;not null" json:"updatedAt"`

	Conversation *Conversation `gorm:"foreignKey:ConversationID" json:"conversation,omitempty"`
}

func (ClaudeConfig) TableName() string { return "ClaudeConfig" }

func (c ClaudeConfig) primaryKey() string { return c.ID }

func (c ClaudeConfig) fieldValue(name string) any {
	switch name {
	case "id":
		return c.ID
	case "conversationId":
		return c.ConversationID
	case "model":
		return c.Model
	case "temperature":
		return c.Temperature
	case "maxTokens":
		return c.MaxTokens
	case "systemPrompt":
		return deref(c.SystemPrompt)
	case "createdAt":
		return c.CreatedAt
	case "updatedAt":
		return c.UpdatedAt
	}
	return nil
}

type ClaudeConfigScalarField string

const (
	ClaudeConfigFieldID             ClaudeConfigScalarField = "id"
	ClaudeConfigFieldConversationID ClaudeConfigScalarField = "conversationId"
	ClaudeConfigFieldModel          ClaudeConfigScalarField = "model"
	ClaudeConfigFieldTemperature    ClaudeConfigScalarField = "temperature"
	ClaudeConfigFieldMaxTokens      ClaudeConfigScalarField = "maxTokens"
	ClaudeConfigFieldSystemPrompt   ClaudeConfigScalarField = "systemPrompt"
	ClaudeConfigFieldCreatedAt      ClaudeConfigScalarField = "createdAt"
	ClaudeConfigFieldUpdatedAt      ClaudeConfigScalarField = "updatedAt"
)

const (
	DefaultClaudeModel       = "claude-3-5-sonnet-latest"
	DefaultClaudeTemperature = 0.7
	DefaultClaudeMaxTokens   = 4096
)

var claudeConfigMeta = newModelMeta("ClaudeConfig",
	fieldMeta{name: "id", kind: kindString},
	fieldMeta{name: "conversationId", kind: kindString},
	fieldMeta{name: "model", kind: kindString},
	fieldMeta{name: "temperature", kind: kindFloat},
	fieldMeta{name: "maxTokens", kind: kindInt},
	fieldMeta{name: "systemPrompt", kind: kindString, nullable: true},
	fieldMeta{name: "createdAt", kind: kindDateTime},
	fieldMeta{name: "updatedAt", kind: kindDateTime},
)

type ClaudeConfigWhereInput struct {
	AND []ClaudeConfigWhereInput `json:"AND,omitempty"`
	OR  []ClaudeConfigWhereInput `json:"OR,omitempty"`
	NOT []ClaudeConfigWhereInput `json:"NOT,omitempty"`

	ID             *StringFilter   `json:"id,omitempty"`
	ConversationID *StringFilter   `json:"conversationId,omitempty"`
	Model          *StringFilter   `json:"model,omitempty"`
	Temperature    *FloatFilter    `json:"temperature,omitempty"`
	MaxTokens      *IntFilter      `json:"maxTokens,omitempty"`
	SystemPrompt   *StringFilter   `json:"systemPrompt,omitempty"`
	CreatedAt      *DateTimeFilter `json:"createdAt,omitempty"`
	UpdatedAt      *DateTimeFilter `json:"updatedAt,omitempty"`

	Conversation *RelationFilter[ConversationWhereInput] `json:"conversation,omitempty"`
}

func (w ClaudeConfigWhereInput) expression(s scope) clause.Expression {
	return conjoin(append(logical(s, w.AND, w.OR, w.NOT),
		w.ID.expression(s.ref("id")),
		w.ConversationID.expression(s.ref("conversationId")),
		w.Model.expression(s.ref("model")),
		w.Temperature.expression(s.ref("temperature")),
		w.MaxTokens.expression(s.ref("maxTokens")),
		w.SystemPrompt.expression(s.ref("systemPrompt")),
		w.CreatedAt.expression(s.ref("createdAt")),
		w.UpdatedAt.expression(s.ref("updatedAt")),
		w.Conversation.expression(s, belongsToConversation),
	)...)
}

type ClaudeConfigWhereUniqueInput struct {
	ID             *string `json:"id,omitempty"`
	ConversationID *string `json:"conversationId,omitempty"`
}

func (u ClaudeConfigWhereUniqueInput) uniqueExpression(s scope) (clause.Expression, error) {
	return uniqueWhere(s, "ClaudeConfigWhereUniqueInput", uniqueKey{"id", u.ID}, uniqueKey{"conversationId", u.ConversationID})
}

type ClaudeConfigCreateInput struct {
	ID             *string
	ConversationID string
	Model          *string
	Temperature    *float64
	MaxTokens      *int
	SystemPrompt   *string
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
}

type ClaudeConfigCreateNestedOne struct {
	Create *ClaudeConfigCreateInput
}

func (in ClaudeConfigCreateInput) build(_ *mutation, now time.Time) (*ClaudeConfig, error) {
	return &ClaudeConfig{
		ID:             valueOr(in.ID, newID()),
		ConversationID: in.ConversationID,
		Model:          valueOr(in.Model, DefaultClaudeModel),
		Temperature:    valueOr(in.Temperature, DefaultClaudeTemperature),
		MaxTokens:      valueOr(in.MaxTokens, DefaultClaudeMaxTokens),
		SystemPrompt:   in.SystemPrompt,
		CreatedAt:      timeOr(in.CreatedAt, now),
		UpdatedAt:      timeOr(in.UpdatedAt, now),
	}, nil
}

type ClaudeConfigUpdateInput struct {
	ConversationID *string
	Model          *string
	Temperature    *NumberUpdate[float64]
	MaxTokens      *NumberUpdate[int]
	SystemPrompt   *Nullable[string]
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
}

func (in ClaudeConfigUpdateInput) apply(u *update) error {
	setValue(u, "conversationId", in.ConversationID)
	setValue(u, "model", in.Model)
	setNullable(u, "systemPrompt", in.SystemPrompt)
	setValue(u, "createdAt", utcPtr(in.CreatedAt))
	setValue(u, "updatedAt", utcPtr(in.UpdatedAt))
	if err := setNumber(u, "temperature", in.Temperature); err != nil {
		return err
	}
	return setNumber(u, "maxTokens", in.MaxTokens)
}

type ClaudeConfigInclude struct {
	Conversation bool `json:"conversation,omitempty"`
}

func (i ClaudeConfigInclude) preloads() []preload {
	if !i.Conversation {
		return nil
	}
	return []preload{{field: "Conversation", model: "Conversation"}}
}

type (
	ClaudeConfigFindUniqueArgs = FindUniqueArgs[ClaudeConfigWhereUniqueInput, ClaudeConfigScalarField, ClaudeConfigInclude]
	ClaudeConfigFindManyArgs   = FindManyArgs[ClaudeConfigWhereInput, ClaudeConfigWhereUniqueInput, ClaudeConfigScalarField, ClaudeConfigInclude]
	ClaudeConfigCreateArgs     = CreateArgs[ClaudeConfigCreateInput, ClaudeConfigScalarField, ClaudeConfigInclude]
	ClaudeConfigCreateManyArgs = CreateManyArgs[ClaudeConfigCreateInput, ClaudeConfigScalarField]
	ClaudeConfigUpdateArgs     = UpdateArgs[ClaudeConfigWhereUniqueInput, ClaudeConfigUpdateInput, ClaudeConfigScalarField, ClaudeConfigInclude]
	ClaudeConfigUpdateManyArgs = UpdateManyArgs[ClaudeConfigWhereInput, ClaudeConfigUpdateInput, ClaudeConfigScalarField]
	ClaudeConfigUpsertArgs     = UpsertArgs[ClaudeConfigWhereUniqueInput, ClaudeConfigCreateInput, ClaudeConfigUpdateInput, ClaudeConfigScalarField, ClaudeConfigInclude]
	ClaudeConfigDeleteArgs     = DeleteArgs[ClaudeConfigWhereUniqueInput, ClaudeConfigScalarField, ClaudeConfigInclude]
	ClaudeConfigDeleteManyArgs = DeleteManyArgs[ClaudeConfigWhereInput]
	ClaudeConfigCountArgs      = CountArgs[ClaudeConfigWhereInput, ClaudeConfigWhereUniqueInput, ClaudeConfigScalarField]
	ClaudeConfigAggregateArgs  = AggregateArgs[ClaudeConfigWhereInput, ClaudeConfigWhereUniqueInput, ClaudeConfigScalarField]
	ClaudeConfigGroupByArgs    = GroupByArgs[ClaudeConfigWhereInput, ClaudeConfigScalarField]
)

type ClaudeConfigDelegate struct {
	*delegate[ClaudeConfig, ClaudeConfigWhereInput, ClaudeConfigWhereUniqueInput, ClaudeConfigCreateInput, ClaudeConfigUpdateInput, ClaudeConfigScalarField, ClaudeConfigInclude]
}

func newClaudeConfigDelegate(c *Client) ClaudeConfigDelegate {
	return ClaudeConfigDelegate{&delegate[ClaudeConfig, ClaudeConfigWhereInput, ClaudeConfigWhereUniqueInput, ClaudeConfigCreateInput, ClaudeConfigUpdateInput, ClaudeConfigScalarField, ClaudeConfigInclude]{
		client: c,
		meta:   claudeConfigMeta,
	}}
}
