package store

import (
	"time"

	"gorm.io/gorm/clause"
)

// APIKey is the provider credential attached to a conversation.
type APIKey struct {
	ID             string    `gorm:"column:id;primaryKey" json:"id"`
	ConversationID string    `gorm:"column:conversationId;not null;uniqueIndex" json:"conversationId"`
	Provider       string    `gorm:"column:provider;not null" json:"provider"`
	Key            string    `gorm:"column:key;not null" json:"key"`
	CreatedAt      time.Time `gorm:"column:createdAt;not null" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updatedAt;not null" json:"updatedAt"`

	Conversation *Conversation `gorm:"foreignKey:ConversationID" json:"conversation,omitempty"`
}

func (APIKey) TableName() string { return "ApiKey" }

func (k APIKey) primaryKey() string { return k.ID }

func (k APIKey) fieldValue(name string) any {
	switch name {
	case "id":
		return k.ID
	case "conversationId":
		return k.ConversationID
	case "provider":
		return k.Provider
	case "key":
		return k.Key
	case "createdAt":
		return k.CreatedAt
	case "updatedAt":
		return k.UpdatedAt
	}
	return nil
}

type APIKeyScalarField string

const (
	APIKeyFieldID             APIKeyScalarField = "id"
	APIKeyFieldConversationID APIKeyScalarField = "conversationId"
	APIKeyFieldProvider       APIKeyScalarField = "provider"
	APIKeyFieldKey            APIKeyScalarField = "key"
	APIKeyFieldCreatedAt      APIKeyScalarField = "createdAt"
	APIKeyFieldUpdatedAt      APIKeyScalarField = "updatedAt"
)

var apiKeyMeta = newModelMeta("ApiKey",
	fieldMeta{name: "id", kind: kindString},
	fieldMeta{name: "conversationId", kind: kindString},
	fieldMeta{name: "provider", kind: kindString},
	fieldMeta{name: "key", kind: kindString},
	fieldMeta{name: "createdAt", kind: kindDateTime},
	fieldMeta{name: "updatedAt", kind: kindDateTime},
)

type APIKeyWhereInput struct {
	AND []APIKeyWhereInput `json:"AND,omitempty"`
	OR  []APIKeyWhereInput `json:"OR,omitempty"`
	NOT []APIKeyWhereInput `json:"NOT,omitempty"`

	ID             *StringFilter   `json:"id,omitempty"`
	ConversationID *StringFilter   `json:"conversationId,omitempty"`
	Provider       *StringFilter   `json:"provider,omitempty"`
	Key            *StringFilter   `json:"key,omitempty"`
	CreatedAt      *DateTimeFilter `json:"createdAt,omitempty"`
	UpdatedAt      *DateTimeFilter `json:"updatedAt,omitempty"`

	Conversation *RelationFilter[ConversationWhereInput] `json:"conversation,omitempty"`
}

func (w APIKeyWhereInput) expression(s scope) clause.Expression {
	return conjoin(append(logical(s, w.AND, w.OR, w.NOT),
		w.ID.expression(s.ref("id")),
		w.ConversationID.expression(s.ref("conversationId")),
		w.Provider.expression(s.ref("provider")),
		w.Key.expression(s.ref("key")),
		w.CreatedAt.expression(s.ref("createdAt")),
		w.UpdatedAt.expression(s.ref("updatedAt")),
		w.Conversation.expression(s, belongsToConversation),
	)...)
}

type APIKeyWhereUniqueInput struct {
	ID             *string `json:"id,omitempty"`
	ConversationID *string `json:"conversationId,omitempty"`
}

func (u APIKeyWhereUniqueInput) uniqueExpression(s scope) (clause.Expression, error) {
	return uniqueWhere(s, "ApiKeyWhereUniqueInput", uniqueKey{"id", u.ID}, uniqueKey{"conversationId", u.ConversationID})
}

type APIKeyCreateInput struct {
	ID             *string
	ConversationID string
	Provider       string
	Key            string
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
}

type APIKeyCreateNestedOne struct {
	Create *APIKeyCreateInput
}

func (in APIKeyCreateInput) build(_ *mutation, now time.Time) (*APIKey, error) {
	return &APIKey{
		ID:             valueOr(in.ID, newID()),
		ConversationID: in.ConversationID,
		Provider:       in.Provider,
		Key:            in.Key,
		CreatedAt:      timeOr(in.CreatedAt, now),
		UpdatedAt:      timeOr(in.UpdatedAt, now),
	}, nil
}

type APIKeyUpdateInput struct {
	ConversationID *string
	Provider       *string
	Key            *string
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
}

func (in APIKeyUpdateInput) apply(u *update) error {
	setValue(u, "conversationId", in.ConversationID)
	setValue(u, "provider", in.Provider)
	setValue(u, "key", in.Key)
	setValue(u, "createdAt", utcPtr(in.CreatedAt))
	setValue(u, "updatedAt", utcPtr(in.UpdatedAt))
	return nil
}

type APIKeyInclude struct {
	Conversation bool `json:"conversation,omitempty"`
}

func (i APIKeyInclude) preloads() []preload {
	if !i.Conversation {
		return nil
	}
	return []preload{{field: "Conversation", model: "Conversation"}}
}

type (
	APIKeyFindUniqueArgs = FindUniqueArgs[APIKeyWhereUniqueInput, APIKeyScalarField, APIKeyInclude]
	APIKeyFindManyArgs   = FindManyArgs[APIKeyWhereInput, APIKeyWhereUniqueInput, APIKeyScalarField, APIKeyInclude]
	APIKeyCreateArgs     = CreateArgs[APIKeyCreateInput, APIKeyScalarField, APIKeyInclude]
	APIKeyCreateManyArgs = CreateManyArgs[APIKeyCreateInput, APIKeyScalarField]
	APIKeyUpdateArgs     = UpdateArgs[APIKeyWhereUniqueInput, APIKeyUpdateInput, APIKeyScalarField, APIKeyInclude]
	APIKeyUpdateManyArgs = UpdateManyArgs[APIKeyWhereInput, APIKeyUpdateInput, APIKeyScalarField]
	APIKeyUpsertArgs     = UpsertArgs[APIKeyWhereUniqueInput, APIKeyCreateInput, APIKeyUpdateInput, APIKeyScalarField, APIKeyInclude]
	APIKeyDeleteArgs     = DeleteArgs[APIKeyWhereUniqueInput, APIKeyScalarField, APIKeyInclude]
	APIKeyDeleteManyArgs = DeleteManyArgs[APIKeyWhereInput]
	APIKeyCountArgs      = CountArgs[APIKeyWhereInput, APIKeyWhereUniqueInput, APIKeyScalarField]
	APIKeyAggregateArgs  = AggregateArgs[APIKeyWhereInput, APIKeyWhereUniqueInput, APIKeyScalarField]
	APIKeyGroupByArgs    = GroupByArgs[APIKeyWhereInput, APIKeyScalarField]
)

// APIKeyDelegate runs queries against the ApiKey table.
type APIKeyDelegate struct {
	*delegate[APIKey, APIKeyWhereInput, APIKeyWhereUniqueInput, APIKeyCreateInput, APIKeyUpdateInput, APIKeyScalarField, APIKeyInclude]
}

func newAPIKeyDelegate(c *Client) APIKeyDelegate {
	return APIKeyDelegate{&delegate[APIKey, APIKeyWhereInput, APIKeyWhereUniqueInput, APIKeyCreateInput, APIKeyUpdateInput, APIKeyScalarField, APIKeyInclude]{
		client: c,
		meta:   apiKeyMeta,
	}}
}
