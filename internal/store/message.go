package store

import (
	"time"

	"gorm.io/gorm/clause"
)

// Message is one turn of a conversation.
type Message struct {
	ID             string    `gorm:"column:id;primaryKey" json:"id"`
	ConversationID string    `gorm:"column:conversationId;not null;index" json:"conversationId"`
	Role           string    `gorm:"column:role;not null" json:"role"`
	Content        string    `gorm:"column:content;not null" json:"content"`
	AudioURL       *string   `gorm:"column:audioUrl" json:"audioUrl"`
	TokenCount     *int      `gorm:"column:tokenCount" json:"tokenCount"`
	CreatedAt      time.Time `gorm:"column:createdAt;not null" json:"createdAt"`

	Conversation *Conversation `gorm:"foreignKey:ConversationID" json:"conversation,omitempty"`
}

func (Message) TableName() string { return "Message" }

func (m Message) primaryKey() string { return m.ID }

func (m Message) fieldValue(name string) any {
	switch name {
	case "id":
		return m.ID
	case "conversationId":
		return m.ConversationID
	case "role":
		return m.Role
	case "content":
		return m.Content
	case "audioUrl":
		return deref(m.AudioURL)
	case "tokenCount":
		return deref(m.TokenCount)
	case "createdAt":
		return m.CreatedAt
	}
	return nil
}

type MessageScalarField string

const (
	MessageFieldID             MessageScalarField = "id"
	MessageFieldConversationID MessageScalarField = "conversationId"
	MessageFieldRole           MessageScalarField = "role"
	MessageFieldContent        MessageScalarField = "content"
	MessageFieldAudioURL       MessageScalarField = "audioUrl"
	MessageFieldTokenCount     MessageScalarField = "tokenCount"
	MessageFieldCreatedAt      MessageScalarField = "createdAt"
)

var messageMeta = newModelMeta("Message",
	fieldMeta{name: "id", kind: kindString},
	fieldMeta{name: "conversationId", kind: kindString},
	fieldMeta{name: "role", kind: kindString},
	fieldMeta{name: "content", kind: kindString},
	fieldMeta{name: "audioUrl", kind: kindString, nullable: true},
	fieldMeta{name: "tokenCount", kind: kindInt, nullable: true},
	fieldMeta{name: "createdAt", kind: kindDateTime},
)

// belongsToConversation joins a child table to its conversation.
var belongsToConversation = link{table: "Conversation", column: "id", references: "conversationId"}

type MessageWhereInput struct {
	AND []MessageWhereInput `json:"AND,omitempty"`
	OR  []MessageWhereInput `json:"OR,omitempty"`
	NOT []MessageWhereInput `json:"NOT,omitempty"`

	ID             *StringFilter   `json:"id,omitempty"`
	ConversationID *StringFilter   `json:"conversationId,omitempty"`
	Role           *StringFilter   `json:"role,omitempty"`
	Content        *StringFilter   `json:"content,omitempty"`
	AudioURL       *StringFilter   `json:"audioUrl,omitempty"`
	TokenCount     *IntFilter      `json:"tokenCount,omitempty"`
	CreatedAt      *DateTimeFilter `json:"createdAt,omitempty"`

	Conversation *RelationFilter[ConversationWhereInput] `json:"conversation,omitempty"`
}

func (w MessageWhereInput) expression(s scope) clause.Expression {
	return conjoin(append(logical(s, w.AND, w.OR, w.NOT),
		w.ID.expression(s.ref("id")),
		w.ConversationID.expression(s.ref("conversationId")),
		w.Role.expression(s.ref("role")),
		w.Content.expression(s.ref("content")),
		w.AudioURL.expression(s.ref("audioUrl")),
		w.TokenCount.expression(s.ref("tokenCount")),
		w.CreatedAt.expression(s.ref("createdAt")),
		w.Conversation.expression(s, belongsToConversation),
	)...)
}

type MessageWhereUniqueInput struct {
	ID *string `json:"id,omitempty"`
}

func (u MessageWhereUniqueInput) uniqueExpression(s scope) (clause.Expression, error) {
	return uniqueWhere(s, "MessageWhereUniqueInput", uniqueKey{"id", u.ID})
}

// MessageCreateInput creates a message. ConversationID is filled in when the
// message is created through its conversation.
type MessageCreateInput struct {
	ID             *string
	ConversationID string
	Role           string
	Content        string
	AudioURL       *string
	TokenCount     *int
	CreatedAt      *time.Time
}

type MessageCreateNestedMany struct {
	Create []MessageCreateInput
}

func (in MessageCreateInput) build(_ *mutation, now time.Time) (*Message, error) {
	return &Message{
		ID:             valueOr(in.ID, newID()),
		ConversationID: in.ConversationID,
		Role:           in.Role,
		Content:        in.Content,
		AudioURL:       in.AudioURL,
		TokenCount:     in.TokenCount,
		CreatedAt:      timeOr(in.CreatedAt, now),
	}, nil
}

type MessageUpdateInput struct {
	Role       *string
	Content    *string
	AudioURL   *Nullable[string]
	TokenCount *NumberUpdate[int]
	CreatedAt  *time.Time
}

func (in MessageUpdateInput) apply(u *update) error {
	setValue(u, "role", in.Role)
	setValue(u, "content", in.Content)
	setNullable(u, "audioUrl", in.AudioURL)
	setValue(u, "createdAt", utcPtr(in.CreatedAt))
	return setNumber(u, "tokenCount", in.TokenCount)
}

type MessageInclude struct {
	Conversation bool `json:"conversation,omitempty"`
}

func (i MessageInclude) preloads() []preload {
	if !i.Conversation {
		return nil
	}
	return []preload{{field: "Conversation", model: "Conversation"}}
}

type (
	MessageFindUniqueArgs = FindUniqueArgs[MessageWhereUniqueInput, MessageScalarField, MessageInclude]
	MessageFindManyArgs   = FindManyArgs[MessageWhereInput, MessageWhereUniqueInput, MessageScalarField, MessageInclude]
	MessageCreateArgs     = CreateArgs[MessageCreateInput, MessageScalarField, MessageInclude]
	MessageCreateManyArgs = CreateManyArgs[MessageCreateInput, MessageScalarField]
	MessageUpdateArgs     = UpdateArgs[MessageWhereUniqueInput, MessageUpdateInput, MessageScalarField, MessageInclude]
	MessageUpdateManyArgs = UpdateManyArgs[MessageWhereInput, MessageUpdateInput, MessageScalarField]
	MessageUpsertArgs     = UpsertArgs[MessageWhereUniqueInput, MessageCreateInput, MessageUpdateInput, MessageScalarField, MessageInclude]
	MessageDeleteArgs     = DeleteArgs[MessageWhereUniqueInput, MessageScalarField, MessageInclude]
	MessageDeleteManyArgs = DeleteManyArgs[MessageWhereInput]
	MessageCountArgs      = CountArgs[MessageWhereInput, MessageWhereUniqueInput, MessageScalarField]
	MessageAggregateArgs  = AggregateArgs[MessageWhereInput, MessageWhereUniqueInput, MessageScalarField]
	MessageGroupByArgs    = GroupByArgs[MessageWhereInput, MessageScalarField]
)

// MessageDelegate runs queries against the Message table.
type MessageDelegate struct {
	*delegate[Message, MessageWhereInput, MessageWhereUniqueInput, MessageCreateInput, MessageUpdateInput, MessageScalarField, MessageInclude]
}

func newMessageDelegate(c *Client) MessageDelegate {
	return MessageDelegate{&delegate[Message, MessageWhereInput, MessageWhereUniqueInput, MessageCreateInput, MessageUpdateInput, MessageScalarField, MessageInclude]{
		client: c,
		meta:   messageMeta,
	}}
}
