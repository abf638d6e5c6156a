package store

import (
	"time"

	"gorm.io/gorm/clause"
)

// VoiceConfig holds the speech synthesis settings of a conversation.
type VoiceConfig struct {
	ID             string    `gorm:"column:id;primaryKey" json:"id"`
	ConversationID string    `gorm:"column:conversationId;not null;uniqueIndex" json:"conversationId"`
	Voice          string    `gorm:"column:voice;not null" json:"voice"`
	Speed          float64   `gorm:"column:speed;not null" json:"speed"`
	Pitch          float64   `gorm:"column:pitch;not null" json:"pitch"`
	Language       string    `gorm:"column:language;not null" json:"language"`
	Enabled        bool      `gorm:"column:enabled;not null" json:"enabled"`
	CreatedAt      time.Time `gorm:"column:createdAt;not null" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updatedAt;not null" json:"updatedAt"`

	Conversation *Conversation `gorm:"foreignKey:ConversationID" json:"conversation,omitempty"`
}

func (VoiceConfig) TableName() string { return "VoiceConfig" }

func (v VoiceConfig) primaryKey() string { return v.ID }

func (v VoiceConfig) fieldValue(name string) any {
	switch name {
	case "id":
		return v.ID
	case "conversationId":
		return v.ConversationID
	case "voice":
		return v.Voice
	case "speed":
		return v.Speed
	case "pitch":
		return v.Pitch
	case "language":
		return v.Language
	case "enabled":
		return v.Enabled
	case "createdAt":
		return v.CreatedAt
	case "updatedAt":
		return v.UpdatedAt
	}
	return nil
}

type VoiceConfigScalarField string

const (
	VoiceConfigFieldID             VoiceConfigScalarField = "id"
	VoiceConfigFieldConversationID VoiceConfigScalarField = "conversationId"
	VoiceConfigFieldVoice          VoiceConfigScalarField = "voice"
	VoiceConfigFieldSpeed          VoiceConfigScalarField = "speed"
	VoiceConfigFieldPitch          VoiceConfigScalarField = "pitch"
	VoiceConfigFieldLanguage       VoiceConfigScalarField = "language"
	VoiceConfigFieldEnabled        VoiceConfigScalarField = "enabled"
	VoiceConfigFieldCreatedAt      VoiceConfigScalarField = "createdAt"
	VoiceConfigFieldUpdatedAt      VoiceConfigScalarField = "updatedAt"
)

var voiceConfigMeta = newModelMeta("VoiceConfig",
	fieldMeta{name: "id", kind: kindString},
	fieldMeta{name: "conversationId", kind: kindString},
	fieldMeta{name: "voice", kind: kindString},
	fieldMeta{name: "speed", kind: kindFloat},
	fieldMeta{name: "pitch", kind: kindFloat},
	fieldMeta{name: "language", kind: kindString},
	fieldMeta{name: "enabled", kind: kindBool},
	fieldMeta{name: "createdAt", kind: kindDateTime},
	fieldMeta{name: "updatedAt", kind: kindDateTime},
)

type VoiceConfigWhereInput struct {
	AND []VoiceConfigWhereInput `json:"AND,omitempty"`
	OR  []VoiceConfigWhereInput `json:"OR,omitempty"`
	NOT []VoiceConfigWhereInput `json:"NOT,omitempty"`

	ID             *StringFilter   `json:"id,omitempty"`
	ConversationID *StringFilter   `json:"conversationId,omitempty"`
	Voice          *StringFilter   `json:"voice,omitempty"`
	Speed          *FloatFilter    `json:"speed,omitempty"`
	Pitch          *FloatFilter    `json:"pitch,omitempty"`
	Language       *StringFilter   `json:"language,omitempty"`
	Enabled        *BoolFilter     `json:"enabled,omitempty"`
	CreatedAt      *DateTimeFilter `json:"createdAt,omitempty"`
	UpdatedAt      *DateTimeFilter `json:"updatedAt,omitempty"`

	Conversation *RelationFilter[ConversationWhereInput] `json:"conversation,omitempty"`
}

func (w VoiceConfigWhereInput) expression(s scope) clause.Expression {
	return conjoin(append(logical(s, w.AND, w.OR, w.NOT),
		w.ID.expression(s.ref("id")),
		w.ConversationID.expression(s.ref("conversationId")),
		w.Voice.expression(s.ref("voice")),
		w.Speed.expression(s.ref("speed")),
		w.Pitch.expression(s.ref("pitch")),
		w.Language.expression(s.ref("language")),
		w.Enabled.expression(s.ref("enabled")),
		w.CreatedAt.expression(s.ref("createdAt")),
		w.UpdatedAt.expression(s.ref("updatedAt")),
		w.Conversation.expression(s, belongsToConversation),
	)...)
}

type VoiceConfigWhereUniqueInput struct {
	ID             *string `json:"id,omitempty"`
	ConversationID *string `json:"conversationId,omitempty"`
}

func (u VoiceConfigWhereUniqueInput) uniqueExpression(s scope) (clause.Expression, error) {
	return uniqueWhere(s, "VoiceConfigWhereUniqueInput", uniqueKey{"id", u.ID}, uniqueKey{"conversationId", u.ConversationID})
}

type VoiceConfigCreateInput struct {
	ID             *string
	ConversationID string
	Voice          *string
	Speed          *float64
	Pitch          *float64
	Language       *string
	Enabled        *bool
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
}

type VoiceConfigCreateNestedOne struct {
	Create *VoiceConfigCreateInput
}

func (in VoiceConfigCreateInput) build(_ *mutation, now time.Time) (*VoiceConfig, error) {
	return &VoiceConfig{
		ID:             valueOr(in.ID, newID()),
		ConversationID: in.ConversationID,
		Voice:          valueOr(in.Voice, "alloy"),
		Speed:          valueOr(in.Speed, 1),
		Pitch:          valueOr(in.Pitch, 1),
		Language:       valueOr(in.Language, "en-US"),
		Enabled:        valueOr(in.Enabled, true),
		CreatedAt:      timeOr(in.CreatedAt, now),
		UpdatedAt:      timeOr(in.UpdatedAt, now),
	}, nil
}

type VoiceConfigUpdateInput struct {
	ConversationID *string
	Voice          *string
	Speed          *NumberUpdate[float64]
	Pitch          *NumberUpdate[float64]
	Language       *string
	Enabled        *bool
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
}

func (in VoiceConfigUpdateInput) apply(u *update) error {
	setValue(u, "conversationId", in.ConversationID)
	setValue(u, "voice", in.Voice)
	setValue(u, "language", in.Language)
	setValue(u, "enabled", in.Enabled)
	setValue(u, "createdAt", utcPtr(in.CreatedAt))
	setValue(u, "updatedAt", utcPtr(in.UpdatedAt))
	if err := setNumber(u, "speed", in.Speed); err != nil {
		return err
	}
	return setNumber(u, "pitch", in.Pitch)
}

type VoiceConfigInclude struct {
	Conversation bool `json:"conversation,omitempty"`
}

func (i VoiceConfigInclude) preloads() []preload {
	if !i.Conversation {
		return nil
	}
	return []preload{{field: "Conversation", model: "Conversation"}}
}

type (
	VoiceConfigFindUniqueArgs = FindUniqueArgs[VoiceConfigWhereUniqueInput, VoiceConfigScalarField, VoiceConfigInclude]
	VoiceConfigFindManyArgs   = FindManyArgs[VoiceConfigWhereInput, VoiceConfigWhereUniqueInput, VoiceConfigScalarField, VoiceConfigInclude]
	VoiceConfigCreateArgs     = CreateArgs[VoiceConfigCreateInput, VoiceConfigScalarField, VoiceConfigInclude]
	VoiceConfigCreateManyArgs = CreateManyArgs[VoiceConfigCreateInput, VoiceConfigScalarField]
	VoiceConfigUpdateArgs     = UpdateArgs[VoiceConfigWhereUniqueInput, VoiceConfigUpdateInput, VoiceConfigScalarField, VoiceConfigInclude]
	VoiceConfigUpdateManyArgs = UpdateManyArgs[VoiceConfigWhereInput, VoiceConfigUpdateInput, VoiceConfigScalarField]
	VoiceConfigUpsertArgs     = UpsertArgs[VoiceConfigWhereUniqueInput, VoiceConfigCreateInput, VoiceConfigUpdateInput, VoiceConfigScalarField, VoiceConfigInclude]
	VoiceConfigDeleteArgs     = DeleteArgs[VoiceConfigWhereUniqueInput, VoiceConfigScalarField, VoiceConfigInclude]
	VoiceConfigDeleteManyArgs = DeleteManyArgs[VoiceConfigWhereInput]
	VoiceConfigCountArgs      = CountArgs[VoiceConfigWhereInput, VoiceConfigWhereUniqueInput, VoiceConfigScalarField]
	VoiceConfigAggregateArgs  = AggregateArgs[VoiceConfigWhereInput, VoiceConfigWhereUniqueInput, VoiceConfigScalarField]
	VoiceConfigGroupByArgs    = GroupByArgs[VoiceConfigWhereInput, VoiceConfigScalarField]
)

type VoiceConfigDelegate struct {
	*delegate[VoiceConfig, VoiceConfigWhereInput, VoiceConfigWhereUniqueInput, VoiceConfigCreateInput, VoiceConfigUpdateInput, VoiceConfigScalarField, VoiceConfigInclude]
}

func newVoiceConfigDelegate(c *Client) VoiceConfigDelegate {
	return VoiceConfigDelegate{&delegate[VoiceConfig, VoiceConfigWhereInput, VoiceConfigWhereUniqueInput, VoiceConfigCreateInput, VoiceConfigUpdateInput, VoiceConfigScalarField, VoiceConfigInclude]{
		client: c,
		meta:   voiceConfigMeta,
	}}
}
