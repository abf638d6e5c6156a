package store

import (
	"time"

	"gorm.io/gorm/clause"
)

// DefaultSettingsID is the id of the application-wide settings row.
const DefaultSettingsID = "default"

type Settings struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	Theme        string    `gorm:"column:theme;not null" json:"theme"`
	Language     string    `gorm:"column:language;not null" json:"language"`
	VoiceEnabled bool      `gorm:"column:voiceEnabled;not null" json:"voiceEnabled"`
	AutoSpeak    bool      `gorm:"column:autoSpeak;not null" json:"autoSpeak"`
	CreatedAt    time.Time `gorm:"column:createdAt;not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updatedAt;not null" json:"updatedAt"`
}

func (Settings) TableName() string { return "Settings" }

func (s Settings) primaryKey() string { return s.ID }

func (s Settings) fieldValue(name string) any {
	switch name {
	case "id":
		return s.ID
	case "theme":
		return s.Theme
	case "language":
		return s.Language
	case "voiceEnabled":
		return s.VoiceEnabled
	case "autoSpeak":
		return s.AutoSpeak
	case "createdAt":
		return s.CreatedAt
	case "updatedAt":
		return s.UpdatedAt
	}
	return nil
}

type SettingsScalarField string

const (
	SettingsFieldID           SettingsScalarField = "id"
	SettingsFieldTheme        SettingsScalarField = "theme"
	SettingsFieldLanguage     SettingsScalarField = "language"
	SettingsFieldVoiceEnabled SettingsScalarField = "voiceEnabled"
	SettingsFieldAutoSpeak    SettingsScalarField = "autoSpeak"
	SettingsFieldCreatedAt    SettingsScalarField = "createdAt"
	SettingsFieldUpdatedAt    SettingsScalarField = "updatedAt"
)

var settingsMeta = newModelMeta("Settings",
	fieldMeta{name: "id", kind: kindString},
	fieldMeta{name: "theme", kind: kindString},
	fieldMeta{name: "language", kind: kindString},
	fieldMeta{name: "voiceEnabled", kind: kindBool},
	fieldMeta{name: "autoSpeak", kind: kindBool},
	fieldMeta{name: "createdAt", kind: kindDateTime},
	fieldMeta{name: "updatedAt", kind: kindDateTime},
)

type SettingsWhereInput struct {
	AND []SettingsWhereInput `json:"AND,omitempty"`
	OR  []SettingsWhereInput `json:"OR,omitempty"`
	NOT []SettingsWhereInput `json:"NOT,omitempty"`

	ID           *StringFilter   `json:"id,omitempty"`
	Theme        *StringFilter   `json:"theme,omitempty"`
	Language     *StringFilter   `json:"language,omitempty"`
	VoiceEnabled *BoolFilter     `json:"voiceEnabled,omitempty"`
	AutoSpeak    *BoolFilter     `json:"autoSpeak,omitempty"`
	CreatedAt    *DateTimeFilter `json:"createdAt,omitempty"`
	UpdatedAt    *DateTimeFilter `json:"updatedAt,omitempty"`
}

func (w SettingsWhereInput) expression(s scope) clause.Expression {
	return conjoin(append(logical(s, w.AND, w.OR, w.NOT),
		w.ID.expression(s.ref("id")),
		w.Theme.expression(s.ref("theme")),
		w.Language.expression(s.ref("language")),
		w.VoiceEnabled.expression(s.ref("voiceEnabled")),
		w.AutoSpeak.expression(s.ref("autoSpeak")),
		w.CreatedAt.expression(s.ref("createdAt")),
		w.UpdatedAt.expression(s.ref("updatedAt")),
	)...)
}

type SettingsWhereUniqueInput struct {
	ID *string `json:"id,omitempty"`
}

func (u SettingsWhereUniqueInput) uniqueExpression(s scope) (clause.Expression, error) {
	return uniqueWhere(s, "SettingsWhereUniqueInput", uniqueKey{"id", u.ID})
}

type SettingsCreateInput struct {
	ID           *string
	Theme        *string
	Language     *string
	VoiceEnabled *bool
	AutoSpeak    *bool
	CreatedAt    *time.Time
	UpdatedAt    *time.Time
}

func (in SettingsCreateInput) build(_ *mutation, now time.Time) (*Settings, error) {
	return &Settings{
		ID:           valueOr(in.ID, DefaultSettingsID),
		Theme:        valueOr(in.Theme, "system"),
		Language:     valueOr(in.Language, "en-US"),
		VoiceEnabled: valueOr(in.VoiceEnabled, true),
		AutoSpeak:    valueOr(in.AutoSpeak, false),
		CreatedAt:    timeOr(in.CreatedAt, now),
		UpdatedAt:    timeOr(in.UpdatedAt, now),
	}, nil
}

type SettingsUpdateInput struct {
	Theme        *string
	Language     *string
	VoiceEnabled *bool
	AutoSpeak    *bool
	CreatedAt    *time.Time
	UpdatedAt    *time.Time
}

func (in SettingsUpdateInput) apply(u *update) error {
	setValue(u, "theme", in.Theme)
	setValue(u, "language", in.Language)
	setValue(u, "voiceEnabled", in.VoiceEnabled)
	setValue(u, "autoSpeak", in.AutoSpeak)
	setValue(u, "createdAt", utcPtr(in.CreatedAt))
	setValue(u, "updatedAt", utcPtr(in.UpdatedAt))
	return nil
}

// SettingsInclude is empty: Settings has no relations.
type SettingsInclude struct{}

func (SettingsInclude) preloads() []preload { return nil }

type (
	SettingsFindUniqueArgs = FindUniqueArgs[SettingsWhereUniqueInput, SettingsScalarField, SettingsInclude]
	SettingsFindManyArgs   = FindManyArgs[SettingsWhereInput, SettingsWhereUniqueInput, SettingsScalarField, SettingsInclude]
	SettingsCreateArgs     = CreateArgs[SettingsCreateInput, SettingsScalarField, SettingsInclude]
	SettingsCreateManyArgs = CreateManyArgs[SettingsCreateInput, SettingsScalarField]
	SettingsUpdateArgs     = UpdateArgs[SettingsWhereUniqueInput, SettingsUpdateInput, SettingsScalarField, SettingsInclude]
	SettingsUpdateManyArgs = UpdateManyArgs[SettingsWhereInput, SettingsUpdateInput, SettingsScalarField]
	SettingsUpsertArgs     = UpsertArgs[SettingsWhereUniqueInput, SettingsCreateInput, SettingsUpdateInput, SettingsScalarField, SettingsInclude]
	SettingsDeleteArgs     = DeleteArgs[SettingsWhereUniqueInput, SettingsScalarField, SettingsInclude]
	SettingsDeleteManyArgs = DeleteManyArgs[SettingsWhereInput]
	SettingsCountArgs      = CountArgs[SettingsWhereInput, SettingsWhereUniqueInput, SettingsScalarField]
	SettingsAggregateArgs  = AggregateArgs[SettingsWhereInput, SettingsWhereUniqueInput, SettingsScalarField]
	SettingsGroupByArgs    = GroupByArgs[SettingsWhereInput, SettingsScalarField]
)

type SettingsDelegate struct {
	*delegate[Settings, SettingsWhereInput, SettingsWhereUniqueInput, SettingsCreateInput, SettingsUpdateInput, SettingsScalarField, SettingsInclude]
}

func newSettingsDelegate(c *Client) SettingsDelegate {
	return SettingsDelegate{&delegate[Settings, SettingsWhereInput, SettingsWhereUniqueInput, SettingsCreateInput, SettingsUpdateInput, SettingsScalarField, SettingsInclude]{
		client: c,
		meta:   settingsMeta,
	}}
}
