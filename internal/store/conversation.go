package store

import (
	"time"

	"gorm.io/gorm/clause"
)

// Conversation groups the messages of one assistant session together with
// its per-conversation configuration.
type Conversation struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Title     *string   `gorm:"column:title" json:"title"`
	ProjectID *string   `gorm:"column:projectId;index" json:"projectId"`
	Archived  bool      `gorm:"column:archived;not null" json:"archived"`
	CreatedAt time.Time `gorm:"column:createdAt;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt;not null" json:"updatedAt"`

	Project        *Project        `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Messages       []Message       `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
	APIKey         *APIKey         `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"apiKey,omitempty"`
	VoiceConfig    *VoiceConfig    `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"voiceConfig,omitempty"`
	ProjectContext *ProjectContext `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"projectContext,omitempty"`
	ClaudeConfig   *ClaudeConfig   `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"claudeConfig,omitempty"`
}

func (Conversation) TableName() string { return "Conversation" }

func (c Conversation) primaryKey() string { return c.ID }

func (c Conversation) fieldValue(name string) any {
	switch name {
	case "id":
		return c.ID
	case "title":
		return deref(c.Title)
	case "projectId":
		return deref(c.ProjectID)
	case "archived":
		return c.Archived
	case "createdAt":
		return c.CreatedAt
	case "updatedAt":
		return c.UpdatedAt
	}
	return nil
}

type ConversationScalarField string

const (
	ConversationFieldID        ConversationScalarField = "id"
	ConversationFieldTitle     ConversationScalarField = "title"
	ConversationFieldProjectID ConversationScalarField = "projectId"
	ConversationFieldArchived  ConversationScalarField = "archived"
	ConversationFieldCreatedAt ConversationScalarField = "createdAt"
	ConversationFieldUpdatedAt ConversationScalarField = "updatedAt"
)

var conversationMeta = newModelMeta("Conversation",
	fieldMeta{name: "id", kind: kindString},
	fieldMeta{name: "title", kind: kindString, nullable: true},
	fieldMeta{name: "projectId", kind: kindString, nullable: true},
	fieldMeta{name: "archived", kind: kindBool},
	fieldMeta{name: "createdAt", kind: kindDateTime},
	fieldMeta{name: "updatedAt", kind: kindDateTime},
)

var (
	conversationProject        = link{table: "Project", column: "id", references: "projectId"}
	conversationMessages       = link{table: "Message", column: "conversationId", references: "id"}
	conversationAPIKey         = link{table: "ApiKey", column: "conversationId", references: "id"}
	conversationVoiceConfig    = link{table: "VoiceConfig", column: "conversationId", references: "id"}
	conversationProjectContext = link{table: "ProjectContext", column: "conversationId", references: "id"}
	conversationClaudeConfig   = link{table: "ClaudeConfig", column: "conversationId", references: "id"}
)

type ConversationWhereInput struct {
	AND []ConversationWhereInput `json:"AND,omitempty"`
	OR  []ConversationWhereInput `json:"OR,omitempty"`
	NOT []ConversationWhereInput `json:"NOT,omitempty"`

	ID        *StringFilter   `json:"id,omitempty"`
	Title     *StringFilter   `json:"title,omitempty"`
	ProjectID *StringFilter   `json:"projectId,omitempty"`
	Archived  *BoolFilter     `json:"archived,omitempty"`
	CreatedAt *DateTimeFilter `json:"createdAt,omitempty"`
	UpdatedAt *DateTimeFilter `json:"updatedAt,omitempty"`

	Project        *RelationFilter[ProjectWhereInput]        `json:"project,omitempty"`
	Messages       *ListRelationFilter[MessageWhereInput]    `json:"messages,omitempty"`
	APIKey         *RelationFilter[APIKeyWhereInput]         `json:"apiKey,omitempty"`
	VoiceConfig    *RelationFilter[VoiceConfigWhereInput]    `json:"voiceConfig,omitempty"`
	ProjectContext *RelationFilter[ProjectContextWhereInput] `json:"projectContext,omitempty"`
	ClaudeConfig   *RelationFilter[ClaudeConfigWhereInput]   `json:"claudeConfig,omitempty"`
}

func (w ConversationWhereInput) expression(s scope) clause.Expression {
	return conjoin(append(logical(s, w.AND, w.OR, w.NOT),
		w.ID.expression(s.ref("id")),
		w.Title.expression(s.ref("title")),
		w.ProjectID.expression(s.ref("projectId")),
		w.Archived.expression(s.ref("archived")),
		w.CreatedAt.expression(s.ref("createdAt")),
		w.UpdatedAt.expression(s.ref("updatedAt")),
		w.Project.expression(s, conversationProject),
		w.Messages.expression(s, conversationMessages),
		w.APIKey.expression(s, conversationAPIKey),
		w.VoiceConfig.expression(s, conversationVoiceConfig),
		w.ProjectContext.expression(s, conversationProjectContext),
		w.ClaudeConfig.expression(s, conversationClaudeConfig),
	)...)
}

type ConversationWhereUniqueInput struct {
	ID *string `json:"id,omitempty"`
}

func (u ConversationWhereUniqueInput) uniqueExpression(s scope) (clause.Expression, error) {
	return uniqueWhere(s, "ConversationWhereUniqueInput", uniqueKey{"id", u.ID})
}

type ConversationCreateInput struct {
	ID        *string
	Title     *string
	ProjectID *string
	Archived  *bool
	CreatedAt *time.Time
	UpdatedAt *time.Time

	Project        *ProjectCreateNestedOne
	Messages       *MessageCreateNestedMany
	APIKey         *APIKeyCreateNestedOne
	VoiceConfig    *VoiceConfigCreateNestedOne
	ProjectContext *ProjectContextCreateNestedOne
	ClaudeConfig   *ClaudeConfigCreateNestedOne
}

// ConversationCreateNestedMany creates or connects conversations from the
// parent side.
type ConversationCreateNestedMany struct {
	Create  []ConversationCreateInput
	Connect []ConversationWhereUniqueInput
}

func (in ConversationCreateInput) build(m *mutation, now time.Time) (*Conversation, error) {
	rec := &Conversation{
		ID:        valueOr(in.ID, newID()),
		Title:     in.Title,
		ProjectID: in.ProjectID,
		Archived:  valueOr(in.Archived, false),
		CreatedAt: timeOr(in.CreatedAt, now),
		UpdatedAt: timeOr(in.UpdatedAt, now),
	}
	if in.Project != nil {
		if in.ProjectID != nil {
			return nil, &ValidationError{Message: "Conversation: `projectId` and `project` cannot be set together."}
		}
		connectParent[Project](m, projectMeta, "ConversationToProject", in.Project.Connect, in.Project.Create, now,
			func(id string) { rec.ProjectID = &id })
	}
	if in.Messages != nil {
		for _, child := range in.Messages.Create {
			child.ConversationID = rec.ID
			createChild[Message](m, child, now)
		}
	}
	if in.APIKey != nil && in.APIKey.Create != nil {
		child := *in.APIKey.Create
		child.ConversationID = rec.ID
		createChild[APIKey](m, child, now)
	}
	if in.VoiceConfig != nil && in.VoiceConfig.Create != nil {
		child := *in.VoiceConfig.Create
		child.ConversationID = rec.ID
		createChild[VoiceConfig](m, child, now)
	}
	if in.ProjectContext != nil && in.ProjectContext.Create != nil {
		child := *in.ProjectContext.Create
		child.ConversationID = rec.ID
		createChild[ProjectContext](m, child, now)
	}
	if in.ClaudeConfig != nil && in.ClaudeConfig.Create != nil {
		child := *in.ClaudeConfig.Create
		child.ConversationID = rec.ID
		createChild[ClaudeConfig](m, child, now)
	}
	return rec, nil
}

type ConversationUpdateInput struct {
	Title     *Nullable[string]
	ProjectID *Nullable[string]
	Archived  *bool
	CreatedAt *time.Time
	UpdatedAt *time.Time

	Project *ProjectUpdateNestedOne
}

// ProjectUpdateNestedOne connects a conversation to a project or detaches it.
type ProjectUpdateNestedOne struct {
	Connect    *ProjectWhereUniqueInput
	Disconnect bool
}

func (in ConversationUpdateInput) apply(u *update) error {
	setNullable(u, "title", in.Title)
	setNullable(u, "projectId", in.ProjectID)
	setValue(u, "archived", in.Archived)
	setValue(u, "createdAt", utcPtr(in.CreatedAt))
	setValue(u, "updatedAt", utcPtr(in.UpdatedAt))
	if in.Project == nil {
		return nil
	}
	if in.ProjectID != nil {
		return &ValidationError{Message: "Conversation: `projectId` and `project` cannot be updated together."}
	}
	switch {
	case in.Project.Connect != nil && in.Project.Disconnect:
		return &ValidationError{Message: "Conversation.project accepts either `connect` or `disconnect`, not both."}
	case in.Project.Disconnect:
		u.values["projectId"] = nil
	case in.Project.Connect != nil:
		connectForeignKey(u, projectMeta, "ConversationToProject", "projectId", *in.Project.Connect)
	}
	return nil
}

type ConversationInclude struct {
	Project        bool `json:"project,omitempty"`
	Messages       bool `json:"messages,omitempty"`
	APIKey         bool `json:"apiKey,omitempty"`
	VoiceConfig    bool `json:"voiceConfig,omitempty"`
	ProjectContext bool `json:"projectContext,omitempty"`
	ClaudeConfig   bool `json:"claudeConfig,omitempty"`
}

func (i ConversationInclude) preloads() []preload {
	var p []preload
	if i.Project {
		p = append(p, preload{field: "Project", model: "Project"})
	}
	if i.Messages {
		p = append(p, preload{field: "Messages", model: "Message", orderBy: "createdAt"})
	}
	if i.APIKey {
		p = append(p, preload{field: "APIKey", model: "ApiKey"})
	}
	if i.VoiceConfig {
		p = append(p, preload{field: "VoiceConfig", model: "VoiceConfig"})
	}
	if i.ProjectContext {
		p = append(p, preload{field: "ProjectContext", model: "ProjectContext"})
	}
	if i.ClaudeConfig {
		p = append(p, preload{field: "ClaudeConfig", model: "ClaudeConfig"})
	}
	return p
}

type (
	ConversationFindUniqueArgs = FindUniqueArgs[ConversationWhereUniqueInput, ConversationScalarField, ConversationInclude]
	ConversationFindManyArgs   = FindManyArgs[ConversationWhereInput, ConversationWhereUniqueInput, ConversationScalarField, ConversationInclude]
	ConversationCreateArgs     = CreateArgs[ConversationCreateInput, ConversationScalarField, ConversationInclude]
	ConversationCreateManyArgs = CreateManyArgs[ConversationCreateInput, ConversationScalarField]
	ConversationUpdateArgs     = UpdateArgs[ConversationWhereUniqueInput, ConversationUpdateInput, ConversationScalarField, ConversationInclude]
	ConversationUpdateManyArgs = UpdateManyArgs[ConversationWhereInput, ConversationUpdateInput, ConversationScalarField]
	ConversationUpsertArgs     = UpsertArgs[ConversationWhereUniqueInput, ConversationCreateInput, ConversationUpdateInput, ConversationScalarField, ConversationInclude]
	ConversationDeleteArgs     = DeleteArgs[ConversationWhereUniqueInput, ConversationScalarField, ConversationInclude]
	ConversationDeleteManyArgs = DeleteManyArgs[ConversationWhereInput]
	ConversationCountArgs      = CountArgs[ConversationWhereInput, ConversationWhereUniqueInput, ConversationScalarField]
	ConversationAggregateArgs  = AggregateArgs[ConversationWhereInput, ConversationWhereUniqueInput, ConversationScalarField]
	ConversationGroupByArgs    = GroupByArgs[ConversationWhereInput, ConversationScalarField]
)

// ConversationDelegate runs queries against the Conversation table.
type ConversationDelegate struct {
	*delegate[Conversation, ConversationWhereInput, ConversationWhereUniqueInput, ConversationCreateInput, ConversationUpdateInput, ConversationScalarField, ConversationInclude]
}

func newConversationDelegate(c *Client) ConversationDelegate {
	return ConversationDelegate{&delegate[Conversation, ConversationWhereInput, ConversationWhereUniqueInput, ConversationCreateInput, ConversationUpdateInput, ConversationScalarField, ConversationInclude]{
		client: c,
		meta:   conversationMeta,
	}}
}
