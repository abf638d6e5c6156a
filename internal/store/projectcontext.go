package store

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// ProjectContext records the working tree a conversation operates on.
// Files is an arbitrary JSON document, typically the list of files in scope.
type ProjectContext struct {
	ID               string         `gorm:"column:id;primaryKey" json:"id"`
	ConversationID   string         `gorm:"column:conversationId;not null;uniqueIndex" json:"conversationId"`
	WorkingDirectory string         `gorm:"column:workingDirectory;not null" json:"workingDirectory"`
	GitBranch        *string        `gorm:"column:gitBranch" json:"gitBranch"`
	Files            datatypes.JSON `gorm:"column:files" json:"files"`
	Summary          *string        `gorm:"column:summary" json:"summary"`
	CreatedAt        time.Time      `gorm:"column:createdAt;not null" json:"createdAt"`
	UpdatedAt        time.Time      `gorm:"column:updatedAt;not null" json:"updatedAt"`

	Conversation *Conversation `gorm:"foreignKey:ConversationID" json:"conversation,omitempty"`
}

func (ProjectContext) TableName() string { return "ProjectContext" }

func (p ProjectContext) primaryKey() string { return p.ID }

func (p ProjectContext) fieldValue(name string) any {
	switch name {
	case "id":
		return p.ID
	case "conversationId":
		return p.ConversationID
	case "workingDirectory":
		return p.WorkingDirectory
	case "gitBranch":
		return deref(p.GitBranch)
	case "files":
		if len(p.Files) == 0 {
			return nil
		}
		return json.RawMessage(p.Files)
	case "summary":
		return deref(p.Summary)
	case "createdAt":
		return p.CreatedAt
	case "updatedAt":
		return p.UpdatedAt
	}
	return nil
}

type ProjectContextScalarField string

const (
	ProjectContextFieldID               ProjectContextScalarField = "id"
	ProjectContextFieldConversationID   ProjectContextScalarField = "conversationId"
	ProjectContextFieldWorkingDirectory ProjectContextScalarField = "workingDirectory"
	ProjectContextFieldGitBranch        ProjectContextScalarField = "gitBranch"
	ProjectContextFieldFiles            ProjectContextScalarField = "files"
	ProjectContextFieldSummary          ProjectContextScalarField = "summary"
	ProjectContextFieldCreatedAt        ProjectContextScalarField = "createdAt"
	ProjectContextFieldUpdatedAt        ProjectContextScalarField = "updatedAt"
)

var projectContextMeta = newModelMeta("ProjectContext",
	fieldMeta{name: "id", kind: kindString},
	fieldMeta{name: "conversationId", kind: kindString},
	fieldMeta{name: "workingDirectory", kind: kindString},
	fieldMeta{name: "gitBranch", kind: kindString, nullable: true},
	fieldMeta{name: "files", kind: kindJSON, nullable: true},
	fieldMeta{name: "summary", kind: kindString, nullable: true},
	fieldMeta{name: "createdAt", kind: kindDateTime},
	fieldMeta{name: "updatedAt", kind: kindDateTime},
)

// ProjectContextWhereInput has no filter on files; JSON documents are only
// tested for presence.
type ProjectContextWhereInput struct {
	AND []ProjectContextWhereInput `json:"AND,omitempty"`
	OR  []ProjectContextWhereInput `json:"OR,omitempty"`
	NOT []ProjectContextWhereInput `json:"NOT,omitempty"`

	ID               *StringFilter   `json:"id,omitempty"`
	ConversationID   *StringFilter   `json:"conversationId,omitempty"`
	WorkingDirectory *StringFilter   `json:"workingDirectory,omitempty"`
	GitBranch        *StringFilter   `json:"gitBranch,omitempty"`
	FilesIsNull      *bool           `json:"filesIsNull,omitempty"`
	Summary          *StringFilter   `json:"summary,omitempty"`
	CreatedAt        *DateTimeFilter `json:"createdAt,omitempty"`
	UpdatedAt        *DateTimeFilter `json:"updatedAt,omitempty"`

	Conversation *RelationFilter[ConversationWhereInput] `json:"conversation,omitempty"`
}

func (w ProjectContextWhereInput) expression(s scope) clause.Expression {
	var files clause.Expression
	if w.FilesIsNull != nil {
		files = nullCheck{target: s.ref("files"), null: *w.FilesIsNull}
	}
	return conjoin(append(logical(s, w.AND, w.OR, w.NOT),
		w.ID.expression(s.ref("id")),
		w.ConversationID.expression(s.ref("conversationId")),
		w.WorkingDirectory.expression(s.ref("workingDirectory")),
		w.GitBranch.expression(s.ref("gitBranch")),
		files,
		w.Summary.expression(s.ref("summary")),
		w.CreatedAt.expression(s.ref("createdAt")),
		w.UpdatedAt.expression(s.ref("updatedAt")),
		w.Conversation.expression(s, belongsToConversation),
	)...)
}

type ProjectContextWhereUniqueInput struct {
	ID             *string `json:"id,omitempty"`
	ConversationID *string `json:"conversationId,omitempty"`
}

func (u ProjectContextWhereUniqueInput) uniqueExpression(s scope) (clause.Expression, error) {
	return uniqueWhere(s, "ProjectContextWhereUniqueInput", uniqueKey{"id", u.ID}, uniqueKey{"conversationId", u.ConversationID})
}

type ProjectContextCreateInput struct {
	ID               *string
	ConversationID   string
	WorkingDirectory string
	GitBranch        *string
	Files            datatypes.JSON
	Summary          *string
	CreatedAt        *time.Time
	UpdatedAt        *time.Time
}

type ProjectContextCreateNestedOne struct {
	Create *ProjectContextCreateInput
}

func (in ProjectContextCreateInput) build(_ *mutation, now time.Time) (*ProjectContext, error) {
	if len(in.Files) > 0 && !json.Valid(in.Files) {
		return nil, &ValidationError{Message: "ProjectContext.files must be a valid JSON document."}
	}
	return &ProjectContext{
		ID:               valueOr(in.ID, newID()),
		ConversationID:   in.ConversationID,
		WorkingDirectory: in.WorkingDirectory,
		GitBranch:        in.GitBranch,
		Files:            in.Files,
		Summary:          in.Summary,
		CreatedAt:        timeOr(in.CreatedAt, now),
		UpdatedAt:        timeOr(in.UpdatedAt, now),
	}, nil
}

type ProjectContextUpdateInput struct {
	ConversationID   *string
	WorkingDirectory *string
	GitBranch        *Nullable[string]
	Files            *Nullable[datatypes.JSON]
	Summary          *Nullable[string]
	CreatedAt        *time.Time
	UpdatedAt        *time.Time
}

func (in ProjectContextUpdateInput) apply(u *update) error {
	if in.Files != nil && in.Files.Value != nil && !json.Valid(*in.Files.Value) {
		return &ValidationError{Message: "ProjectContext.files must be a valid JSON document."}
	}
	setValue(u, "conversationId", in.ConversationID)
	setValue(u, "workingDirectory", in.WorkingDirectory)
	setNullable(u, "gitBranch", in.GitBranch)
	setNullable(u, "files", in.Files)
	setNullable(u, "summary", in.Summary)
	setValue(u, "createdAt", utcPtr(in.CreatedAt))
	setValue(u, "updatedAt", utcPtr(in.UpdatedAt))
	return nil
}

type ProjectContextInclude struct {
	Conversation bool `json:"conversation,omitempty"`
}

func (i ProjectContextInclude) preloads() []preload {
	if !i.Conversation {
		return nil
	}
	return []preload{{field: "Conversation", model: "Conversation"}}
}

type (
	ProjectContextFindUniqueArgs = FindUniqueArgs[ProjectContextWhereUniqueInput, ProjectContextScalarField, ProjectContextInclude]
	ProjectContextFindManyArgs   = FindManyArgs[ProjectContextWhereInput, ProjectContextWhereUniqueInput, ProjectContextScalarField, ProjectContextInclude]
	ProjectContextCreateArgs     = CreateArgs[ProjectContextCreateInput, ProjectContextScalarField, ProjectContextInclude]
	ProjectContextCreateManyArgs = CreateManyArgs[ProjectContextCreateInput, ProjectContextScalarField]
	ProjectContextUpdateArgs     = UpdateArgs[ProjectContextWhereUniqueInput, ProjectContextUpdateInput, ProjectContextScalarField, ProjectContextInclude]
	ProjectContextUpdateManyArgs = UpdateManyArgs[ProjectContextWhereInput, ProjectContextUpdateInput, ProjectContextScalarField]
	ProjectContextUpsertArgs     = UpsertArgs[ProjectContextWhereUniqueInput, ProjectContextCreateInput, ProjectContextUpdateInput, ProjectContextScalarField, ProjectContextInclude]
	ProjectContextDeleteArgs     = DeleteArgs[ProjectContextWhereUniqueInput, ProjectContextScalarField, ProjectContextInclude]
	ProjectContextDeleteManyArgs = DeleteManyArgs[ProjectContextWhereInput]
	ProjectContextCountArgs      = CountArgs[ProjectContextWhereInput, ProjectContextWhereUniqueInput, ProjectContextScalarField]
	ProjectContextAggregateArgs  = AggregateArgs[ProjectContextWhereInput, ProjectContextWhereUniqueInput, ProjectContextScalarField]
	ProjectContextGroupByArgs    = GroupByArgs[ProjectContextWhereInput, ProjectContextScalarField]
)

type ProjectContextDelegate struct {
	*delegate[ProjectContext, ProjectContextWhereInput, ProjectContextWhereUniqueInput, ProjectContextCreateInput, ProjectContextUpdateInput, ProjectContextScalarField, ProjectContextInclude]
}

func newProjectContextDelegate(c *Client) ProjectContextDelegate {
	return ProjectContextDelegate{&delegate[ProjectContext, ProjectContextWhereInput, ProjectContextWhereUniqueInput, ProjectContextCreateInput, ProjectContextUpdateInput, ProjectContextScalarField, ProjectContextInclude]{
		client: c,
		meta:   projectContextMeta,
	}}
}
