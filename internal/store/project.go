package store

import (
	"time"

	"gorm.io/gorm/clause"
)

// Project groups conversations that work on the same code base.
type Project struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description *string   `gorm:"column:description" json:"description"`
	Path        *string   `gorm:"column:path;uniqueIndex" json:"path"`
	CreatedAt   time.Time `gorm:"column:createdAt;not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updatedAt;not null" json:"updatedAt"`

	Conversations []Conversation `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"conversations,omitempty"`
}

func (Project) TableName() string { return "Project" }

func (p Project) primaryKey() string { return p.ID }

func (p Project) fieldValue(name string) any {
	switch name {
	case "id":
		return p.ID
	case "name":
		return p.Name
	case "description":
		return deref(p.Description)
	case "path":
		return deref(p.Path)
	case "createdAt":
		return p.CreatedAt
	case "updatedAt":
		return p.UpdatedAt
	}
	return nil
}

type ProjectScalarField string

const (
	ProjectFieldID          ProjectScalarField = "id"
	ProjectFieldName        ProjectScalarField = "name"
	ProjectFieldDescription ProjectScalarField = "description"
	ProjectFieldPath        ProjectScalarField = "path"
	ProjectFieldCreatedAt   ProjectScalarField = "createdAt"
	ProjectFieldUpdatedAt   ProjectScalarField = "updatedAt"
)

var projectMeta = newModelMeta("Project",
	fieldMeta{name: "id", kind: kindString},
	fieldMeta{name: "name", kind: kindString},
	fieldMeta{name: "description", kind: kindString, nullable: true},
	fieldMeta{name: "path", kind: kindString, nullable: true},
	fieldMeta{name: "createdAt", kind: kindDateTime},
	fieldMeta{name: "updatedAt", kind: kindDateTime},
)

var projectConversations = link{table: "Conversation", column: "projectId", references: "id"}

type ProjectWhereInput struct {
	AND []ProjectWhereInput `json:"AND,omitempty"`
	OR  []ProjectWhereInput `json:"OR,omitempty"`
	NOT []ProjectWhereInput `json:"NOT,omitempty"`

	ID          *StringFilter   `json:"id,omitempty"`
	Name        *StringFilter   `json:"name,omitempty"`
	Description *StringFilter   `json:"description,omitempty"`
	Path        *StringFilter   `json:"path,omitempty"`
	CreatedAt   *DateTimeFilter `json:"createdAt,omitempty"`
	UpdatedAt   *DateTimeFilter `json:"updatedAt,omitempty"`

	Conversations *ListRelationFilter[ConversationWhereInput] `json:"conversations,omitempty"`
}

func (w ProjectWhereInput) expression(s scope) clause.Expression {
	return conjoin(append(logical(s, w.AND, w.OR, w.NOT),
		w.ID.expression(s.ref("id")),
		w.Name.expression(s.ref("name")),
		w.Description.expression(s.ref("description")),
		w.Path.expression(s.ref("path")),
		w.CreatedAt.expression(s.ref("createdAt")),
		w.UpdatedAt.expression(s.ref("updatedAt")),
		w.Conversations.expression(s, projectConversations),
	)...)
}

// ProjectWhereUniqueInput selects a project by id or by path.
type ProjectWhereUniqueInput struct {
	ID   *string `json:"id,omitempty"`
	Path *string `json:"path,omitempty"`
}

func (u ProjectWhereUniqueInput) uniqueExpression(s scope) (clause.Expression, error) {
	return uniqueWhere(s, "ProjectWhereUniqueInput", uniqueKey{"id", u.ID}, uniqueKey{"path", u.Path})
}

type ProjectCreateInput struct {
	ID          *string
	Name        string
	Description *string
	Path        *string
	CreatedAt   *time.Time
	UpdatedAt   *time.Time

	Conversations *ConversationCreateNestedMany
}

// ProjectCreateNestedOne attaches a conversation to a new or existing project.
type ProjectCreateNestedOne struct {
	Create  *ProjectCreateInput
	Connect *ProjectWhereUniqueInput
}

func (in ProjectCreateInput) build(m *mutation, now time.Time) (*Project, error) {
	rec := &Project{
		ID:          valueOr(in.ID, newID()),
		Name:        in.Name,
		Description: in.Description,
		Path:        in.Path,
		CreatedAt:   timeOr(in.CreatedAt, now),
		UpdatedAt:   timeOr(in.UpdatedAt, now),
	}
	if in.Conversations != nil {
		for _, child := range in.Conversations.Create {
			if child.Project != nil {
				return nil, &ValidationError{Message: "Project.conversations.create must not set `project`."}
			}
			child.ProjectID = &rec.ID
			createChild[Conversation](m, child, now)
		}
		connectChildren(m, conversationMeta, "ConversationToProject", "projectId", in.Conversations.Connect,
			func() string { return rec.ID })
	}
	return rec, nil
}

type ProjectUpdateInput struct {
	Name        *string
	Description *Nullable[string]
	Path        *Nullable[string]
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
}

func (in ProjectUpdateInput) apply(u *update) error {
	setValue(u, "name", in.Name)
	setNullable(u, "description", in.Description)
	setNullable(u, "path", in.Path)
	setValue(u, "createdAt", utcPtr(in.CreatedAt))
	setValue(u, "updatedAt", utcPtr(in.UpdatedAt))
	return nil
}

type ProjectInclude struct {
	Conversations bool `json:"conversations,omitempty"`
}

func (i ProjectInclude) preloads() []preload {
	if !i.Conversations {
		return nil
	}
	return []preload{{field: "Conversations", model: "Conversation", orderBy: "createdAt"}}
}

type (
	ProjectFindUniqueArgs = FindUniqueArgs[ProjectWhereUniqueInput, ProjectScalarField, ProjectInclude]
	ProjectFindManyArgs   = FindManyArgs[ProjectWhereInput, ProjectWhereUniqueInput, ProjectScalarField, ProjectInclude]
	ProjectCreateArgs     = CreateArgs[ProjectCreateInput, ProjectScalarField, ProjectInclude]
	ProjectCreateManyArgs = CreateManyArgs[ProjectCreateInput, ProjectScalarField]
	ProjectUpdateArgs     = UpdateArgs[ProjectWhereUniqueInput, ProjectUpdateInput, ProjectScalarField, ProjectInclude]
	ProjectUpdateManyArgs = UpdateManyArgs[ProjectWhereInput, ProjectUpdateInput, ProjectScalarField]
	ProjectUpsertArgs     = UpsertArgs[ProjectWhereUniqueInput, ProjectCreateInput, ProjectUpdateInput, ProjectScalarField, ProjectInclude]
	ProjectDeleteArgs     = DeleteArgs[ProjectWhereUniqueInput, ProjectScalarField, ProjectInclude]
	ProjectDeleteManyArgs = DeleteManyArgs[ProjectWhereInput]
	ProjectCountArgs      = CountArgs[ProjectWhereInput, ProjectWhereUniqueInput, ProjectScalarField]
	ProjectAggregateArgs  = AggregateArgs[ProjectWhereInput, ProjectWhereUniqueInput, ProjectScalarField]
	ProjectGroupByArgs    = GroupByArgs[ProjectWhereInput, ProjectScalarField]
)

// ProjectDelegate runs queries against the Project table.
type ProjectDelegate struct {
	*delegate[Project, ProjectWhereInput, ProjectWhereUniqueInput, ProjectCreateInput, ProjectUpdateInput, ProjectScalarField, ProjectInclude]
}

func newProjectDelegate(c *Client) ProjectDelegate {
	return ProjectDelegate{&delegate[Project, ProjectWhereInput, ProjectWhereUniqueInput, ProjectCreateInput, ProjectUpdateInput, ProjectScalarField, ProjectInclude]{
		client: c,
		meta:   projectMeta,
	}}
}
