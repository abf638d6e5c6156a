package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gwi.com/voicepilot/internal/store"
)

type ProjectService struct {
	client *store.Client
	log    *slog.Logger
}

func NewProjectService(c *store.Client, logger *slog.Logger) *ProjectService {
	return &ProjectService{client: c, log: logger}
}

type CreateProjectInput struct {
	Name        string
	Description *string
	Path        *string
}

// Create registers a project. Paths are unique across projects.
func (s *ProjectService) Create(ctx context.Context, in CreateProjectInput) (*store.Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrEmptyName
	}
	p, err := s.client.Project.Create(ctx, store.ProjectCreateArgs{Data: store.ProjectCreateInput{
		Name:        in.Name,
		Description: in.Description,
		Path:        in.Path,
	}})
	if err != nil {
		// Unique violations pass through for the caller to report.
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	s.log.Info("project created", "project", p.ID, "name", p.Name)
	return p, nil
}

// List returns projects ordered by name.
func (s *ProjectService) List(ctx context.Context) ([]store.Project, error) {
	projects, err := s.client.Project.FindMany(ctx, store.ProjectFindManyArgs{
		OrderBy: []store.OrderBy[store.ProjectScalarField]{store.SortAsc(store.ProjectFieldName)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Get returns a project with its conversations.
func (s *ProjectService) Get(ctx context.Context, id string) (*store.Project, error) {
	p, err := s.client.Project.FindUnique(ctx, store.ProjectFindUniqueArgs{
		Where:   store.ProjectWhereUniqueInput{ID: &id},
		Include: &store.ProjectInclude{Conversations: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

// Delete removes a project. Its conversations are kept and detached.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	_, err := s.client.Project.Delete(ctx, store.ProjectDeleteArgs{Where: store.ProjectWhereUniqueInput{ID: &id}})
	if store.IsNotFound(err) {
		return ErrProjectNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
