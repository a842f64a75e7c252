package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/partydeck/partydeck-server/internal/domain"
	"github.com/partydeck/partydeck-server/internal/service"
)

// adminOperation builds a bearer-protected operation that answers 200.
func adminOperation(id, method, path, summary string, tags ...string) huma.Operation {
	if len(tags) == 0 {
		tags = []string{"Admin"}
	}
	return huma.Operation{
		OperationID:   id,
		Method:        method,
		Path:          path,
		Summary:       summary,
		Tags:          tags,
		DefaultStatus: http.StatusOK,
		Security:      bearerSecurity,
	}
}

// registerCategoryRoutes registers list/get/create/update/delete for all
// twelve content tables under /api/admin.
func (s *Server) registerCategoryRoutes() {
	for _, c := range domain.NamedCategories() {
		s.registerNamedCategory(c)
	}
	s.registerPoseRoutes()
	s.registerTaskRoutes()

	huma.Register(s.api, adminOperation("getStoryOverview", http.MethodGet, "/api/admin/story",
		"Story overview", "Story"), s.handleGetStoryOverview)
}

// === DTOs ===

// IDInput identifies a row by ID.
type IDInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Row ID"`
}

// ItemsOutput contains a list of rows.
type ItemsOutput[T any] struct {
	Body []T
}

// ItemOutput contains a single row.
type ItemOutput[T any] struct {
	Body *T
}

// CreateItemInput contains a new named row.
type CreateItemInput struct {
	Body service.CategoryItemRequest
}

// UpdateItemInput contains a partial update for a named row.
type UpdateItemInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Row ID"`
	Body service.CategoryItemRequest
}

// CreatePoseInput contains a new pose.
type CreatePoseInput struct {
	Body service.PoseRequest
}

// UpdatePoseInput contains a partial pose update.
type UpdatePoseInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Pose ID"`
	Body service.PoseRequest
}

// CreateTaskInput contains a new task.
type CreateTaskInput struct {
	Body service.TaskRequest
}

// UpdateTaskInput contains a partial task update.
type UpdateTaskInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Task ID"`
	Body service.TaskRequest
}

// MutationResponse reports the outcome of a create, update or delete.
type MutationResponse struct {
	ID      int64  `json:"id,omitempty" doc:"ID of the created row"`
	Message string `json:"message"`
}

// MutationOutput wraps MutationResponse for Huma.
type MutationOutput struct {
	Body MutationResponse
}

// StoryOverviewOutput contains every story element.
type StoryOverviewOutput struct {
	Body *service.StoryOverview
}

func created(c domain.Category, id int64) *MutationOutput {
	return &MutationOutput{Body: MutationResponse{ID: id, Message: c.Label() + " created"}}
}

func updated(c domain.Category) *MutationOutput {
	return &MutationOutput{Body: MutationResponse{Message: c.Label() + " updated"}}
}

func deleted(c domain.Category) *MutationOutput {
	return &MutationOutput{Body: MutationResponse{Message: c.Label() + " deleted"}}
}

// operationSuffix turns "story/male-roles" into "story-male-roles".
func operationSuffix(c domain.Category) string {
	return strings.ReplaceAll(c.Path(), "/", "-")
}

// === Named categories ===

func (s *Server) registerNamedCategory(c domain.Category) {
	base := "/api/admin/" + c.Path()
	suffix := operationSuffix(c)
	tag := categoryTag(c)

	huma.Register(s.api, adminOperation("list-"+suffix, http.MethodGet, base, "List "+c.Path(), tag),
		func(ctx context.Context, _ *struct{}) (*ItemsOutput[domain.CategoryItem], error) {
			if _, err := s.requireAdmin(ctx); err != nil {
				return nil, err
			}
			items, err := s.services.Content.ListItems(ctx, c)
			if err != nil {
				return nil, err
			}
			return &ItemsOutput[domain.CategoryItem]{Body: items}, nil
		})

	huma.Register(s.api, adminOperation("get-"+suffix, http.MethodGet, base+"/{id}", "Get one of "+c.Path(), tag),
		func(ctx context.Context, input *IDInput) (*ItemOutput[domain.CategoryItem], error) {
			if _, err := s.requireAdmin(ctx); err != nil {
				return nil, err
			}
			item, err := s.services.Content.GetItem(ctx, c, input.ID)
			if err != nil {
				return nil, err
			}
			return &ItemOutput[domain.CategoryItem]{Body: item}, nil
		})

	huma.Register(s.api, adminOperation("create-"+suffix, http.MethodPost, base, "Create in "+c.Path(), tag),
		func(ctx context.Context, input *CreateItemInput) (*MutationOutput, error) {
			if _, err := s.requireAdmin(ctx); err != nil {
				return nil, err
			}
			item, err := s.services.Content.CreateItem(ctx, c, input.Body)
			if err != nil {
				return nil, err
			}
			return created(c, item.ID), nil
		})

	huma.Register(s.api, adminOperation("update-"+suffix, http.MethodPut, base+"/{id}", "Update in "+c.Path(), tag),
		func(ctx context.Context, input *UpdateItemInput) (*MutationOutput, error) {
			if _, err := s.requireAdmin(ctx); err != nil {
				return nil, err
			}
			if err := s.services.Content.UpdateItem(ctx, c, input.ID, input.Body); err != nil {
				return nil, err
			}
			return updated(c), nil
		})

	s.registerDelete(c)
}

// registerDelete works for every category, poses and tasks included.
func (s *Server) registerDelete(c domain.Category) {
	path := "/api/admin/" + c.Path() + "/{id}"
	huma.Register(s.api, adminOperation("delete-"+operationSuffix(c), http.MethodDelete, path,
		"Delete from "+c.Path(), categoryTag(c)),
		func(ctx context.Context, input *IDInput) (*MutationOutput, error) {
			if _, err := s.requireAdmin(ctx); err != nil {
				return nil, err
			}
			if err := s.services.Content.DeleteItem(ctx, c, input.ID); err != nil {
				return nil, err
			}
			return deleted(c), nil
		})
}

// categoryTag groups operations in the OpenAPI document.
func categoryTag(c domain.Category) string {
	switch {
	case strings.HasPrefix(c.Path(), "dice"):
		return "Dice"
	case strings.HasPrefix(c.Path(), "poses"):
		return "Poses"
	case strings.HasPrefix(c.Path(), "story"):
		return "Story"
	default:
		return "Tasks"
	}
}

// === Poses ===

func (s *Server) registerPoseRoutes() {
	c := domain.CategoryPose

	huma.Register(s.api, adminOperation("list-poses", http.MethodGet, "/api/admin/poses", "List poses", "Poses"),
		func(ctx context.Context, _ *struct{}) (*ItemsOutput[domain.Pose], error) {
			if _, err := s.requireAdmin(ctx); err != nil {
				return nil, err
			}
			poses, err := s.services.Content.ListPoses(ctx)
			if err != nil {
				return nil, err
			}
			return &ItemsOutput[domain.Pose]{Body: poses}, nil
		})

	huma.Register(s.api, adminOperation("get-poses", http.MethodGet, "/api/admin/poses/{id}", "Get pose", "Poses"),
		func(ctx context.Context, input *IDInput) (*ItemOutput[domain.Pose], error) {
			if _, err := s.requireAdmin(ctx); err != nil {
				return nil, err
			}
			pose, err := s.services.Content.GetPose(ctx, input.ID)
			if err != nil {
				return nil, err
			}
			return &ItemOutput[domain.Pose]{Body: pose}, nil
		})

	huma.Register(s.api, adminOperation("create-poses", http.MethodPost, "/api/admin/poses", "Create pose", "Poses"),
		func(ctx context.Context, input *CreatePoseInput) (*MutationOutput, error) {
			if _, err := s.requireAdmin(ctx); err != nil {
				return nil, err
			}
			pose, err := s.services.Content.CreatePose(ctx, input.Body)
			if err != nil {
				return nil, err
			}
			return created(c, pose.ID), nil
		})

	huma.Register(s.api, adminOperation("update-poses", http.MethodPut, "/api/admin/poses/{id}", "Update pose", "Poses"),
		func(ctx context.Context, input *UpdatePoseInput) (*MutationOutput, error) {
			if _, err := s.requireAdmin(ctx); err != nil {
				return nil, err
			}
			if err := s.services.Content.UpdatePose(ctx, input.ID, input.Body); err != nil {
				return nil, err
			}
			return updated(c), nil
		})

	s.registerDelete(c)
}

// === Tasks ===

func (s *Server) registerTaskRoutes() {
	c := domain.CategoryTask

	huma.Register(s.api, adminOperation("list-tasks", http.MethodGet, "/api/admin/tasks", "List tasks", "Tasks"),
		func(ctx context.Context, _ *struct{}) (*ItemsOutput[domain.Task], error) {
			if _, err := s.requireAdmin(ctx); err != nil {
				return nil, err
			}
			tasks, err := s.services.Content.ListTasks(ctx)
			if err != nil {
				return nil, err
			}
			return &ItemsOutput[domain.Task]{Body: tasks}, nil
		})

	huma.Register(s.api, adminOperation("get-tasks", http.MethodGet, "/api/admin/tasks/{id}", "Get task", "Tasks"),
		func(ctx context.Context, input *IDInput) (*ItemOutput[domain.Task], error) {
			if _, err := s.requireAdmin(ctx); err != nil {
				return nil, err
			}
			task, err := s.services.Content.GetTask(ctx, input.ID)
			if err != nil {
				return nil, err
			}
			return &ItemOutput[domain.Task]{Body: task}, nil
		})

	huma.Register(s.api, adminOperation("create-tasks", http.MethodPost, "/api/admin/tasks", "Create task", "Tasks"),
		func(ctx context.Context, input *CreateTaskInput) (*MutationOutput, error) {
			if _, err := s.requireAdmin(ctx); err != nil {
				return nil, err
			}
			task, err := s.services.Content.CreateTask(ctx, input.Body)
			if err != nil {
				return nil, err
			}
			return created(c, task.ID), nil
		})

	huma.Register(s.api, adminOperation("update-tasks", http.MethodPut, "/api/admin/tasks/{id}", "Update task", "Tasks"),
		func(ctx context.Context, input *UpdateTaskInput) (*MutationOutput, error) {
			if _, err := s.requireAdmin(ctx); err != nil {
				return nil, err
			}
			if err := s.services.Content.UpdateTask(ctx, input.ID, input.Body); err != nil {
				return nil, err
			}
			return updated(c), nil
		})

	s.registerDelete(c)
}

func (s *Server) handleGetStoryOverview(ctx context.Context, _ *struct{}) (*StoryOverviewOutput, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	overview, err := s.services.Content.StoryOverview(ctx)
	if err != nil {
		return nil, err
	}
	return &StoryOverviewOutput{Body: overview}, nil
}
