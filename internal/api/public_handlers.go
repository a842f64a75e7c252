package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/partydeck/partydeck-server/internal/domain"
	"github.com/partydeck/partydeck-server/internal/service"
)

func (s *Server) registerPublicRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getDice",
		Method:      http.MethodGet,
		Path:        "/api/dice",
		Summary:     "Dice faces",
		Description: "Returns the names of every active dice action and body part",
		Tags:        []string{"Games"},
	}, s.handleGetDice)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPoseWheel",
		Method:      http.MethodGet,
		Path:        "/api/poses",
		Summary:     "Pose wheel",
		Description: "Returns active places, poses and times, plus each pose's image and description",
		Tags:        []string{"Games"},
	}, s.handleGetPoseWheel)

	huma.Register(s.api, huma.Operation{
		OperationID: "listActiveTasks",
		Method:      http.MethodGet,
		Path:        "/api/tasks",
		Summary:     "List tasks",
		Description: "Returns every active task",
		Tags:        []string{"Games"},
	}, s.handleListActiveTasks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRandomTask",
		Method:      http.MethodGet,
		Path:        "/api/tasks/random",
		Summary:     "Random task",
		Description: "Returns one active task chosen uniformly at random",
		Tags:        []string{"Games"},
	}, s.handleGetRandomTask)

	huma.Register(s.api, huma.Operation{
		OperationID: "getStory",
		Method:      http.MethodGet,
		Path:        "/api/story",
		Summary:     "Story elements",
		Description: "Returns the names of every active story element, grouped by kind",
		Tags:        []string{"Games"},
	}, s.handleGetStory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRandomStory",
		Method:      http.MethodGet,
		Path:        "/api/story/random",
		Summary:     "Random story",
		Description: "Draws one active element of each story kind",
		Tags:        []string{"Games"},
	}, s.handleGetRandomStory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSharedPreset",
		Method:      http.MethodGet,
		Path:        "/api/preset/{code}",
		Summary:     "Shared preset",
		Description: "Returns an active preset and its resolved rounds by share code",
		Tags:        []string{"Presets"},
	}, s.handleGetSharedPreset)
}

// === DTOs ===

// DiceOutput contains the dice faces.
type DiceOutput struct {
	Body *service.DiceFaces
}

// PoseWheelOutput contains the pose wheel.
type PoseWheelOutput struct {
	Body *service.PoseWheel
}

// TasksOutput contains a list of tasks.
type TasksOutput struct {
	Body []domain.Task
}

// TaskOutput contains a single task.
type TaskOutput struct {
	Body *domain.Task
}

// StoryOutput contains the story element names.
type StoryOutput struct {
	Body *service.StoryElements
}

// StoryDrawOutput contains one random story.
type StoryDrawOutput struct {
	Body *service.StoryDraw
}

// SharedPresetInput identifies a preset by share code.
type SharedPresetInput struct {
	Code string `path:"code" pattern:"^[a-zA-Z0-9]+$" maxLength:"32" doc:"Share code"`
}

// PresetDetailOutput contains a preset with its rounds.
type PresetDetailOutput struct {
	Body *service.PresetDetail
}

// === Handlers ===

func (s *Server) handleGetDice(ctx context.Context, _ *struct{}) (*DiceOutput, error) {
	dice, err := s.services.Catalog.Dice(ctx)
	if err != nil {
		return nil, err
	}
	return &DiceOutput{Body: dice}, nil
}

func (s *Server) handleGetPoseWheel(ctx context.Context, _ *struct{}) (*PoseWheelOutput, error) {
	wheel, err := s.services.Catalog.Poses(ctx)
	if err != nil {
		return nil, err
	}
	return &PoseWheelOutput{Body: wheel}, nil
}

func (s *Server) handleListActiveTasks(ctx context.Context, _ *struct{}) (*TasksOutput, error) {
	tasks, err := s.services.Catalog.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	return &TasksOutput{Body: tasks}, nil
}

func (s *Server) handleGetRandomTask(ctx context.Context, _ *struct{}) (*TaskOutput, error) {
	task, err := s.services.Catalog.RandomTask(ctx)
	if err != nil {
		return nil, err
	}
	return &TaskOutput{Body: task}, nil
}

func (s *Server) handleGetStory(ctx context.Context, _ *struct{}) (*StoryOutput, error) {
	story, err := s.services.Catalog.Story(ctx)
	if err != nil {
		return nil, err
	}
	return &StoryOutput{Body: story}, nil
}

func (s *Server) handleGetRandomStory(ctx context.Context, _ *struct{}) (*StoryDrawOutput, error) {
	draw, err := s.services.Catalog.RandomStory(ctx)
	if err != nil {
		return nil, err
	}
	return &StoryDrawOutput{Body: draw}, nil
}

func (s *Server) handleGetSharedPreset(ctx context.Context, input *SharedPresetInput) (*PresetDetailOutput, error) {
	detail, err := s.services.Presets.GetByShareCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	return &PresetDetailOutput{Body: detail}, nil
}
