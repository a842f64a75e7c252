package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/partydeck/partydeck-server/internal/domain"
	"github.com/partydeck/partydeck-server/internal/service"
)

const (
	msgPresetCreated = "预设创建成功"
	msgPresetUpdated = "预设更新成功"
	msgPresetDeleted = "预设删除成功"
)

func (s *Server) registerPresetRoutes() {
	huma.Register(s.api, adminOperation("listPresets", http.MethodGet, "/api/admin/presets",
		"List presets", "Presets"), s.handleListPresets)

	huma.Register(s.api, adminOperation("getPresetFormData", http.MethodGet, "/api/admin/presets/form-data",
		"Preset form data", "Presets"), s.handleGetPresetFormData)

	huma.Register(s.api, adminOperation("getPreset", http.MethodGet, "/api/admin/presets/{id}",
		"Get preset", "Presets"), s.handleGetPreset)

	huma.Register(s.api, adminOperation("createPreset", http.MethodPost, "/api/admin/presets",
		"Create preset", "Presets"), s.handleCreatePreset)

	huma.Register(s.api, adminOperation("generateRounds", http.MethodPost, "/api/admin/presets/generate",
		"Generate random rounds", "Presets"), s.handleGenerateRounds)

	huma.Register(s.api, adminOperation("updatePreset", http.MethodPut, "/api/admin/presets/{id}",
		"Update preset", "Presets"), s.handleUpdatePreset)

	huma.Register(s.api, adminOperation("deletePreset", http.MethodDelete, "/api/admin/presets/{id}",
		"Delete preset", "Presets"), s.handleDeletePreset)
}

// === DTOs ===

// PresetsOutput contains the preset list.
type PresetsOutput struct {
	Body []domain.Preset
}

// FormDataOutput contains the active rows of every category, keyed for the preset editor.
type FormDataOutput struct {
	Body map[string]any
}

// CreatePresetInput contains a new preset.
type CreatePresetInput struct {
	Body service.CreatePresetRequest
}

// CreatePresetResponse identifies the created preset.
type CreatePresetResponse struct {
	ID        int64  `json:"id"`
	ShareCode string `json:"share_code"`
	Message   string `json:"message"`
}

// CreatePresetOutput wraps CreatePresetResponse for Huma.
type CreatePresetOutput struct {
	Body CreatePresetResponse
}

// UpdatePresetInput contains a partial preset update.
type UpdatePresetInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Preset ID"`
	Body service.UpdatePresetRequest
}

// GenerateRoundsRequest asks for a number of random rounds.
type GenerateRoundsRequest struct {
	Rounds int `json:"rounds,omitempty" doc:"Number of rounds; defaults to 5, at most 100"`
}

// GenerateRoundsInput wraps GenerateRoundsRequest; the body may be omitted.
type GenerateRoundsInput struct {
	Body *GenerateRoundsRequest `required:"false"`
}

// GeneratedRounds contains freshly drawn round references.
type GeneratedRounds struct {
	Rounds []domain.RoundSpec `json:"rounds"`
}

// GenerateRoundsOutput wraps GeneratedRounds for Huma.
type GenerateRoundsOutput struct {
	Body GeneratedRounds
}

// === Handlers ===

func (s *Server) handleListPresets(ctx context.Context, _ *struct{}) (*PresetsOutput, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	presets, err := s.services.Presets.ListPresets(ctx)
	if err != nil {
		return nil, err
	}
	return &PresetsOutput{Body: presets}, nil
}

func (s *Server) handleGetPresetFormData(ctx context.Context, _ *struct{}) (*FormDataOutput, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	data, err := s.services.Presets.FormData(ctx)
	if err != nil {
		return nil, err
	}
	return &FormDataOutput{Body: data}, nil
}

func (s *Server) handleGetPreset(ctx context.Context, input *IDInput) (*PresetDetailOutput, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	detail, err := s.services.Presets.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PresetDetailOutput{Body: detail}, nil
}

func (s *Server) handleCreatePreset(ctx context.Context, input *CreatePresetInput) (*CreatePresetOutput, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	preset, err := s.services.Presets.CreatePreset(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &CreatePresetOutput{Body: CreatePresetResponse{
		ID:        preset.ID,
		ShareCode: preset.ShareCode,
		Message:   msgPresetCreated,
	}}, nil
}

func (s *Server) handleGenerateRounds(ctx context.Context, input *GenerateRoundsInput) (*GenerateRoundsOutput, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	count := 0
	if input.Body != nil {
		count = input.Body.Rounds
	}

	rounds, err := s.services.Presets.GenerateRandomRounds(ctx, count)
	if err != nil {
		return nil, err
	}
	return &GenerateRoundsOutput{Body: GeneratedRounds{Rounds: rounds}}, nil
}

func (s *Server) handleUpdatePreset(ctx context.Context, input *UpdatePresetInput) (*MutationOutput, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := s.services.Presets.UpdatePreset(ctx, input.ID, input.Body); err != nil {
		return nil, err
	}
	return &MutationOutput{Body: MutationResponse{Message: msgPresetUpdated}}, nil
}

func (s *Server) handleDeletePreset(ctx context.Context, input *IDInput) (*MutationOutput, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := s.services.Presets.DeletePreset(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MutationOutput{Body: MutationResponse{Message: msgPresetDeleted}}, nil
}
