package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/partydeck/partydeck-server/internal/domain"
	domainerrors "github.com/partydeck/partydeck-server/internal/errors"
	"github.com/partydeck/partydeck-server/internal/id"
	"github.com/partydeck/partydeck-server/internal/metrics"
	"github.com/partydeck/partydeck-server/internal/store"
	"github.com/partydeck/partydeck-server/internal/validation"
)

// maxShareCodeAttempts bounds insert retries when a freshly generated code
// loses a race on the UNIQUE constraint.
const maxShareCodeAttempts = 10

// Preset messages.
const (
	msgPresetNotFound     = "预设不存在"
	msgPresetNameRequired = "请输入预设名称"
	msgShareCodeTaken     = "分享码已被使用"

	msgDiceInsufficient  = "骰子数据不足，请先添加动作和部位"
	msgPoseInsufficient  = "姿势数据不足，请先添加姿势、地点和时间"
	msgTaskInsufficient  = "任务数据不足，请先添加任务"
	msgStoryInsufficient = "剧情数据不足，请先添加所有剧情元素"
)

// generationGroups are checked in order; the first group with an empty
// pool fails the whole generation.
var generationGroups = []struct {
	categories []domain.Category
	message    string
}{
	{[]domain.Category{domain.CategoryDiceAction, domain.CategoryDicePart}, msgDiceInsufficient},
	{[]domain.Category{domain.CategoryPose, domain.CategoryPlace, domain.CategoryTime}, msgPoseInsufficient},
	{[]domain.Category{domain.CategoryTask}, msgTaskInsufficient},
	{domain.StoryCategories(), msgStoryInsufficient},
}

// PresetService manages shareable presets and random round generation.
type PresetService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger

	// newCode draws a candidate share code. Replaced in tests.
	newCode func() (string, error)
	// pick returns a uniform index in [0, n).
	pick func(n int) int
}

// NewPresetService creates a new preset service.
func NewPresetService(store store.Store, validator *validation.Validator, logger *slog.Logger) *PresetService {
	return &PresetService{
		store:     store,
		validator: validator,
		logger:    logger,
		newCode:   id.ShareCode,
		pick:      rand.IntN,
	}
}

// CreatePresetRequest creates a preset. Omitted rounds default to 5 and
// is_active to true. A share code is generated when none is supplied.
type CreatePresetRequest struct {
	Name       string             `json:"name" required:"false"`
	ShareCode  string             `json:"share_code,omitempty" validate:"omitempty,alphanum,max=32"`
	Rounds     *int               `json:"rounds,omitempty" validate:"omitempty,min=1,max=100"`
	IsActive   *bool              `json:"is_active,omitempty"`
	RoundsData []domain.RoundSpec `json:"rounds_data,omitempty"`
}

// UpdatePresetRequest is a partial update. A non-nil RoundsData, even an
// empty one, replaces every stored round.
type UpdatePresetRequest struct {
	Name       *string            `json:"name,omitempty"`
	Rounds     *int               `json:"rounds,omitempty" validate:"omitempty,min=1,max=100"`
	IsActive   *bool              `json:"is_active,omitempty"`
	RoundsData []domain.RoundSpec `json:"rounds_data,omitempty"`
}

// PresetDetail is a preset with its resolved rounds.
type PresetDetail struct {
	ID         int64                  `json:"id"`
	Name       string                 `json:"name"`
	ShareCode  string                 `json:"share_code"`
	Rounds     int                    `json:"rounds"`
	IsActive   bool                   `json:"is_active"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
	RoundsData []domain.ResolvedRound `json:"rounds_data"`
	// RoundSpecs carries the raw references for the admin editor.
	RoundSpecs []domain.RoundSpec `json:"round_specs,omitempty"`
}

func presetNameError() error {
	return domainerrors.ValidationWithDetails(validation.FailedMessage, map[string]string{
		"name": msgPresetNameRequired,
	})
}

// GenerateShareCode draws codes until one is not in use.
func (s *PresetService) GenerateShareCode(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code, err := s.newCode()
		if err != nil {
			return "", err
		}
		taken, err := s.store.ShareCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check share code: %w", err)
		}
		if !taken {
			return code, nil
		}
		metrics.ShareCodeCollisionsTotal.Inc()
		s.logger.Debug("share code collision, redrawing", "code", code)
	}
}

// CreatePreset inserts a preset and its rounds in one transaction.
func (s *PresetService) CreatePreset(ctx context.Context, req CreatePresetRequest) (*domain.Preset, error) {
	name := normalizeText(req.Name)
	if name == "" {
		return nil, presetNameError()
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	p := &domain.Preset{
		Name:     name,
		Rounds:   valueOr(req.Rounds, domain.DefaultRounds),
		IsActive: valueOr(req.IsActive, true),
	}

	if req.ShareCode != "" {
		p.ShareCode = req.ShareCode
		err := s.store.CreatePreset(ctx, p, req.RoundsData)
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict(msgShareCodeTaken)
		}
		if err != nil {
			return nil, fmt.Errorf("create preset: %w", err)
		}
		s.created(p, len(req.RoundsData))
		return p, nil
	}

	var lastErr error
	for attempt := 1; attempt <= maxShareCodeAttempts; attempt++ {
		code, err := s.GenerateShareCode(ctx)
		if err != nil {
			return nil, err
		}
		p.ShareCode = code

		lastErr = s.store.CreatePreset(ctx, p, req.RoundsData)
		if lastErr == nil {
			s.created(p, len(req.RoundsData))
			return p, nil
		}
		if !errors.Is(lastErr, store.ErrAlreadyExists) {
			return nil, fmt.Errorf("create preset: %w", lastErr)
		}
		metrics.ShareCodeCollisionsTotal.Inc()
		s.logger.Warn("share code taken at insert, retrying", "code", code, "attempt", attempt)
	}
	return nil, fmt.Errorf("allocate share code after %d attempts: %w", maxShareCodeAttempts, lastErr)
}

func (s *PresetService) created(p *domain.Preset, rounds int) {
	metrics.PresetsCreatedTotal.Inc()
	s.logger.Info("preset created", "id", p.ID, "share_code", p.ShareCode, "rounds", rounds)
}

// SaveRounds replaces every round of a preset.
func (s *PresetService) SaveRounds(ctx context.Context, presetID int64, rounds []domain.RoundSpec) error {
	if _, err := s.getPreset(ctx, presetID); err != nil {
		return err
	}
	return s.store.SaveRounds(ctx, presetID, rounds)
}

// GetByShareCode returns an active preset with its rounds.
func (s *PresetService) GetByShareCode(ctx context.Context, code string) (*PresetDetail, error) {
	p, err := s.store.GetPresetByShareCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound(msgPresetNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, p, false)
}

// GetByID returns any preset, active or not, with its rounds and raw round references.
func (s *PresetService) GetByID(ctx context.Context, id int64) (*PresetDetail, error) {
	p, err := s.getPreset(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, p, true)
}

func (s *PresetService) getPreset(ctx context.Context, id int64) (*domain.Preset, error) {
	p, err := s.store.GetPreset(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound(msgPresetNotFound)
	}
	return p, err
}

func (s *PresetService) detail(ctx context.Context, p *domain.Preset, withSpecs bool) (*PresetDetail, error) {
	rounds, err := s.store.ResolvedRounds(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve rounds: %w", err)
	}
	if rounds == nil {
		rounds = []domain.ResolvedRound{}
	}

	d := &PresetDetail{
		ID:         p.ID,
		Name:       p.Name,
		ShareCode:  p.ShareCode,
		Rounds:     p.Rounds,
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		RoundsData: rounds,
	}
	if withSpecs {
		if d.RoundSpecs, err = s.store.ListRounds(ctx, p.ID); err != nil {
			return nil, fmt.Errorf("list rounds: %w", err)
		}
	}
	return d, nil
}

// ListPresets returns every preset, newest first, without rounds.
func (s *PresetService) ListPresets(ctx context.Context) ([]domain.Preset, error) {
	presets, err := s.store.ListPresets(ctx)
	if err != nil {
		return nil, err
	}
	if presets == nil {
		presets = []domain.Preset{}
	}
	return presets, nil
}

// UpdatePreset applies a partial update, replacing rounds in the same
// transaction when RoundsData is present.
func (s *PresetService) UpdatePreset(ctx context.Context, id int64, req UpdatePresetRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	patch := domain.PresetPatch{
		Rounds:        req.Rounds,
		IsActive:      req.IsActive,
		RoundsData:    req.RoundsData,
		ReplaceRounds: req.RoundsData != nil,
	}
	if req.Name != nil {
		name := normalizeText(*req.Name)
		if name == "" {
			return presetNameError()
		}
		patch.Name = &name
	}

	err := s.store.UpdatePreset(ctx, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound(msgPresetNotFound)
	}
	return err
}

// DeletePreset removes a preset and its rounds.
func (s *PresetService) DeletePreset(ctx context.Context, id int64) error {
	err := s.store.DeletePreset(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound(msgPresetNotFound)
	}
	if err != nil {
		return err
	}
	s.logger.Info("preset deleted", "id", id)
	return nil
}

// GenerateRandomRounds draws count rounds from the active rows of every
// category. A count of zero or less means the default of 5. Nothing is stored.
func (s *PresetService) GenerateRandomRounds(ctx context.Context, count int) ([]domain.RoundSpec, error) {
	if count <= 0 {
		count = domain.DefaultRounds
	}
	if count > domain.MaxGeneratedRounds {
		return nil, domainerrors.ValidationWithDetails(validation.FailedMessage, map[string]string{
			"rounds": fmt.Sprintf("Rounds must not exceed %d", domain.MaxGeneratedRounds),
		})
	}

	pools := make(map[domain.Category][]int64, len(domain.AllCategories()))
	for _, c := range domain.AllCategories() {
		ids, err := s.store.ActiveIDs(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("load %s pool: %w", c, err)
		}
		pools[c] = ids
	}

	for _, group := range generationGroups {
		for _, c := range group.categories {
			if len(pools[c]) == 0 {
				return nil, domainerrors.InsufficientData(group.message)
			}
		}
	}

	rounds := make([]domain.RoundSpec, count)
	for i := range rounds {
		rounds[i].RoundNumber = i + 1
		for _, c := range domain.AllCategories() {
			pool := pools[c]
			picked := pool[s.pick(len(pool))]
			*rounds[i].Ref(c) = &picked
		}
	}

	metrics.RoundsGeneratedTotal.Add(float64(count))
	return rounds, nil
}

// FormData returns the active rows of every category, keyed the way the
// preset editor expects.
func (s *PresetService) FormData(ctx context.Context) (map[string]any, error) {
	data := make(map[string]any, len(domain.AllCategories()))
	for _, c := range domain.NamedCategories() {
		items, err := s.store.ListActiveCategoryItems(ctx, c)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []domain.CategoryItem{}
		}
		data[c.FormKey()] = items
	}

	poses, err := s.store.ListActivePoses(ctx)
	if err != nil {
		return nil, err
	}
	if poses == nil {
		poses = []domain.Pose{}
	}
	data[domain.CategoryPose.FormKey()] = poses

	tasks, err := s.store.ListActiveTasks(ctx)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	data[domain.CategoryTask.FormKey()] = tasks

	return data, nil
}
