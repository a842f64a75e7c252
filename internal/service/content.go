package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/partydeck/partydeck-server/internal/domain"
	domainerrors "github.com/partydeck/partydeck-server/internal/errors"
	"github.com/partydeck/partydeck-server/internal/store"
	"github.com/partydeck/partydeck-server/internal/validation"
)

// ContentService manages the admin side of every content category.
type ContentService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewContentService creates a new content service.
func NewContentService(store store.Store, validator *validation.Validator, logger *slog.Logger) *ContentService {
	return &ContentService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CategoryItemRequest creates or updates a named category row.
// On update, only supplied fields change.
type CategoryItemRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=255"`
	SortOrder *int    `json:"sort_order,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// PoseRequest creates or updates a pose.
type PoseRequest struct {
	CategoryItemRequest
	ImagePath   *string `json:"image_path,omitempty" validate:"omitempty,max=512"`
	Description *string `json:"description,omitempty"`
}

// TaskRequest creates or updates a task.
type TaskRequest struct {
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// StoryOverview is every story element, active or not, for the admin story page.
type StoryOverview struct {
	MaleRoles     []domain.CategoryItem `json:"maleRoles"`
	FemaleRoles   []domain.CategoryItem `json:"femaleRoles"`
	Relationships []domain.CategoryItem `json:"relationships"`
	Initiatives   []domain.CategoryItem `json:"initiatives"`
	Behaviors     []domain.CategoryItem `json:"behaviors"`
	Actions       []domain.CategoryItem `json:"actions"`
}

// normalizeText trims and composes user-entered text to NFC, so the same
// label typed on different keyboards is stored identically.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func requiredField(field, label string) error {
	return domainerrors.ValidationWithDetails(validation.FailedMessage, map[string]string{
		field: label + " is required",
	})
}

func notFoundError(c domain.Category) error {
	return domainerrors.NotFoundf("%s not found", c.Label())
}

// translateNotFound maps store.ErrNotFound to the category's 404.
func translateNotFound(c domain.Category, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFoundError(c)
	}
	return err
}

func (s *ContentService) checkNamed(c domain.Category) error {
	if !c.Valid() || c == domain.CategoryPose || c == domain.CategoryTask {
		return fmt.Errorf("category %d has no named rows", c)
	}
	return nil
}

// ListItems returns every row of a named category, active or not.
func (s *ContentService) ListItems(ctx context.Context, c domain.Category) ([]domain.CategoryItem, error) {
	if err := s.checkNamed(c); err != nil {
		return nil, err
	}
	items, err := s.store.ListCategoryItems(ctx, c)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.CategoryItem{}
	}
	return items, nil
}

// GetItem returns one row of a named category.
func (s *ContentService) GetItem(ctx context.Context, c domain.Category, id int64) (*domain.CategoryItem, error) {
	if err := s.checkNamed(c); err != nil {
		return nil, err
	}
	item, err := s.store.GetCategoryItem(ctx, c, id)
	if err != nil {
		return nil, translateNotFound(c, err)
	}
	return item, nil
}

// CreateItem inserts a row into a named category. Name is required;
// sort_order defaults to 0 and is_active to true.
func (s *ContentService) CreateItem(ctx context.Context, c domain.Category, req CategoryItemRequest) (*domain.CategoryItem, error) {
	if err := s.checkNamed(c); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	name := ""
	if req.Name != nil {
		name = normalizeText(*req.Name)
	}
	if name == "" {
		return nil, requiredField("name", "Name")
	}

	item := &domain.CategoryItem{
		Name:      name,
		SortOrder: valueOr(req.SortOrder, 0),
		IsActive:  valueOr(req.IsActive, true),
	}
	if err := s.store.CreateCategoryItem(ctx, c, item); err != nil {
		return nil, fmt.Errorf("create %s: %w", c, err)
	}

	s.logger.Info("category item created", "category", c.String(), "id", item.ID)
	return item, nil
}

// UpdateItem applies a partial update. A missing row is a 404.
func (s *ContentService) UpdateItem(ctx context.Context, c domain.Category, id int64, req CategoryItemRequest) error {
	if _, err := s.GetItem(ctx, c, id); err != nil {
		return err
	}
	patch, err := s.categoryPatch(req)
	if err != nil {
		return err
	}
	if patch.Empty() {
		return nil
	}
	return s.store.UpdateCategoryItem(ctx, c, id, patch)
}

func (s *ContentService) categoryPatch(req CategoryItemRequest) (domain.CategoryPatch, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.CategoryPatch{}, err
	}

	patch := domain.CategoryPatch{SortOrder: req.SortOrder, IsActive: req.IsActive}
	if req.Name != nil {
		name := normalizeText(*req.Name)
		if name == "" {
			return domain.CategoryPatch{}, requiredField("name", "Name")
		}
		patch.Name = &name
	}
	return patch, nil
}

// DeleteItem removes a row from any category. A missing row is a 404.
// Preset rounds referencing the row resolve to null afterwards.
func (s *ContentService) DeleteItem(ctx context.Context, c domain.Category, id int64) error {
	if err := s.exists(ctx, c, id); err != nil {
		return err
	}
	if err := s.store.DeleteCategoryItem(ctx, c, id); err != nil {
		return err
	}

	s.logger.Info("category item deleted", "category", c.String(), "id", id)
	return nil
}

func (s *ContentService) exists(ctx context.Context, c domain.Category, id int64) error {
	var err error
	switch c {
	case domain.CategoryPose:
		_, err = s.store.GetPose(ctx, id)
	case domain.CategoryTask:
		_, err = s.store.GetTask(ctx, id)
	default:
		_, err = s.store.GetCategoryItem(ctx, c, id)
	}
	return translateNotFound(c, err)
}

// ListPoses returns every pose, active or not.
func (s *ContentService) ListPoses(ctx context.Context) ([]domain.Pose, error) {
	poses, err := s.store.ListPoses(ctx)
	if err != nil {
		return nil, err
	}
	if poses == nil {
		poses = []domain.Pose{}
	}
	return poses, nil
}

// GetPose returns one pose.
func (s *ContentService) GetPose(ctx context.Context, id int64) (*domain.Pose, error) {
	p, err := s.store.GetPose(ctx, id)
	if err != nil {
		return nil, translateNotFound(domain.CategoryPose, err)
	}
	return p, nil
}

// CreatePose inserts a pose. Empty image paths and descriptions are stored as null.
func (s *ContentService) CreatePose(ctx context.Context, req PoseRequest) (*domain.Pose, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	name := ""
	if req.Name != nil {
		name = normalizeText(*req.Name)
	}
	if name == "" {
		return nil, requiredField("name", "Name")
	}

	p := &domain.Pose{
		Name:        name,
		ImagePath:   trimmedOrNil(req.ImagePath),
		Description: trimmedOrNil(req.Description),
		SortOrder:   valueOr(req.SortOrder, 0),
		IsActive:    valueOr(req.IsActive, true),
	}
	if err := s.store.CreatePose(ctx, p); err != nil {
		return nil, fmt.Errorf("create pose: %w", err)
	}

	s.logger.Info("pose created", "id", p.ID)
	return p, nil
}

// UpdatePose applies a partial update. Sending an empty image_path or
// description clears it.
func (s *ContentService) UpdatePose(ctx context.Context, id int64, req PoseRequest) error {
	if _, err := s.GetPose(ctx, id); err != nil {
		return err
	}
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	base, err := s.categoryPatch(req.CategoryItemRequest)
	if err != nil {
		return err
	}

	patch := domain.PosePatch{CategoryPatch: base}
	if req.ImagePath != nil {
		v := strings.TrimSpace(*req.ImagePath)
		patch.ImagePath = &v
	}
	if req.Description != nil {
		v := normalizeText(*req.Description)
		patch.Description = &v
	}
	if patch.Empty() {
		return nil
	}
	return s.store.UpdatePose(ctx, id, patch)
}

// ListTasks returns every task, newest first.
func (s *ContentService) ListTasks(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// GetTask returns one task.
func (s *ContentService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, translateNotFound(domain.CategoryTask, err)
	}
	return t, nil
}

// CreateTask inserts a task. Description is required.
func (s *ContentService) CreateTask(ctx context.Context, req TaskRequest) (*domain.Task, error) {
	description := ""
	if req.Description != nil {
		description = normalizeText(*req.Description)
	}
	if description == "" {
		return nil, requiredField("description", "Description")
	}

	t := &domain.Task{
		Description: description,
		IsActive:    valueOr(req.IsActive, true),
	}
	if err := s.store.CreateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info("task created", "id", t.ID)
	return t, nil
}

// UpdateTask applies a partial update.
func (s *ContentService) UpdateTask(ctx context.Context, id int64, req TaskRequest) error {
	if _, err := s.GetTask(ctx, id); err != nil {
		return err
	}

	patch := domain.TaskPatch{IsActive: req.IsActive}
	if req.Description != nil {
		description := normalizeText(*req.Description)
		if description == "" {
			return requiredField("description", "Description")
		}
		patch.Description = &description
	}
	if patch.Empty() {
		return nil
	}
	return s.store.UpdateTask(ctx, id, patch)
}

// StoryOverview returns all six story element lists.
func (s *ContentService) StoryOverview(ctx context.Context) (*StoryOverview, error) {
	lists := make([][]domain.CategoryItem, 0, 6)
	for _, c := range domain.StoryCategories() {
		items, err := s.ListItems(ctx, c)
		if err != nil {
			return nil, err
		}
		lists = append(lists, items)
	}
	return &StoryOverview{
		MaleRoles:     lists[0],
		FemaleRoles:   lists[1],
		Relationships: lists[2],
		Initiatives:   lists[3],
		Behaviors:     lists[4],
		Actions:       lists[5],
	}, nil
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
