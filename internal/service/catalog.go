package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/partydeck/partydeck-server/internal/domain"
	domainerrors "github.com/partydeck/partydeck-server/internal/errors"
	"github.com/partydeck/partydeck-server/internal/store"
)

// Public catalog messages.
const (
	msgNoTasks        = "No tasks available"
	msgNotEnoughStory = "Not enough story data available"
)

// CatalogService serves the active content to the game pages. It only reads.
type CatalogService struct {
	store  store.Store
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store store.Store, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: logger,
	}
}

// DiceFaces lists the names on the two dice.
type DiceFaces struct {
	Actions []string `json:"actions"`
	Parts   []string `json:"parts"`
}

// PoseDetail is the extra information shown when a pose is drawn.
type PoseDetail struct {
	Image       *string `json:"image"`
	Description *string `json:"description"`
}

// PoseWheel lists the names on the three pose wheels, plus per-pose details.
type PoseWheel struct {
	Places      []string              `json:"places"`
	Poses       []string              `json:"poses"`
	Times       []string              `json:"times"`
	PoseDetails map[string]PoseDetail `json:"poseDetails"`
}

// StoryElements lists the names of every active story element.
type StoryElements struct {
	MaleRoles     []string `json:"maleRoles"`
	FemaleRoles   []string `json:"femaleRoles"`
	Relationships []string `json:"relationships"`
	Initiatives   []string `json:"initiatives"`
	Behaviors     []string `json:"behaviors"`
	Actions       []string `json:"actions"`
}

// StoryDraw is one randomly drawn story.
type StoryDraw struct {
	MaleRole     string `json:"maleRole"`
	FemaleRole   string `json:"femaleRole"`
	Relationship string `json:"relationship"`
	Initiative   string `json:"initiative"`
	Behavior     string `json:"behavior"`
	Action       string `json:"action"`
}

func (s *CatalogService) activeNames(ctx context.Context, c domain.Category) ([]string, error) {
	items, err := s.store.ListActiveCategoryItems(ctx, c)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names, nil
}

// Dice returns the active dice actions and parts.
func (s *CatalogService) Dice(ctx context.Context) (*DiceFaces, error) {
	actions, err := s.activeNames(ctx, domain.CategoryDiceAction)
	if err != nil {
		return nil, err
	}
	parts, err := s.activeNames(ctx, domain.CategoryDicePart)
	if err != nil {
		return nil, err
	}
	return &DiceFaces{Actions: actions, Parts: parts}, nil
}

// Poses returns the active places, poses and times. When two poses share a
// name, the later one's details win.
func (s *CatalogService) Poses(ctx context.Context) (*PoseWheel, error) {
	places, err := s.activeNames(ctx, domain.CategoryPlace)
	if err != nil {
		return nil, err
	}
	times, err := s.activeNames(ctx, domain.CategoryTime)
	if err != nil {
		return nil, err
	}
	poses, err := s.store.ListActivePoses(ctx)
	if err != nil {
		return nil, err
	}

	wheel := &PoseWheel{
		Places:      places,
		Poses:       make([]string, len(poses)),
		Times:       times,
		PoseDetails: make(map[string]PoseDetail, len(poses)),
	}
	for i, p := range poses {
		wheel.Poses[i] = p.Name
		wheel.PoseDetails[p.Name] = PoseDetail{Image: p.ImagePath, Description: p.Description}
	}
	return wheel, nil
}

// Tasks returns the active tasks, oldest first.
func (s *CatalogService) Tasks(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.store.ListActiveTasks(ctx)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// RandomTask returns one active task chosen uniformly.
func (s *CatalogService) RandomTask(ctx context.Context) (*domain.Task, error) {
	t, err := s.store.RandomTask(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound(msgNoTasks)
	}
	return t, err
}

// Story returns the names of all active story elements.
func (s *CatalogService) Story(ctx context.Context) (*StoryElements, error) {
	lists := make([][]string, 0, 6)
	for _, c := range domain.StoryCategories() {
		names, err := s.activeNames(ctx, c)
		if err != nil {
			return nil, err
		}
		lists = append(lists, names)
	}
	return &StoryElements{
		MaleRoles:     lists[0],
		FemaleRoles:   lists[1],
		Relationships: lists[2],
		Initiatives:   lists[3],
		Behaviors:     lists[4],
		Actions:       lists[5],
	}, nil
}

// RandomStory draws one active element of each story category. Any empty
// category fails the whole draw.
func (s *CatalogService) RandomStory(ctx context.Context) (*StoryDraw, error) {
	picked := make([]string, 0, 6)
	for _, c := range domain.StoryCategories() {
		item, err := s.store.RandomCategoryItem(ctx, c)
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.BadRequest(msgNotEnoughStory)
		}
		if err != nil {
			return nil, err
		}
		picked = append(picked, item.Name)
	}
	return &StoryDraw{
		MaleRole:     picked[0],
		FemaleRole:   picked[1],
		Relationship: picked[2],
		Initiative:   picked[3],
		Behavior:     picked[4],
		Action:       picked[5],
	}, nil
}
