package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partydeck/partydeck-server/internal/domain"
	domainerrors "github.com/partydeck/partydeck-server/internal/errors"
)

func newContentService(t *testing.T) *ContentService {
	t.Helper()
	return NewContentService(newTestStore(t), newValidator(), testLogger())
}

func ptr[T any](v T) *T { return &v }

func TestContent_CreateItemDefaults(t *testing.T) {
	svc := newContentService(t)
	ctx := context.Background()

	// e + combining acute is stored as the single composed rune.
	item, err := svc.CreateItem(ctx, domain.CategoryPlace, CategoryItemRequest{Name: ptr("  cafe\u0301 ")})
	require.NoError(t, err)

	assert.Equal(t, "caf\u00e9", item.Name)
	assert.Equal(t, 0, item.SortOrder)
	assert.True(t, item.IsActive)

	got, err := svc.GetItem(ctx, domain.CategoryPlace, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Name, got.Name)
}

func TestContent_CreateItemRequiresName(t *testing.T) {
	svc := newContentService(t)

	for _, req := range []CategoryItemRequest{{}, {Name: ptr("   ")}} {
		_, err := svc.CreateItem(context.Background(), domain.CategoryDiceAction, req)
		de := requireDomainError(t, err, domainerrors.CodeValidation, "Validation failed")
		assert.Equal(t, map[string]string{"name": "Name is required"}, de.Details)
	}
}

func TestContent_UpdateAndDeleteItem(t *testing.T) {
	svc := newContentService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, domain.CategoryMaleRole, CategoryItemRequest{Name: ptr("快递员"), SortOrder: ptr(3)})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateItem(ctx, domain.CategoryMaleRole, item.ID, CategoryItemRequest{IsActive: ptr(false)}))

	got, err := svc.GetItem(ctx, domain.CategoryMaleRole, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "快递员", got.Name)
	assert.Equal(t, 3, got.SortOrder)
	assert.False(t, got.IsActive)

	err = svc.UpdateItem(ctx, domain.CategoryMaleRole, item.ID, CategoryItemRequest{Name: ptr("")})
	requireDomainError(t, err, domainerrors.CodeValidation, "")

	require.NoError(t, svc.DeleteItem(ctx, domain.CategoryMaleRole, item.ID))

	_, err = svc.GetItem(ctx, domain.CategoryMaleRole, item.ID)
	requireDomainError(t, err, domainerrors.CodeNotFound, "Male role not found")
}

func TestContent_MissingIDs(t *testing.T) {
	svc := newContentService(t)
	ctx := context.Background()

	tests := []struct {
		category domain.Category
		message  string
	}{
		{domain.CategoryDicePart, "Part not found"},
		{domain.CategoryPose, "Pose not found"},
		{domain.CategoryTask, "Task not found"},
		{domain.CategoryStoryAction, "Action not found"},
	}
	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			err := svc.DeleteItem(ctx, tt.category, 999)
			requireDomainError(t, err, domainerrors.CodeNotFound, tt.message)
		})
	}

	err := svc.UpdateItem(ctx, domain.CategoryTime, 42, CategoryItemRequest{Name: ptr("深夜")})
	requireDomainError(t, err, domainerrors.CodeNotFound, "Time not found")

	err = svc.UpdatePose(ctx, 42, PoseRequest{Description: ptr("x")})
	requireDomainError(t, err, domainerrors.CodeNotFound, "Pose not found")

	err = svc.UpdateTask(ctx, 42, TaskRequest{IsActive: ptr(true)})
	requireDomainError(t, err, domainerrors.CodeNotFound, "Task not found")
}

func TestContent_NamedOperationsRejectPosesAndTasks(t *testing.T) {
	svc := newContentService(t)

	_, err := svc.ListItems(context.Background(), domain.CategoryTask)
	assert.Error(t, err)

	_, err = svc.CreateItem(context.Background(), domain.CategoryPose, CategoryItemRequest{Name: ptr("x")})
	assert.Error(t, err)
}

func TestContent_Poses(t *testing.T) {
	svc := newContentService(t)
	ctx := context.Background()

	p, err := svc.CreatePose(ctx, PoseRequest{
		CategoryItemRequest: CategoryItemRequest{Name: ptr("传教士")},
		ImagePath:           ptr("images/a.png"),
		Description:         ptr("  "),
	})
	require.NoError(t, err)
	require.NotNil(t, p.ImagePath)
	assert.Equal(t, "images/a.png", *p.ImagePath)
	assert.Nil(t, p.Description)

	require.NoError(t, svc.UpdatePose(ctx, p.ID, PoseRequest{ImagePath: ptr(""), Description: ptr("经典")}))

	got, err := svc.GetPose(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ImagePath)
	require.NotNil(t, got.Description)
	assert.Equal(t, "经典", *got.Description)

	_, err = svc.CreatePose(ctx, PoseRequest{})
	requireDomainError(t, err, domainerrors.CodeValidation, "")

	poses, err := svc.ListPoses(ctx)
	require.NoError(t, err)
	assert.Len(t, poses, 1)
}

func TestContent_Tasks(t *testing.T) {
	svc := newContentService(t)
	ctx := context.Background()

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	_, err = svc.CreateTask(ctx, TaskRequest{})
	de := requireDomainError(t, err, domainerrors.CodeValidation, "")
	assert.Equal(t, map[string]string{"description": "Description is required"}, de.Details)

	first, err := svc.CreateTask(ctx, TaskRequest{Description: ptr("喝一杯")})
	require.NoError(t, err)
	second, err := svc.CreateTask(ctx, TaskRequest{Description: ptr("唱首歌"), IsActive: ptr(false)})
	require.NoError(t, err)

	tasks, err = svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, second.ID, tasks[0].ID, "tasks list newest first")
	assert.Equal(t, first.ID, tasks[1].ID)

	require.NoError(t, svc.UpdateTask(ctx, first.ID, TaskRequest{Description: ptr("喝两杯")}))
	got, err := svc.GetTask(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "喝两杯", got.Description)

	require.NoError(t, svc.DeleteItem(ctx, domain.CategoryTask, second.ID))
	_, err = svc.GetTask(ctx, second.ID)
	requireDomainError(t, err, domainerrors.CodeNotFound, "Task not found")
}

func TestContent_StoryOverview(t *testing.T) {
	s := newTestStore(t)
	svc := NewContentService(s, newValidator(), testLogger())
	ctx := context.Background()

	seedNamed(t, s, domain.CategoryMaleRole, "快递员", "警察")
	ids := seedNamed(t, s, domain.CategoryStoryAction, "在写作业")
	require.NoError(t, s.UpdateCategoryItem(ctx, domain.CategoryStoryAction, ids[0],
		domain.CategoryPatch{IsActive: ptr(false)}))

	overview, err := svc.StoryOverview(ctx)
	require.NoError(t, err)
	assert.Len(t, overview.MaleRoles, 2)
	assert.Len(t, overview.Actions, 1, "inactive rows are listed for admins")
	assert.NotNil(t, overview.Behaviors)
	assert.Empty(t, overview.Behaviors)
}
