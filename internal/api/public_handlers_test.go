package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partydeck/partydeck-server/internal/domain"
	"github.com/partydeck/partydeck-server/internal/service"
)

func TestGetDice(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedNamed(t, domain.CategoryDiceAction, "亲", "摸")
	ts.seedNamed(t, domain.CategoryDicePart, "嘴")

	resp := ts.api.Get("/api/dice")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[service.DiceFaces](t, resp)
	assert.True(t, envelope.Success)
	assert.Equal(t, "Success", envelope.Message)
	assert.Equal(t, []string{"亲", "摸"}, envelope.Data.Actions)
	assert.Equal(t, []string{"嘴"}, envelope.Data.Parts)
}

func TestGetPoseWheel_EmptyListsAreArrays(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/poses")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"poses":[]`)
	assert.Contains(t, resp.Body.String(), `"poseDetails":{}`)
}

func TestTasks(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	resp := ts.api.Get("/api/tasks/random")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "No tasks available", decodeEnvelope[any](t, resp).Message)

	require.NoError(t, ts.store.CreateTask(ctx, &domain.Task{Description: "喝一杯", IsActive: true}))
	require.NoError(t, ts.store.CreateTask(ctx, &domain.Task{Description: "隐藏", IsActive: false}))

	resp = ts.api.Get("/api/tasks")
	require.Equal(t, http.StatusOK, resp.Code)
	tasks := decodeEnvelope[[]domain.Task](t, resp).Data
	require.Len(t, tasks, 1)
	assert.Equal(t, "喝一杯", tasks[0].Description)

	resp = ts.api.Get("/api/tasks/random")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "喝一杯", decodeEnvelope[domain.Task](t, resp).Data.Description)
}

func TestStory(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/story/random")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Not enough story data available", decodeEnvelope[any](t, resp).Message)

	names := []string{"快递员", "护士", "陌生人", "男方", "一见钟情", "在做家务"}
	for i, c := range domain.StoryCategories() {
		ts.seedNamed(t, c, names[i])
	}

	resp = ts.api.Get("/api/story")
	require.Equal(t, http.StatusOK, resp.Code)
	story := decodeEnvelope[service.StoryElements](t, resp).Data
	assert.Equal(t, []string{"快递员"}, story.MaleRoles)
	assert.Equal(t, []string{"在做家务"}, story.Actions)

	resp = ts.api.Get("/api/story/random")
	require.Equal(t, http.StatusOK, resp.Code)
	draw := decodeEnvelope[service.StoryDraw](t, resp).Data
	assert.Equal(t, "护士", draw.FemaleRole)
	assert.Equal(t, "一见钟情", draw.Behavior)
}

func TestGetSharedPreset(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.login(t)

	resp := ts.api.Post("/api/admin/presets", auth, map[string]any{"name": "天梯赛", "rounds": 3})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	code := decodeEnvelope[CreatePresetResponse](t, resp).Data.ShareCode

	resp = ts.api.Get("/api/preset/" + code)
	require.Equal(t, http.StatusOK, resp.Code)
	detail := decodeEnvelope[service.PresetDetail](t, resp).Data
	assert.Equal(t, "天梯赛", detail.Name)
	assert.Equal(t, 3, detail.Rounds)
	assert.NotNil(t, detail.RoundsData)
	assert.Contains(t, resp.Body.String(), `"rounds_data":[]`)
	assert.NotContains(t, resp.Body.String(), "round_specs")

	resp = ts.api.Get("/api/preset/missing1")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "预设不存在", decodeEnvelope[any](t, resp).Message)

	resp = ts.api.Get("/api/preset/bad-code")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
