package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partydeck/partydeck-server/internal/domain"
	"github.com/partydeck/partydeck-server/internal/logger"
	"github.com/partydeck/partydeck-server/internal/store/sqlite"
)

func setupSeeder(t *testing.T) (*seeder, *sqlite.Store, *bytes.Buffer) {
	t.Helper()
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "seed.db"), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	var out bytes.Buffer
	return &seeder{store: st, out: &out}, st, &out
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImportDice_JSON(t *testing.T) {
	s, st, out := setupSeeder(t)
	ctx := context.Background()

	path := writeFixture(t, "touzi.json", `{
	"actions": ["亲", "摸", "舔"],
	"parts": ["嘴", "耳朵"]
}`)
	require.NoError(t, s.importDice(ctx, path))

	actions, err := st.ListCategoryItems(ctx, domain.CategoryDiceAction)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	for i, a := range actions {
		assert.Equal(t, i, a.SortOrder)
		assert.True(t, a.IsActive)
	}
	assert.Equal(t, "舔", actions[2].Name)
	assert.Contains(t, out.String(), "Imported 2 dice_parts")
}

func TestImportPoses_YAML(t *testing.T) {
	s, st, _ := setupSeeder(t)
	ctx := context.Background()

	path := writeFixture(t, "zishi.yaml", `
places: [卧室, 浴室]
times: [五分钟]
poses: [传教士, 观音坐莲]
poseDetails:
  传教士:
    image: images/a.png
    description: 经典
`)
	require.NoError(t, s.importPoses(ctx, path))

	poses, err := st.ListPoses(ctx)
	require.NoError(t, err)
	require.Len(t, poses, 2)
	require.NotNil(t, poses[0].ImagePath)
	assert.Equal(t, "images/a.png", *poses[0].ImagePath)
	assert.Equal(t, "经典", *poses[0].Description)
	assert.Nil(t, poses[1].ImagePath)
	assert.Nil(t, poses[1].Description)

	places, err := st.CountCategory(ctx, domain.CategoryPlace)
	require.NoError(t, err)
	assert.Equal(t, 2, places)
}

func TestImportTasks_SkipsBlankDescriptions(t *testing.T) {
	s, st, out := setupSeeder(t)
	ctx := context.Background()

	path := writeFixture(t, "18.json", `{"tasks": [
		{"description": "喝一杯"},
		{"description": "  "},
		{"title": "no description"},
		{"description": "唱首歌"}
	]}`)
	require.NoError(t, s.importTasks(ctx, path))

	tasks, err := st.ListActiveTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "喝一杯", tasks[0].Description)
	assert.Contains(t, out.String(), "Imported 2 tasks")
}

func TestImportStory_ReplacesExisting(t *testing.T) {
	s, st, _ := setupSeeder(t)
	ctx := context.Background()

	require.NoError(t, st.CreateCategoryItem(ctx, domain.CategoryBehavior, &domain.CategoryItem{Name: "旧的", IsActive: true}))

	require.NoError(t, s.importStory(ctx))
	require.NoError(t, s.importStory(ctx))

	for _, list := range builtinStory {
		n, err := st.CountCategory(ctx, list.category)
		require.NoError(t, err)
		assert.Equal(t, len(list.names), n, list.category.String())
	}
}

func TestReset_ClearsAllContent(t *testing.T) {
	s, st, out := setupSeeder(t)
	ctx := context.Background()

	require.NoError(t, s.importStory(ctx))
	require.NoError(t, st.CreateTask(ctx, &domain.Task{Description: "x", IsActive: true}))

	require.NoError(t, s.reset(ctx))
	require.NoError(t, s.printCounts(ctx))

	for _, c := range domain.AllCategories() {
		n, err := st.CountCategory(ctx, c)
		require.NoError(t, err)
		assert.Zero(t, n, c.String())
	}
	assert.Contains(t, out.String(), "admins: 0")
}

func TestReadFixture_Errors(t *testing.T) {
	var f diceFixture

	err := readFixture(filepath.Join(t.TempDir(), "missing.json"), &f)
	assert.ErrorContains(t, err, "read")

	err = readFixture(writeFixture(t, "bad.json", "{not json"), &f)
	assert.ErrorContains(t, err, "parse")
}
