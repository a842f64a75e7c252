package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/partydeck/partydeck-server/internal/domain"
	"github.com/partydeck/partydeck-server/internal/store"
)

type diceFixture struct {
	Actions []string `json:"actions" yaml:"actions"`
	Parts   []string `json:"parts" yaml:"parts"`
}

type poseDetail struct {
	Image       string `json:"image" yaml:"image"`
	Description string `json:"description" yaml:"description"`
}

type poseFixture struct {
	Places      []string              `json:"places" yaml:"places"`
	Times       []string              `json:"times" yaml:"times"`
	Poses       []string              `json:"poses" yaml:"poses"`
	PoseDetails map[string]poseDetail `json:"poseDetails" yaml:"poseDetails"`
}

type taskFixture struct {
	Tasks []struct {
		Description string `json:"description" yaml:"description"`
	} `json:"tasks" yaml:"tasks"`
}

// builtinStory holds the default story element lists.
var builtinStory = []struct {
	category domain.Category
	names    []string
}{
	{domain.CategoryMaleRole, []string{"快递员", "修水管道", "健身教练", "警察", "房东", "家教"}},
	{domain.CategoryFemaleRole, []string{"主播", "空姐", "学生", "主妇", "白领", "护士", "人妻", "贵妇", "女警", "女仆", "管家"}},
	{domain.CategoryRelationship, []string{"主雇", "兄妹", "姐弟", "母子", "父女", "陌生人", "朋友"}},
	{domain.CategoryInitiative, []string{"男方", "女方"}},
	{domain.CategoryBehavior, []string{"一见钟情", "性压抑"}},
	{domain.CategoryStoryAction, []string{"在写作业", "空姐", "女主播", "在做家务"}},
}

type seeder struct {
	store store.Store
	out   io.Writer
}

// readFixture decodes a .yaml/.yml file with yaml.v3 and anything else as JSON.
func readFixture(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// importNames inserts names as active rows, ordered by their position.
func (s *seeder) importNames(ctx context.Context, c domain.Category, names []string) error {
	for i, name := range names {
		item := &domain.CategoryItem{Name: name, SortOrder: i, IsActive: true}
		if err := s.store.CreateCategoryItem(ctx, c, item); err != nil {
			return fmt.Errorf("insert %s %q: %w", c, name, err)
		}
	}
	fmt.Fprintf(s.out, "  - Imported %d %s\n", len(names), c)
	return nil
}

func (s *seeder) importDice(ctx context.Context, path string) error {
	var f diceFixture
	if err := readFixture(path, &f); err != nil {
		return err
	}

	fmt.Fprintln(s.out, "Importing dice data...")
	if err := s.importNames(ctx, domain.CategoryDiceAction, f.Actions); err != nil {
		return err
	}
	return s.importNames(ctx, domain.CategoryDicePart, f.Parts)
}

func (s *seeder) importPoses(ctx context.Context, path string) error {
	var f poseFixture
	if err := readFixture(path, &f); err != nil {
		return err
	}

	fmt.Fprintln(s.out, "Importing pose data...")
	if err := s.importNames(ctx, domain.CategoryPlace, f.Places); err != nil {
		return err
	}
	if err := s.importNames(ctx, domain.CategoryTime, f.Times); err != nil {
		return err
	}

	for i, name := range f.Poses {
		detail := f.PoseDetails[name]
		pose := &domain.Pose{
			Name:        name,
			ImagePath:   optional(detail.Image),
			Description: optional(detail.Description),
			SortOrder:   i,
			IsActive:    true,
		}
		if err := s.store.CreatePose(ctx, pose); err != nil {
			return fmt.Errorf("insert pose %q: %w", name, err)
		}
	}
	fmt.Fprintf(s.out, "  - Imported %d %s\n", len(f.Poses), domain.CategoryPose)
	return nil
}

func (s *seeder) importTasks(ctx context.Context, path string) error {
	var f taskFixture
	if err := readFixture(path, &f); err != nil {
		return err
	}

	fmt.Fprintln(s.out, "Importing task data...")
	count := 0
	for _, t := range f.Tasks {
		if strings.TrimSpace(t.Description) == "" {
			continue
		}
		if err := s.store.CreateTask(ctx, &domain.Task{Description: t.Description, IsActive: true}); err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		count++
	}
	fmt.Fprintf(s.out, "  - Imported %d %s\n", count, domain.CategoryTask)
	return nil
}

// importStory replaces every story table with the built-in lists.
func (s *seeder) importStory(ctx context.Context) error {
	fmt.Fprintln(s.out, "Importing story data...")
	for _, list := range builtinStory {
		if err := s.store.ClearCategory(ctx, list.category); err != nil {
			return err
		}
		if err := s.importNames(ctx, list.category, list.names); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) reset(ctx context.Context) error {
	fmt.Fprintln(s.out, "Clearing content tables...")
	for _, c := range domain.AllCategories() {
		if err := s.store.ClearCategory(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) printCounts(ctx context.Context) error {
	fmt.Fprintln(s.out, "\nTable counts:")
	for _, c := range domain.AllCategories() {
		n, err := s.store.CountCategory(ctx, c)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "  - %s: %d\n", c, n)
	}

	admins, err := s.store.CountAdmins(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "  - admins: %d\n", admins)
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
