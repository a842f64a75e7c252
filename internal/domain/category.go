package domain

// Category identifies one of the twelve content tables.
type Category int

// Content categories. The order here is the order of the generation pools.
const (
	CategoryDiceAction Category = iota
	CategoryDicePart
	CategoryPose
	CategoryPlace
	CategoryTime
	CategoryTask
	CategoryMaleRole
	CategoryFemaleRole
	CategoryRelationship
	CategoryInitiative
	CategoryBehavior
	CategoryStoryAction
)

type categoryMeta struct {
	table   string
	label   string
	path    string
	formKey string
}

// Table names are compile-time constants; nothing user supplied reaches SQL text.
var categories = [...]categoryMeta{
	CategoryDiceAction:   {table: "dice_actions", label: "Action", path: "dice/actions", formKey: "actions"},
	CategoryDicePart:     {table: "dice_parts", label: "Part", path: "dice/parts", formKey: "parts"},
	CategoryPose:         {table: "zishi_poses", label: "Pose", path: "poses", formKey: "poses"},
	CategoryPlace:        {table: "zishi_places", label: "Place", path: "poses/places", formKey: "places"},
	CategoryTime:         {table: "zishi_times", label: "Time", path: "poses/times", formKey: "times"},
	CategoryTask:         {table: "tasks", label: "Task", path: "tasks", formKey: "tasks"},
	CategoryMaleRole:     {table: "story_male_roles", label: "Male role", path: "story/male-roles", formKey: "maleRoles"},
	CategoryFemaleRole:   {table: "story_female_roles", label: "Female role", path: "story/female-roles", formKey: "femaleRoles"},
	CategoryRelationship: {table: "story_relationships", label: "Relationship", path: "story/relationships", formKey: "relationships"},
	CategoryInitiative:   {table: "story_initiatives", label: "Initiative", path: "story/initiatives", formKey: "initiatives"},
	CategoryBehavior:     {table: "story_behaviors", label: "Behavior", path: "story/behaviors", formKey: "behaviors"},
	CategoryStoryAction:  {table: "story_actions", label: "Action", path: "story/actions", formKey: "storyActions"},
}

// Table returns the SQL table backing the category.
func (c Category) Table() string { return categories[c].table }

// Label is the singular noun used in response messages ("Place not found").
func (c Category) Label() string { return categories[c].label }

// Path is the admin route suffix under /admin.
func (c Category) Path() string { return categories[c].path }

// FormKey is the key the category is listed under in the preset form data.
func (c Category) FormKey() string { return categories[c].formKey }

func (c Category) String() string { return c.Table() }

// Valid reports whether c is a known category.
func (c Category) Valid() bool { return c >= 0 && int(c) < len(categories) }

// HasSortOrder is false only for tasks.
func (c Category) HasSortOrder() bool { return c != CategoryTask }

// AllCategories returns every category in pool order.
func AllCategories() []Category {
	out := make([]Category, len(categories))
	for i := range categories {
		out[i] = Category(i)
	}
	return out
}

// NamedCategories are the categories whose rows are plain {name, sort_order, is_active}.
// Poses and tasks have their own shapes.
func NamedCategories() []Category {
	return []Category{
		CategoryDiceAction, CategoryDicePart,
		CategoryPlace, CategoryTime,
		CategoryMaleRole, CategoryFemaleRole, CategoryRelationship,
		CategoryInitiative, CategoryBehavior, CategoryStoryAction,
	}
}

// StoryCategories are the six story element categories.
func StoryCategories() []Category {
	return []Category{
		CategoryMaleRole, CategoryFemaleRole, CategoryRelationship,
		CategoryInitiative, CategoryBehavior, CategoryStoryAction,
	}
}
