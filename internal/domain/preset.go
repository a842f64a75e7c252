package domain

import "time"

// DefaultRounds is used when a preset or generation request omits a round count.
const DefaultRounds = 5

// MaxGeneratedRounds caps a single generation request.
const MaxGeneratedRounds = 100

// Preset is a named, shareable sequence of rounds.
type Preset struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ShareCode string    `json:"share_code"`
	Rounds    int       `json:"rounds"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoundSpec is one round of a preset as stored: a round number plus nullable
// references into each category. It is also the shape returned by generation.
type RoundSpec struct {
	RoundNumber         int    `json:"round_number"`
	DiceActionID        *int64 `json:"dice_action_id" required:"false" nullable:"true"`
	DicePartID          *int64 `json:"dice_part_id" required:"false" nullable:"true"`
	PoseID              *int64 `json:"pose_id" required:"false" nullable:"true"`
	PlaceID             *int64 `json:"place_id" required:"false" nullable:"true"`
	TimeID              *int64 `json:"time_id" required:"false" nullable:"true"`
	TaskID              *int64 `json:"task_id" required:"false" nullable:"true"`
	StoryMaleRoleID     *int64 `json:"story_male_role_id" required:"false" nullable:"true"`
	StoryFemaleRoleID   *int64 `json:"story_female_role_id" required:"false" nullable:"true"`
	StoryRelationshipID *int64 `json:"story_relationship_id" required:"false" nullable:"true"`
	StoryInitiativeID   *int64 `json:"story_initiative_id" required:"false" nullable:"true"`
	StoryBehaviorID     *int64 `json:"story_behavior_id" required:"false" nullable:"true"`
	StoryActionID       *int64 `json:"story_action_id" required:"false" nullable:"true"`
}

// Ref returns a pointer to the reference field for the given category.
func (r *RoundSpec) Ref(c Category) **int64 {
	switch c {
	case CategoryDiceAction:
		return &r.DiceActionID
	case CategoryDicePart:
		return &r.DicePartID
	case CategoryPose:
		return &r.PoseID
	case CategoryPlace:
		return &r.PlaceID
	case CategoryTime:
		return &r.TimeID
	case CategoryTask:
		return &r.TaskID
	case CategoryMaleRole:
		return &r.StoryMaleRoleID
	case CategoryFemaleRole:
		return &r.StoryFemaleRoleID
	case CategoryRelationship:
		return &r.StoryRelationshipID
	case CategoryInitiative:
		return &r.StoryInitiativeID
	case CategoryBehavior:
		return &r.StoryBehaviorID
	case CategoryStoryAction:
		return &r.StoryActionID
	default:
		return nil
	}
}

// ResolvedRound is a stored round joined to the rows it references.
// A reference whose row has since been deleted resolves to null.
type ResolvedRound struct {
	RoundNumber           int     `json:"round_number"`
	DiceActionName        *string `json:"dice_action_name"`
	DicePartName          *string `json:"dice_part_name"`
	PoseName              *string `json:"pose_name"`
	PoseImage             *string `json:"pose_image"`
	PoseDescription       *string `json:"pose_description"`
	PlaceName             *string `json:"place_name"`
	TimeName              *string `json:"time_name"`
	TaskDescription       *string `json:"task_description"`
	StoryMaleRoleName     *string `json:"story_male_role_name"`
	StoryFemaleRoleName   *string `json:"story_female_role_name"`
	StoryRelationshipName *string `json:"story_relationship_name"`
	StoryInitiativeName   *string `json:"story_initiative_name"`
	StoryBehaviorName     *string `json:"story_behavior_name"`
	StoryActionName       *string `json:"story_action_name"`
}

// PresetPatch is a partial preset update. When ReplaceRounds is set,
// RoundsData (possibly empty) replaces every stored round.
type PresetPatch struct {
	Name          *string
	Rounds        *int
	IsActive      *bool
	RoundsData    []RoundSpec
	ReplaceRounds bool
}
