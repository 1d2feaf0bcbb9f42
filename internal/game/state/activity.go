package state

import (
	"errors"
	"fmt"
	"strings"
)

// ActivityType tags the ActivityParams variant.
type ActivityType string

const (
	ActivityIdle     ActivityType = "idle"
	ActivityRecovery ActivityType = "recovery"
	ActivityHunt     ActivityType = "hunt"
	ActivityGather   ActivityType = "gather"
	ActivityCraft    ActivityType = "craft"
	ActivityTrain    ActivityType = "train"
	ActivityTrade    ActivityType = "trade"
	ActivityExplore  ActivityType = "explore"
	ActivityQuest    ActivityType = "quest"
)

// RecoveryDurationMs is how long a player recovers after losing a fight.
const RecoveryDurationMs int64 = 60000

// ErrInvalidActivity is wrapped by every ActivityParams.Validate failure.
var ErrInvalidActivity = errors.New("invalid activity")

// ActivityParams is a closed tagged variant. Type selects the variant; only
// the fields listed for that variant may be set.
//
//	idle      -
//	recovery  DurationMs
//	hunt      LocationID
//	gather    LocationID
//	explore   LocationID
//	trade     LocationID
//	craft     RecipeID, optional LocationID
//	train     SkillID, optional LocationID
//	quest     QuestID
type ActivityParams struct {
	Type       ActivityType `json:"type"`
	LocationID string       `json:"locationId,omitempty"`
	RecipeID   string       `json:"recipeId,omitempty"`
	SkillID    string       `json:"skillId,omitempty"`
	DurationMs int64        `json:"durationMs,omitempty"`
	QuestID    string       `json:"questId,omitempty"`
}

func Idle() ActivityParams { return ActivityParams{Type: ActivityIdle} }

func Recovery(durationMs int64) ActivityParams {
	return ActivityParams{Type: ActivityRecovery, DurationMs: durationMs}
}

func Hunt(locationID string) ActivityParams {
	return ActivityParams{Type: ActivityHunt, LocationID: locationID}
}

func Gather(locationID string) ActivityParams {
	return ActivityParams{Type: ActivityGather, LocationID: locationID}
}

func Explore(locationID string) ActivityParams {
	return ActivityParams{Type: ActivityExplore, LocationID: locationID}
}

func Trade(locationID string) ActivityParams {
	return ActivityParams{Type: ActivityTrade, LocationID: locationID}
}

func Craft(recipeID string) ActivityParams {
	return ActivityParams{Type: ActivityCraft, RecipeID: recipeID}
}

func Train(skillID string) ActivityParams {
	return ActivityParams{Type: ActivityTrain, SkillID: skillID}
}

func Quest(questID string) ActivityParams {
	return ActivityParams{Type: ActivityQuest, QuestID: questID}
}

type fieldRule uint8

const (
	forbidden fieldRule = iota
	optional
	required
)

type variantRules struct {
	location, recipe, skill, duration, quest fieldRule
}

var variants = map[ActivityType]variantRules{
	ActivityIdle:     {},
	ActivityRecovery: {duration: required},
	ActivityHunt:     {location: required},
	ActivityGather:   {location: required},
	ActivityExplore:  {location: required},
	ActivityTrade:    {location: required},
	ActivityCraft:    {recipe: required, location: optional},
	ActivityTrain:    {skill: required, location: optional},
	ActivityQuest:    {quest: required},
}

// Validate checks that p is a well-formed variant.
//
// Postcondition: Returns nil, or an error wrapping ErrInvalidActivity that
// names every missing or foreign field.
func (p ActivityParams) Validate() error {
	rules, ok := variants[p.Type]
	if !ok {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidActivity, p.Type)
	}

	var errs []string
	check := func(name string, rule fieldRule, set bool) {
		switch {
		case rule == required && !set:
			errs = append(errs, name+" is required")
		case rule == forbidden && set:
			errs = append(errs, name+" is not allowed")
		}
	}
	check("locationId", rules.location, p.LocationID != "")
	check("recipeId", rules.recipe, p.RecipeID != "")
	check("skillId", rules.skill, p.SkillID != "")
	check("durationMs", rules.duration, p.DurationMs != 0)
	check("questId", rules.quest, p.QuestID != "")
	if p.DurationMs < 0 {
		errs = append(errs, "durationMs must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s: %s", ErrInvalidActivity, p.Type, strings.Join(errs, "; "))
	}
	return nil
}
