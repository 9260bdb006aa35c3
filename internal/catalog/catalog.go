// Package catalog defines the static DBT tracking catalogs: the urges,
// emotions, goals and actions a diary card can cover. Items are plain values;
// user-authored items are built with the Custom* constructors and carry a
// caller-supplied id.
package catalog

// InputType describes how a tracked item is rated on a diary card.
type InputType string

const (
	// InputBinary is a yes/no answer (goals, actions, medication check-in).
	InputBinary InputType = "binary"
	// InputScale is a 0-10 rating (urges, emotions, skill usefulness).
	InputScale InputType = "scale"
	// InputText is free-form text (diary note).
	InputText InputType = "text"
)

// ScaleMin and ScaleMax bound every scale rating in the system.
const (
	ScaleMin = 0
	ScaleMax = 10
)

// Item is a single trackable catalog entry. Ids of standard items are stable
// strings; they end up in saved profiles and diary cards, so they must never
// change between releases.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	InputType InputType `json:"inputType"`
}

// Selection caps enforced during onboarding.
const (
	MaxSelectedUrges   = 2
	MaxSelectedGoals   = 2
	MaxSelectedActions = 3
)

// FixedUrges are tracked for every user on every diary card.
func FixedUrges() []Item {
	return []Item{
		{ID: "self-harm", Name: "Self Harm", InputType: InputScale},
		{ID: "suicide", Name: "Suicidal Thoughts", InputType: InputScale},
		{ID: "quit-dbt", Name: "Urge to Quit DBT", InputType: InputScale},
	}
}

// SelectableUrges is the pool a user picks from during onboarding.
func SelectableUrges() []Item {
	return []Item{
		{ID: "urge-isolate", Name: "Urge to Isolate", InputType: InputScale},
		{ID: "urge-substances", Name: "Urge to Use Substances", InputType: InputScale},
		{ID: "urge-eating", Name: "Urge to Restrict/Eat Emotionally", InputType: InputScale},
	}
}

// CoreEmotions are rated by every user every day; there is no selectable pool.
func CoreEmotions() []Item {
	return []Item{
		{ID: "emotion-joy", Name: "Joy", InputType: InputScale},
		{ID: "emotion-sadness", Name: "Sadness", InputType: InputScale},
		{ID: "emotion-anger", Name: "Anger", InputType: InputScale},
		{ID: "emotion-anxiety", Name: "Anxiety", InputType: InputScale},
		{ID: "emotion-shame", Name: "Shame", InputType: InputScale},
		{ID: "emotion-connection", Name: "Connection", InputType: InputScale},
	}
}

// SelectableGoals is the self-care goal pool offered during onboarding.
func SelectableGoals() []Item {
	return []Item{
		{ID: "goal-use-skill", Name: "Use a DBT Skill", InputType: InputBinary},
		{ID: "goal-reach-out", Name: "Reach Out to Someone Supportive", InputType: InputBinary},
		{ID: "goal-routine", Name: "Follow My Morning or Night Routine", InputType: InputBinary},
		{ID: "goal-nourish", Name: "Eat a Nourishing Meal", InputType: InputBinary},
		{ID: "goal-move", Name: "Move My Body (Stretch, Walk, etc.)", InputType: InputBinary},
		{ID: "goal-bed", Name: "Get Out of Bed", InputType: InputBinary},
		{ID: "goal-self-kindness", Name: "Be Kind to Myself When I Struggle", InputType: InputBinary},
		{ID: "goal-ask-help", Name: "Ask for Help When I Need It", InputType: InputBinary},
		{ID: "goal-self-care", Name: "Do Something Just for Me", InputType: InputBinary},
		{ID: "goal-values", Name: "Do One Thing That Aligns with My Values", InputType: InputBinary},
	}
}

// FixedActions are tracked for every user regardless of onboarding choices.
func FixedActions() []Item {
	return []Item{
		{ID: "action-self-harm", Name: "Self Harm", InputType: InputBinary},
		{ID: "action-suicide", Name: "Suicide Attempt", InputType: InputBinary},
	}
}

// SelectableActions is the risky-behavior pool offered during onboarding.
func SelectableActions() []Item {
	return []Item{
		{ID: "action-substance", Name: "Substance Use", InputType: InputBinary},
		{ID: "action-eating", Name: "Disordered Eating", InputType: InputBinary},
		{ID: "action-lashing-out", Name: "Lashing Out at Others", InputType: InputBinary},
		{ID: "action-withdrawal", Name: "Withdrawing from People", InputType: InputBinary},
		{ID: "action-risky-sex", Name: "Risky Sexual Behavior", InputType: InputBinary},
		{ID: "action-overspending", Name: "Overspending or Impulsive Shopping", InputType: InputBinary},
		{ID: "action-self-neglect", Name: "Self-Neglect", InputType: InputBinary},
		{ID: "action-avoidance", Name: "Avoiding Responsibilities", InputType: InputBinary},
		{ID: "action-breaking-rules", Name: "Breaking Rules or the Law", InputType: InputBinary},
	}
}

// CustomUrge builds a user-authored urge.
func CustomUrge(id, name string) Item {
	return Item{ID: id, Name: name, InputType: InputScale}
}

// CustomGoal builds a user-authored goal.
func CustomGoal(id, name string) Item {
	return Item{ID: id, Name: name, InputType: InputBinary}
}

// CustomAction builds a user-authored action.
func CustomAction(id, name string) Item {
	return Item{ID: id, Name: name, InputType: InputBinary}
}

// IDs returns the ids of items in order.
func IDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

// ByID finds an item by id in the given catalogs, checking them in order.
func ByID(id string, catalogs ...[]Item) (Item, bool) {
	for _, items := range catalogs {
		for _, item := range items {
			if item.ID == id {
				return item, true
			}
		}
	}
	return Item{}, false
}
