package onboarding

import (
	"sort"
	"time"

	"github.com/aura-dbt/backend/internal/catalog"
)

// State is a read-only snapshot of the manager for the driving UI. The
// manager remains the single source of truth; a snapshot does not track
// later mutations.
type State struct {
	Step            Step      `json:"step"`
	CanProceed      bool      `json:"canProceed"`
	Complete        bool      `json:"complete"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Age             int       `json:"age"`
	TakesMedication bool      `json:"takesMediation"`
	ReminderTime    time.Time `json:"reminderTime"`

	SelectedUrgeIndices   []int `json:"selectedUrgeIndices"`
	SelectedGoalIndices   []int `json:"selectedGoalIndices"`
	SelectedActionIndices []int `json:"selectedActionIndices"`

	// Standard selectable items followed by customs, in index order, so a
	// client can render the full choice list for each category.
	Urges   []catalog.Item `json:"urges"`
	Goals   []catalog.Item `json:"goals"`
	Actions []catalog.Item `json:"actions"`
}

func sortedIndices(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for i := range set {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// State returns the current snapshot.
func (m *Manager) State() State {
	return State{
		Step:            m.currentStep,
		CanProceed:      m.CanProceed(),
		Complete:        m.complete,
		FirstName:       m.firstName,
		LastName:        m.lastName,
		Age:             m.age,
		TakesMedication: m.takesMedication,
		ReminderTime:    m.reminderTime,

		SelectedUrgeIndices:   sortedIndices(m.selectedUrgeIndices),
		SelectedGoalIndices:   sortedIndices(m.selectedGoalIndices),
		SelectedActionIndices: sortedIndices(m.selectedActionIndices),

		Urges:   append(catalog.SelectableUrges(), m.customUrges...),
		Goals:   append(catalog.SelectableGoals(), m.customGoals...),
		Actions: append(catalog.SelectableActions(), m.customActions...),
	}
}
