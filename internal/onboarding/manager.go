// Package onboarding drives the one-time onboarding interview as a strictly
// linear step machine. It accumulates identity fields and capped selections,
// then materializes a UserProfile and hands it to the injected sink.
package onboarding

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aura-dbt/backend/internal/catalog"
	"github.com/aura-dbt/backend/internal/models"
)

// Step is one position in the fixed onboarding order.
type Step string

const (
	StepIntro       Step = "intro"
	StepFirstName   Step = "firstName"
	StepLastName    Step = "lastName"
	StepAge         Step = "age"
	StepMedications Step = "medications"
	StepUrges       Step = "urges"
	StepGoals       Step = "goals"
	StepActions     Step = "actions"
	StepReminder    Step = "reminder"
	StepSuccess     Step = "success"
)

var stepOrder = []Step{
	StepIntro, StepFirstName, StepLastName, StepAge, StepMedications,
	StepUrges, StepGoals, StepActions, StepReminder, StepSuccess,
}

// MinAge is the youngest age the interview accepts.
const MinAge = 13

const defaultAge = 18

// SelectionOutcome reports what a toggle call did. Toggles never error; a
// rejected insert is an outcome, not a failure.
type SelectionOutcome string

const (
	SelectionAdded        SelectionOutcome = "added"
	SelectionRemoved      SelectionOutcome = "removed"
	SelectionLimitReached SelectionOutcome = "limit_reached"
)

// ErrCompletionInFlight is returned when CompleteOnboarding is called while
// a previous call on the same manager has not finished.
var ErrCompletionInFlight = errors.New("onboarding completion already in flight")

// ErrAlreadyComplete is returned when CompleteOnboarding is called again
// after a successful completion. Reset starts the flow over.
var ErrAlreadyComplete = errors.New("onboarding already completed")

// ProfileSink receives the finished profile. Implemented by the profile
// store; mocked in tests.
type ProfileSink interface {
	SaveProfile(ctx context.Context, profile *models.UserProfile) error
}

// Manager is a single-owner, single-goroutine state container. It does no
// internal locking; the session layer serializes access to it.
type Manager struct {
	firstName       string
	lastName        string
	age             int
	takesMedication bool
	reminderTime    time.Time

	// Selections are indices into the conceptual standard+custom
	// concatenation for each category; converted to ids at completion.
	selectedUrgeIndices   map[int]struct{}
	selectedGoalIndices   map[int]struct{}
	selectedActionIndices map[int]struct{}

	customUrges   []catalog.Item
	customGoals   []catalog.Item
	customActions []catalog.Item

	currentStep Step
	complete    bool
	completing  bool

	listeners []func(Step)
	logger    *zap.Logger
}

// NewManager returns a manager positioned at the intro step with default
// field values.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{logger: logger}
	m.reset()
	return m
}

func (m *Manager) reset() {
	m.firstName = ""
	m.lastName = ""
	m.age = defaultAge
	m.takesMedication = false
	m.reminderTime = time.Now()
	m.selectedUrgeIndices = make(map[int]struct{})
	m.selectedGoalIndices = make(map[int]struct{})
	m.selectedActionIndices = make(map[int]struct{})
	m.customUrges = nil
	m.customGoals = nil
	m.customActions = nil
	m.currentStep = StepIntro
	m.complete = false
}

// Reset restores all fields to initial defaults. Used for a fresh start and
// on logout.
func (m *Manager) Reset() {
	m.reset()
	m.notify()
}

// OnStepChange registers fn to be called whenever the current step changes.
func (m *Manager) OnStepChange(fn func(Step)) {
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) notify() {
	for _, fn := range m.listeners {
		fn(m.currentStep)
	}
}

func (m *Manager) stepIndex() int {
	for i, s := range stepOrder {
		if s == m.currentStep {
			return i
		}
	}
	return 0
}

// Step returns the current step.
func (m *Manager) Step() Step { return m.currentStep }

// IsComplete reports whether onboarding finished successfully.
func (m *Manager) IsComplete() bool { return m.complete }

// NextStep advances one position. No-op at the terminal step; it does not
// check CanProceed; callers gate on that before advancing.
func (m *Manager) NextStep() Step {
	if i := m.stepIndex(); i < len(stepOrder)-1 {
		m.currentStep = stepOrder[i+1]
		m.notify()
	}
	return m.currentStep
}

// PreviousStep moves back one position. No-op at the initial step.
func (m *Manager) PreviousStep() Step {
	if i := m.stepIndex(); i > 0 {
		m.currentStep = stepOrder[i-1]
		m.notify()
	}
	return m.currentStep
}

// Field setters.

func (m *Manager) SetFirstName(v string)       { m.firstName = v }
func (m *Manager) SetLastName(v string)        { m.lastName = v }
func (m *Manager) SetAge(v int)                { m.age = v }
func (m *Manager) SetTakesMedication(v bool)   { m.takesMedication = v }
func (m *Manager) SetReminderTime(t time.Time) { m.reminderTime = t }

func toggle(set map[int]struct{}, index, limit int) SelectionOutcome {
	if _, ok := set[index]; ok {
		delete(set, index)
		return SelectionRemoved
	}
	if len(set) >= limit {
		return SelectionLimitReached
	}
	set[index] = struct{}{}
	return SelectionAdded
}

// ToggleUrgeSelection toggles index in the urge selection set, capped at two
// members. Removal always succeeds.
func (m *Manager) ToggleUrgeSelection(index int) SelectionOutcome {
	return toggle(m.selectedUrgeIndices, index, catalog.MaxSelectedUrges)
}

// ToggleGoalSelection toggles index in the goal selection set, capped at two.
func (m *Manager) ToggleGoalSelection(index int) SelectionOutcome {
	return toggle(m.selectedGoalIndices, index, catalog.MaxSelectedGoals)
}

// ToggleActionSelection toggles index in the action selection set, capped at
// three.
func (m *Manager) ToggleActionSelection(index int) SelectionOutcome {
	return toggle(m.selectedActionIndices, index, catalog.MaxSelectedActions)
}

// AddCustomUrge creates a user-authored urge with a fresh id, appends it and
// selects it. Custom items occupy the index space immediately after the
// standard selectable catalog, so the new item's index is standard length
// plus its position in the custom list.
func (m *Manager) AddCustomUrge(name string) catalog.Item {
	item := catalog.CustomUrge(uuid.NewString(), name)
	m.customUrges = append(m.customUrges, item)
	m.selectedUrgeIndices[len(catalog.SelectableUrges())+len(m.customUrges)-1] = struct{}{}
	return item
}

// AddCustomGoal creates, appends and auto-selects a user-authored goal.
func (m *Manager) AddCustomGoal(name string) catalog.Item {
	item := catalog.CustomGoal(uuid.NewString(), name)
	m.customGoals = append(m.customGoals, item)
	m.selectedGoalIndices[len(catalog.SelectableGoals())+len(m.customGoals)-1] = struct{}{}
	return item
}

// AddCustomAction creates, appends and auto-selects a user-authored action.
func (m *Manager) AddCustomAction(name string) catalog.Item {
	item := catalog.CustomAction(uuid.NewString(), name)
	m.customActions = append(m.customActions, item)
	m.selectedActionIndices[len(catalog.SelectableActions())+len(m.customActions)-1] = struct{}{}
	return item
}

// CanProceed reports whether the current step's inputs are valid. Advisory:
// NextStep does not consult it.
func (m *Manager) CanProceed() bool {
	switch m.currentStep {
	case StepFirstName:
		return strings.TrimSpace(m.firstName) != ""
	case StepLastName:
		return strings.TrimSpace(m.lastName) != ""
	case StepAge:
		return m.age >= MinAge
	case StepUrges:
		return len(m.selectedUrgeIndices) == catalog.MaxSelectedUrges
	case StepGoals:
		return len(m.selectedGoalIndices) == catalog.MaxSelectedGoals
	case StepActions:
		return len(m.selectedActionIndices) == catalog.MaxSelectedActions
	case StepSuccess:
		return m.complete
	default:
		return true
	}
}

// selectionIDs converts an index set into item ids. Indices below the
// standard length map into the standard catalog; the remainder index the
// custom list. Out-of-range custom indices contribute nothing.
func selectionIDs(indices map[int]struct{}, standard, custom []catalog.Item) []string {
	sorted := make([]int, 0, len(indices))
	for i := range indices {
		sorted = append(sorted, i)
	}
	sort.Ints(sorted)

	ids := make([]string, 0, len(sorted))
	for _, i := range sorted {
		if i < len(standard) {
			ids = append(ids, standard[i].ID)
			continue
		}
		if ci := i - len(standard); ci < len(custom) {
			ids = append(ids, custom[ci].ID)
		}
	}
	return ids
}

func toCustomItems(items []catalog.Item) models.CustomItemList {
	out := make(models.CustomItemList, len(items))
	for i, item := range items {
		out[i] = models.CustomItem{ID: item.ID, Name: item.Name, InputType: string(item.InputType)}
	}
	return out
}

// CompleteOnboarding converts the accumulated state into a UserProfile and
// saves it through sink. The complete flag is set only after a successful
// save; a sink error is returned unchanged and the accumulated state stays
// intact so the caller can retry.
func (m *Manager) CompleteOnboarding(ctx context.Context, userID uuid.UUID, sink ProfileSink) (*models.UserProfile, error) {
	if m.completing {
		return nil, ErrCompletionInFlight
	}
	if m.complete {
		return nil, ErrAlreadyComplete
	}
	m.completing = true
	defer func() { m.completing = false }()

	now := time.Now()
	profile := &models.UserProfile{
		ID:              uuid.New(),
		UserID:          userID,
		FirstName:       m.firstName,
		LastName:        m.lastName,
		Age:             m.age,
		TakesMedication: m.takesMedication,
		ReminderTime:    m.reminderTime,

		SelectedUrgeIDs:   selectionIDs(m.selectedUrgeIndices, catalog.SelectableUrges(), m.customUrges),
		SelectedGoalIDs:   selectionIDs(m.selectedGoalIndices, catalog.SelectableGoals(), m.customGoals),
		SelectedActionIDs: selectionIDs(m.selectedActionIndices, catalog.SelectableActions(), m.customActions),

		CustomGoals:   toCustomItems(m.customGoals),
		CustomActions: toCustomItems(m.customActions),
		CustomUrges:   toCustomItems(m.customUrges),

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := sink.SaveProfile(ctx, profile); err != nil {
		m.logger.Warn("onboarding profile save failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}

	m.complete = true
	m.logger.Info("onboarding complete",
		zap.String("user_id", userID.String()),
		zap.Int("urges", len(profile.SelectedUrgeIDs)),
		zap.Int("goals", len(profile.SelectedGoalIDs)),
		zap.Int("actions", len(profile.SelectedActionIDs)))
	return profile, nil
}
