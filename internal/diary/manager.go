// Package diary drives one day's diary-card check-in as a strictly linear
// step machine. It is seeded from the user's profile, accumulates clamped
// ratings keyed by item id, and materializes a DiaryCard for the injected
// sink.
package diary

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aura-dbt/backend/internal/catalog"
	"github.com/aura-dbt/backend/internal/models"
)

// Step is one position in the fixed check-in order.
type Step string

const (
	StepUrges       Step = "urges"
	StepEmotions    Step = "emotions"
	StepSkills      Step = "skills"
	StepGoals       Step = "goals"
	StepActions     Step = "actions"
	StepMedications Step = "medications"
	StepNote        Step = "note"
	StepComplete    Step = "complete"
)

var stepOrder = []Step{
	StepUrges, StepEmotions, StepSkills, StepGoals,
	StepActions, StepMedications, StepNote, StepComplete,
}

// ErrCompletionInFlight is returned when CompleteEntry overlaps a previous
// call on the same manager.
var ErrCompletionInFlight = errors.New("diary completion already in flight")

// ErrNoActiveEntry is returned when CompleteEntry is called without an entry
// session in progress, for example a duplicate completion request.
var ErrNoActiveEntry = errors.New("no diary entry in progress")

// Sink receives the finished card. Implemented by the diary store; mocked in
// tests.
type Sink interface {
	SaveCard(ctx context.Context, card *models.DiaryCard) error
}

// Manager is a single-owner, single-goroutine state container, like its
// onboarding counterpart. The session layer serializes access.
type Manager struct {
	currentDate time.Time
	inProgress  bool
	currentStep Step

	urgeIntensities    map[string]int
	emotionIntensities map[string]int
	goalCompletions    map[string]bool
	actionsPerformed   map[string]bool
	skillRating        int
	medicationTaken    bool
	diaryNote          string

	completing bool
	listeners  []func(Step)
	logger     *zap.Logger
}

// NewManager returns a manager at the urges step with empty temporary state.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		currentDate: models.StartOfDay(time.Now()),
		currentStep: StepUrges,
		logger:      logger,
	}
	m.clearTemporaryData()
	return m
}

func (m *Manager) clearTemporaryData() {
	m.urgeIntensities = make(map[string]int)
	m.emotionIntensities = make(map[string]int)
	m.goalCompletions = make(map[string]bool)
	m.actionsPerformed = make(map[string]bool)
	m.skillRating = 0
	m.medicationTaken = false
	m.diaryNote = ""
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

// InProgress reports whether an entry session is active.
func (m *Manager) InProgress() bool { return m.inProgress }

// Date returns the day this entry covers, normalized to start of day.
func (m *Manager) Date() time.Time { return m.currentDate }

// NextStep advances one position; no-op at the terminal step. Validation is
// advisory; callers consult CanProceed first.
func (m *Manager) NextStep() Step {
	if i := m.stepIndex(); i < len(stepOrder)-1 {
		m.currentStep = stepOrder[i+1]
		m.notify()
	}
	return m.currentStep
}

// PreviousStep moves back one position; no-op at the initial step.
func (m *Manager) PreviousStep() Step {
	if i := m.stepIndex(); i > 0 {
		m.currentStep = stepOrder[i-1]
		m.notify()
	}
	return m.currentStep
}

// SetUrgeIntensity stores a clamped 0-10 rating for the urge id.
func (m *Manager) SetUrgeIntensity(urgeID string, intensity int) {
	m.urgeIntensities[urgeID] = models.ClampScale(intensity)
}

// SetEmotionIntensity stores a clamped 0-10 rating for the emotion id.
func (m *Manager) SetEmotionIntensity(emotionID string, intensity int) {
	m.emotionIntensities[emotionID] = models.ClampScale(intensity)
}

// SetGoalCompletion stores the yes/no answer for the goal id.
func (m *Manager) SetGoalCompletion(goalID string, completed bool) {
	m.goalCompletions[goalID] = completed
}

// SetActionPerformed stores the yes/no answer for the action id.
func (m *Manager) SetActionPerformed(actionID string, performed bool) {
	m.actionsPerformed[actionID] = performed
}

// SetSkillRating stores the clamped whole-day skill usefulness rating.
func (m *Manager) SetSkillRating(rating int) {
	m.skillRating = models.ClampScale(rating)
}

// SetMedicationTaken stores the medication check-in answer.
func (m *Manager) SetMedicationTaken(taken bool) {
	m.medicationTaken = taken
}

// SetDiaryNote stores the free-form note text.
func (m *Manager) SetDiaryNote(note string) {
	m.diaryNote = note
}

// StartNewEntry begins a fresh session for the given day: the date is
// normalized to start of day, the step resets to urges and all temporary
// state is cleared.
func (m *Manager) StartNewEntry(date time.Time) {
	m.currentDate = models.StartOfDay(date)
	m.inProgress = true
	m.currentStep = StepUrges
	m.clearTemporaryData()
	m.notify()
}

// PrepareForUser seeds the temporary maps with zero/false defaults for every
// item this user rates daily: fixed urges plus their selected urges, all
// core emotions, their selected goals, and fixed actions plus their selected
// actions. Keys that already hold a value are left alone, so calling this
// after LoadExistingEntry only tops up items added since the card was saved.
func (m *Manager) PrepareForUser(profile *models.UserProfile) {
	for _, id := range catalog.IDs(catalog.FixedUrges()) {
		seedInt(m.urgeIntensities, id)
	}
	for _, id := range profile.SelectedUrgeIDs {
		seedInt(m.urgeIntensities, id)
	}
	for _, id := range catalog.IDs(catalog.CoreEmotions()) {
		seedInt(m.emotionIntensities, id)
	}
	for _, id := range profile.SelectedGoalIDs {
		seedBool(m.goalCompletions, id)
	}
	for _, id := range catalog.IDs(catalog.FixedActions()) {
		seedBool(m.actionsPerformed, id)
	}
	for _, id := range profile.SelectedActionIDs {
		seedBool(m.actionsPerformed, id)
	}
}

func seedInt(m map[string]int, id string) {
	if _, ok := m[id]; !ok {
		m[id] = 0
	}
}

func seedBool(m map[string]bool, id string) {
	if _, ok := m[id]; !ok {
		m[id] = false
	}
}

// LoadExistingEntry repopulates temporary state from a previously saved
// card so a same-day edit resumes from saved answers.
func (m *Manager) LoadExistingEntry(card *models.DiaryCard) {
	m.clearTemporaryData()
	m.currentDate = models.StartOfDay(card.Date)
	m.inProgress = true

	for _, r := range card.UrgeResponses {
		m.urgeIntensities[r.UrgeID] = r.Intensity
	}
	for _, r := range card.EmotionResponses {
		m.emotionIntensities[r.EmotionID] = r.Intensity
	}
	for _, r := range card.GoalResponses {
		m.goalCompletions[r.GoalID] = r.Completed
	}
	for _, r := range card.ActionResponses {
		m.actionsPerformed[r.ActionID] = r.Performed
	}
	if card.SkillRating != nil {
		m.skillRating = card.SkillRating.Score
	}
	if card.MedicationCheckIn != nil {
		m.medicationTaken = card.MedicationCheckIn.DidTakeMeds
	}
	if card.Note != nil {
		m.diaryNote = card.Note.Text
	}
}

// CanProceed reports whether the current step's inputs allow advancing. The
// urges/goals/actions steps only require their maps to be non-empty; the
// seeding in PrepareForUser guarantees coverage, so no exact count applies.
func (m *Manager) CanProceed() bool {
	switch m.currentStep {
	case StepUrges:
		return len(m.urgeIntensities) > 0
	case StepEmotions:
		return len(m.emotionIntensities) > 0
	case StepGoals:
		return len(m.goalCompletions) > 0
	case StepActions:
		return len(m.actionsPerformed) > 0
	default:
		return true
	}
}

// ProgressPercentage is the current step's ordinal over the step count
// excluding the terminal step, for progress UI.
func (m *Manager) ProgressPercentage() float64 {
	return float64(m.stepIndex()) / float64(len(stepOrder)-1)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CompleteEntry assembles a DiaryCard from the temporary state and saves it
// through sink. It requires an active entry session; a repeated call after
// success returns ErrNoActiveEntry. On a sink error the temporary state is
// preserved so a retry
// reuses the accumulated answers; on success state is cleared and the step
// advances to complete.
func (m *Manager) CompleteEntry(ctx context.Context, userID uuid.UUID, sink Sink) (*models.DiaryCard, error) {
	if m.completing {
		return nil, ErrCompletionInFlight
	}
	if !m.inProgress {
		return nil, ErrNoActiveEntry
	}
	m.completing = true
	defer func() { m.completing = false }()

	urgeResponses := make(models.UrgeResponseList, 0, len(m.urgeIntensities))
	for _, id := range sortedKeys(m.urgeIntensities) {
		urgeResponses = append(urgeResponses, models.NewUrgeResponse(id, m.urgeIntensities[id]))
	}
	emotionResponses := make(models.EmotionResponseList, 0, len(m.emotionIntensities))
	for _, id := range sortedKeys(m.emotionIntensities) {
		emotionResponses = append(emotionResponses, models.NewEmotionResponse(id, m.emotionIntensities[id]))
	}
	goalResponses := make(models.GoalResponseList, 0, len(m.goalCompletions))
	for _, id := range sortedKeys(m.goalCompletions) {
		goalResponses = append(goalResponses, models.NewGoalResponse(id, m.goalCompletions[id]))
	}
	actionResponses := make(models.ActionResponseList, 0, len(m.actionsPerformed))
	for _, id := range sortedKeys(m.actionsPerformed) {
		actionResponses = append(actionResponses, models.NewActionResponse(id, m.actionsPerformed[id]))
	}

	var note *models.DiaryNote
	if m.diaryNote != "" {
		note = models.NewDiaryNote(m.diaryNote)
	}

	now := time.Now()
	card := &models.DiaryCard{
		ID:                uuid.New(),
		UserID:            userID,
		Date:              m.currentDate,
		UrgeResponses:     urgeResponses,
		EmotionResponses:  emotionResponses,
		GoalResponses:     goalResponses,
		ActionResponses:   actionResponses,
		SkillRating:       models.NewSkillRating(m.skillRating),
		MedicationCheckIn: models.NewMedicationCheckIn(m.medicationTaken),
		Note:              note,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := sink.SaveCard(ctx, card); err != nil {
		m.logger.Warn("diary card save failed",
			zap.String("user_id", userID.String()),
			zap.Time("date", m.currentDate),
			zap.Error(err))
		return nil, err
	}

	m.clearTemporaryData()
	m.inProgress = false
	m.currentStep = StepComplete
	m.notify()
	m.logger.Info("diary entry complete",
		zap.String("user_id", userID.String()),
		zap.Time("date", card.Date))
	return card, nil
}

// CancelEntry discards all answers without persisting and resets the session.
func (m *Manager) CancelEntry() {
	m.clearTemporaryData()
	m.inProgress = false
	m.currentStep = StepUrges
	m.notify()
}
