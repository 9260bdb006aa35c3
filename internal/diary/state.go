package diary

import "time"

// State is a read-only snapshot of the entry session for the driving UI.
type State struct {
	Step       Step      `json:"step"`
	CanProceed bool      `json:"canProceed"`
	InProgress bool      `json:"inProgress"`
	Date       time.Time `json:"date"`
	Progress   float64   `json:"progress"`

	UrgeIntensities    map[string]int  `json:"urgeIntensities"`
	EmotionIntensities map[string]int  `json:"emotionIntensities"`
	GoalCompletions    map[string]bool `json:"goalCompletions"`
	ActionsPerformed   map[string]bool `json:"actionsPerformed"`
	SkillRating        int             `json:"skillRating"`
	MedicationTaken    bool            `json:"medicationTaken"`
	DiaryNote          string          `json:"diaryNote"`
}

func copyMap[V any](src map[string]V) map[string]V {
	out := make(map[string]V, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// State returns the current snapshot. Maps are copied so the caller cannot
// mutate manager state behind the setters' backs.
func (m *Manager) State() State {
	return State{
		Step:       m.currentStep,
		CanProceed: m.CanProceed(),
		InProgress: m.inProgress,
		Date:       m.currentDate,
		Progress:   m.ProgressPercentage(),

		UrgeIntensities:    copyMap(m.urgeIntensities),
		EmotionIntensities: copyMap(m.emotionIntensities),
		GoalCompletions:    copyMap(m.goalCompletions),
		ActionsPerformed:   copyMap(m.actionsPerformed),
		SkillRating:        m.skillRating,
		MedicationTaken:    m.medicationTaken,
		DiaryNote:          m.diaryNote,
	}
}
