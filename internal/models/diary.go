package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aura-dbt/backend/internal/catalog"
)

// ClampScale bounds a rating to the 0-10 diary scale.
func ClampScale(v int) int {
	if v < catalog.ScaleMin {
		return catalog.ScaleMin
	}
	if v > catalog.ScaleMax {
		return catalog.ScaleMax
	}
	return v
}

// StartOfDay normalizes t to midnight in its own location. Diary cards are
// keyed by this value; two cards for the same user and day must not coexist.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Response records pair a referenced catalog (or custom) item id with the
// user's answer for the day. Each response carries its own generated id,
// distinct from the item it references.

type UrgeResponse struct {
	ID        string `json:"id"`
	UrgeID    string `json:"urgeId"`
	Intensity int    `json:"intensity"`
}

func NewUrgeResponse(urgeID string, intensity int) UrgeResponse {
	return UrgeResponse{ID: uuid.NewString(), UrgeID: urgeID, Intensity: ClampScale(intensity)}
}

type EmotionResponse struct {
	ID        string `json:"id"`
	EmotionID string `json:"emotionId"`
	Intensity int    `json:"intensity"`
}

func NewEmotionResponse(emotionID string, intensity int) EmotionResponse {
	return EmotionResponse{ID: uuid.NewString(), EmotionID: emotionID, Intensity: ClampScale(intensity)}
}

type GoalResponse struct {
	ID        string `json:"id"`
	GoalID    string `json:"goalId"`
	Completed bool   `json:"completed"`
}

func NewGoalResponse(goalID string, completed bool) GoalResponse {
	return GoalResponse{ID: uuid.NewString(), GoalID: goalID, Completed: completed}
}

type ActionResponse struct {
	ID        string `json:"id"`
	ActionID  string `json:"actionId"`
	Performed bool   `json:"performed"`
}

func NewActionResponse(actionID string, performed bool) ActionResponse {
	return ActionResponse{ID: uuid.NewString(), ActionID: actionID, Performed: performed}
}

// SkillRating is the single 0-10 skill-usefulness rating for the day.
type SkillRating struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
}

func NewSkillRating(score int) *SkillRating {
	return &SkillRating{ID: uuid.NewString(), Score: ClampScale(score)}
}

// MedicationCheckIn is the single yes/no medication answer for the day.
type MedicationCheckIn struct {
	ID          string `json:"id"`
	DidTakeMeds bool   `json:"didTakeMeds"`
}

func NewMedicationCheckIn(taken bool) *MedicationCheckIn {
	return &MedicationCheckIn{ID: uuid.NewString(), DidTakeMeds: taken}
}

// DiaryNote is the free-form note for the day. Omitted from the card when
// the user wrote nothing.
type DiaryNote struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func NewDiaryNote(text string) *DiaryNote {
	return &DiaryNote{ID: uuid.NewString(), Text: text}
}

type UrgeResponseList []UrgeResponse
type EmotionResponseList []EmotionResponse
type GoalResponseList []GoalResponse
type ActionResponseList []ActionResponse

// DiaryCard is one calendar day's complete check-in for a user. Immutable
// once persisted; completing the same day again replaces the stored card
// rather than editing it in place.
type DiaryCard struct {
	ID     uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_diary_cards_user_date" json:"userId"`
	Date   time.Time `gorm:"not null;uniqueIndex:idx_diary_cards_user_date" json:"date"`

	UrgeResponses    UrgeResponseList    `gorm:"type:text;serializer:json" json:"urgeResponses"`
	EmotionResponses EmotionResponseList `gorm:"type:text;serializer:json" json:"emotionResponses"`
	GoalResponses    GoalResponseList    `gorm:"type:text;serializer:json" json:"goalResponses"`
	ActionResponses  ActionResponseList  `gorm:"type:text;serializer:json" json:"actionResponses"`

	SkillRating       *SkillRating       `gorm:"type:text;serializer:json" json:"skillRating,omitempty"`
	MedicationCheckIn *MedicationCheckIn `gorm:"type:text;serializer:json" json:"medicationCheckIn,omitempty"`
	Note              *DiaryNote         `gorm:"type:text;serializer:json" json:"note,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (DiaryCard) TableName() string {
	return "diary_cards"
}
