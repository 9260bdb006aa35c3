package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomItem is a user-authored tracked item stored on the profile. It has
// the same shape as a standard catalog entry; JSON field names match the
// documents written by earlier releases.
type CustomItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	InputType string `json:"inputType"`
}

// CustomItemList is stored as a JSON column so the persisted document keeps
// the original nested-array shape.
type CustomItemList []CustomItem

// StringList is an id list stored as a JSON column.
type StringList []string

// Contains reports whether id is in the list.
func (l StringList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// UserProfile holds identity plus everything the user chose to track during
// onboarding. One row per user; created once when onboarding completes and
// mutated only through explicit update operations after that.
type UserProfile struct {
	ID     uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"userId"`

	FirstName string `gorm:"size:100;not null" json:"firstName"`
	LastName  string `gorm:"size:100;not null" json:"lastName"`
	Age       int    `gorm:"not null" json:"age"`
	// Column and JSON names keep the misspelling present in already-saved documents.
	TakesMedication bool      `gorm:"column:takes_mediation" json:"takesMediation"`
	ReminderTime    time.Time `json:"reminderTime"`

	SelectedUrgeIDs   StringList `gorm:"type:text;serializer:json" json:"selectedUrgeIds"`
	SelectedGoalIDs   StringList `gorm:"type:text;serializer:json" json:"selectedGoalIds"`
	SelectedActionIDs StringList `gorm:"type:text;serializer:json" json:"selectedActionIds"`

	CustomGoals   CustomItemList `gorm:"type:text;serializer:json" json:"customGoals"`
	CustomActions CustomItemList `gorm:"type:text;serializer:json" json:"customActions"`
	CustomUrges   CustomItemList `gorm:"type:text;serializer:json" json:"customUrges"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// OwnsItemID reports whether id references one of the profile's custom items.
func (p *UserProfile) OwnsItemID(id string) bool {
	for _, list := range []CustomItemList{p.CustomUrges, p.CustomGoals, p.CustomActions} {
		for _, item := range list {
			if item.ID == id {
				return true
			}
		}
	}
	return false
}
