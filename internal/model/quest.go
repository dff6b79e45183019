package model

import (
	"fmt"
	"time"
)

// Quest tag values. A quest tagged "anytime" is eligible in every day part.
const (
	TagMorning   = "morning"
	TagMidday    = "midday"
	TagAfternoon = "afternoon"
	TagEvening   = "evening"
	TagAnytime   = "anytime"
)

// Quest is a candidate activity. Catalog quests are defined once (seeded by
// migration, ordered by SortOrder) and never change at runtime. Custom
// caregiver-authored quests are synthesized ad hoc and never join the catalog.
type Quest struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Tags            []string  `json:"tags"`
	CooldownMinutes int       `json:"cooldown_minutes"`
	Difficulty      int       `json:"difficulty"`
	Category        string    `json:"category"`
	SortOrder       int       `json:"sort_order"`
	Custom          bool      `json:"custom"`
	CreatedAt       time.Time `json:"created_at"`
}

// HasTag reports whether the quest carries the given tag.
func (q Quest) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NewCustomQuest synthesizes a caregiver-authored quest. The id derives from
// the creation time so custom quests never collide with catalog ids.
func NewCustomQuest(title, description string, createdAt time.Time) Quest {
	return Quest{
		ID:          fmt.Sprintf("custom-%d", createdAt.UnixMilli()),
		Title:       title,
		Description: description,
		Tags:        []string{TagAnytime},
		Category:    "custom",
		Difficulty:  1,
		Custom:      true,
		CreatedAt:   createdAt,
	}
}
