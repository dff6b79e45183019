package quest

import (
	"time"

	"github.com/mhutton/lodestar/internal/model"
)

// DayPart is a coarse segment of the day used to match quests to the clock.
type DayPart string

const (
	Morning   DayPart = model.TagMorning
	Midday    DayPart = model.TagMidday
	Afternoon DayPart = model.TagAfternoon
	Evening   DayPart = model.TagEvening
)

// DayPartAt derives the day part from the wall-clock hour. The small hours
// before 5am count as evening, not morning.
func DayPartAt(t time.Time) DayPart {
	switch hour := t.Hour(); {
	case hour < 5:
		return Evening
	case hour < 12:
		return Morning
	case hour < 15:
		return Midday
	case hour < 18:
		return Afternoon
	default:
		return Evening
	}
}
