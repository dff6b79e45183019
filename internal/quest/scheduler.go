package quest

import (
	"math/rand"
	"time"

	"github.com/mhutton/lodestar/internal/model"
)

// Scheduler picks the next eligible quest from the catalog given the
// completion ledger and the current time.
type Scheduler struct {
	rng *rand.Rand
}

func NewScheduler() *Scheduler {
	return &Scheduler{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// SelectNext returns the next quest to suggest, or nil when nothing is
// eligible. Quests matching the current day part (or tagged anytime) and off
// cooldown are picked uniformly at random. When that set is empty the day
// part constraint is relaxed and the first catalog-order quest off cooldown
// is returned instead. The cooldown constraint is never relaxed.
func (s *Scheduler) SelectNext(catalog []model.Quest, ledger *Ledger, now time.Time) *model.Quest {
	part := DayPartAt(now)

	var eligible []model.Quest
	for _, q := range catalog {
		if !q.HasTag(string(part)) && !q.HasTag(model.TagAnytime) {
			continue
		}
		if onCooldown(q, ledger, now) {
			continue
		}
		eligible = append(eligible, q)
	}
	if len(eligible) > 0 {
		picked := eligible[s.rng.Intn(len(eligible))]
		return &picked
	}

	// Relaxed pass: ignore the day part, keep the cooldown rule.
	for _, q := range catalog {
		if !onCooldown(q, ledger, now) {
			picked := q
			return &picked
		}
	}
	return nil
}

// onCooldown reports whether the quest's own last completion is still within
// its cooldown window. A zero cooldown never excludes a quest.
func onCooldown(q model.Quest, ledger *Ledger, now time.Time) bool {
	last, ok := ledger.LastCompletion(q.ID)
	if !ok || q.CooldownMinutes <= 0 {
		return false
	}
	return last.Add(time.Duration(q.CooldownMinutes) * time.Minute).After(now)
}
