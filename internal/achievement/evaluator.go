package achievement

import (
	"fmt"
	"log/slog"

	"tidynest/internal/model"
)

// Unlocker persists achievement unlocks. Implemented by store.AchievementStore;
// kept as an interface so this package stays free of storage imports.
type Unlocker interface {
	UnlockedIDs() ([]string, error)
	Unlock(id string) error
}

// Evaluation is one catalog entry joined with its current unlock state and
// live progress for display.
type Evaluation struct {
	Achievement
	Unlocked bool `json:"unlocked"`
	Progress int  `json:"progress"`
}

// Evaluator derives unlock state from a stats snapshot and persists newly
// unlocked entries. Unlock is monotonic: an entry that was ever persisted
// stays unlocked even if the underlying stat were to regress.
type Evaluator struct {
	store  Unlocker
	logger *slog.Logger
}

func NewEvaluator(store Unlocker, logger *slog.Logger) *Evaluator {
	return &Evaluator{store: store, logger: logger}
}

// Refresh evaluates the whole catalog against stats. It returns the
// evaluations in catalog order plus the ids that became unlocked during this
// refresh. A failure to persist a single unlock is logged and skipped; the
// entry will unlock again on the next refresh.
func (e *Evaluator) Refresh(stats model.Stats) ([]Evaluation, []string, error) {
	persisted, err := e.store.UnlockedIDs()
	if err != nil {
		return nil, nil, fmt.Errorf("load unlocked achievements: %w", err)
	}

	was := make(map[string]bool, len(persisted))
	for _, id := range persisted {
		was[id] = true
	}

	evals := make([]Evaluation, 0, len(Catalog))
	var newly []string

	for _, a := range Catalog {
		st := a.Check(stats)

		if st.Unlocked && !was[a.ID] {
			if err := e.store.Unlock(a.ID); err != nil {
				e.logger.Error("persist achievement unlock", "id", a.ID, "error", err)
			} else {
				newly = append(newly, a.ID)
			}
		}

		evals = append(evals, Evaluation{
			Achievement: a,
			Unlocked:    st.Unlocked || was[a.ID],
			Progress:    st.Progress,
		})
	}

	return evals, newly, nil
}
