package transfer

import (
	"fmt"
	"time"
)

// State is the lifecycle state of a simulated transfer.
type State string

// Transfer state constants.
const (
	// Idle means no transfer exists for the item.
	Idle State = "idle"
	// InProgress means the transfer is accumulating progress.
	InProgress State = "in_progress"
	// Completed means progress reached 100 and the entry lingers for
	// display before being removed.
	Completed State = "completed"
)

// Transfer is the progress of one simulated long-running per-item
// operation (immutable value object). Transitions return new values:
//
//	New        -> InProgress, progress 0
//	Advance    -> InProgress while progress < 100, else Completed at exactly 100
type Transfer struct {
	itemID    string
	progress  float64
	state     State
	startedAt time.Time
}

// New starts a transfer for the item: InProgress with zero progress.
func New(itemID string, startedAt time.Time) (Transfer, error) {
	if itemID == "" {
		return Transfer{}, fmt.Errorf("transfer item id is required")
	}
	return Transfer{itemID: itemID, progress: 0, state: InProgress, startedAt: startedAt}, nil
}

// Advance adds a progress increment. Negative increments are ignored.
// At 100 or above, progress clamps to exactly 100 and the state becomes
// Completed. Advancing a completed transfer is a no-op.
func (t Transfer) Advance(increment float64) Transfer {
	if t.state != InProgress || increment < 0 {
		return t
	}
	t.progress += increment
	if t.progress >= 100 {
		t.progress = 100
		t.state = Completed
	}
	return t
}

// ItemID returns the id of the item being transferred.
func (t Transfer) ItemID() string { return t.itemID }

// Progress returns the progress percentage in [0, 100].
func (t Transfer) Progress() float64 { return t.progress }

// State returns the lifecycle state.
func (t Transfer) State() State { return t.state }

// StartedAt returns the transfer start time.
func (t Transfer) StartedAt() time.Time { return t.startedAt }

// Done reports whether the transfer has completed.
func (t Transfer) Done() bool { return t.state == Completed }
