package catalog

import (
	"time"

	"go.uber.org/zap"

	domtransfer "github.com/campushq/catalog/internal/domain/transfer"
	transferuc "github.com/campushq/catalog/internal/usecase/transfer"
)

// TransferState is the lifecycle phase of an item's transfer.
type TransferState string

// Transfer states. Idle means no transfer entry exists for the item.
const (
	TransferIdle       TransferState = TransferState(domtransfer.Idle)
	TransferInProgress TransferState = TransferState(domtransfer.InProgress)
	TransferCompleted  TransferState = TransferState(domtransfer.Completed)
)

// Transfer is a snapshot of one item's simulated transfer.
type Transfer struct {
	ItemID    string
	Progress  float64
	State     TransferState
	StartedAt time.Time
}

func fromDomainTransfer(t domtransfer.Transfer) Transfer {
	return Transfer{
		ItemID:    t.ItemID(),
		Progress:  t.Progress(),
		State:     TransferState(t.State()),
		StartedAt: t.StartedAt(),
	}
}

// SimulatorOption tunes a Simulator.
type SimulatorOption func(*transferuc.Config)

// WithTickInterval overrides the 500ms progress tick.
func WithTickInterval(d time.Duration) SimulatorOption {
	return func(c *transferuc.Config) { c.TickInterval = d }
}

// WithLingerDelay overrides the 2s completed-state linger.
func WithLingerDelay(d time.Duration) SimulatorOption {
	return func(c *transferuc.Config) { c.LingerDelay = d }
}

// WithIncrement overrides the random per-tick progress increment.
func WithIncrement(fn func() float64) SimulatorOption {
	return func(c *transferuc.Config) { c.Increment = fn }
}

// Simulator drives fake per-item transfers: progress ticks up by a
// random step every interval, completes at 100, lingers, then the item
// returns to idle. Safe for concurrent use.
type Simulator struct {
	svc *transferuc.Service
}

// NewSimulator creates a transfer simulator with default timings.
func NewSimulator(opts ...SimulatorOption) *Simulator {
	var cfg transferuc.Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Simulator{svc: transferuc.New(cfg, zap.NewNop())}
}

// Start begins a transfer for the item. Starting an item that already has
// an active or lingering transfer is a no-op returning the existing one.
func (s *Simulator) Start(itemID string) (Transfer, error) {
	t, err := s.svc.Start(itemID)
	if err != nil {
		return Transfer{}, err
	}
	return fromDomainTransfer(t), nil
}

// Subscribe registers per-item callbacks. onTick fires after every
// progress advance (including the completing one); onComplete fires once
// when the transfer reaches 100. Either may be nil. Callbacks run on the
// simulator's goroutine and must not block.
func (s *Simulator) Subscribe(itemID string, onTick, onComplete func(Transfer)) {
	sub := transferuc.Subscriber{}
	if onTick != nil {
		sub.OnTick = func(t domtransfer.Transfer) { onTick(fromDomainTransfer(t)) }
	}
	if onComplete != nil {
		sub.OnComplete = func(t domtransfer.Transfer) { onComplete(fromDomainTransfer(t)) }
	}
	s.svc.Subscribe(itemID, sub)
}

// Get returns the item's current transfer, or an idle snapshot when no
// transfer exists.
func (s *Simulator) Get(itemID string) Transfer {
	if t, ok := s.svc.Get(itemID); ok {
		return fromDomainTransfer(t)
	}
	return Transfer{ItemID: itemID, State: TransferIdle}
}

// List returns all active or lingering transfers, sorted by item id.
func (s *Simulator) List() []Transfer {
	ts := s.svc.List()
	out := make([]Transfer, 0, len(ts))
	for _, t := range ts {
		out = append(out, fromDomainTransfer(t))
	}
	return out
}

// Close stops all transfer goroutines and waits for them to exit.
func (s *Simulator) Close() {
	s.svc.Close()
}
