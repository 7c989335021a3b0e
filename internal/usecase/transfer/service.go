package transfer

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/campushq/catalog/internal/domain"
	domtransfer "github.com/campushq/catalog/internal/domain/transfer"
)

// Default simulation timings, matching the behavior observed in the
// download-center screens: one progress tick every 500ms, a random 5-20
// point increment per tick, and a completed bar lingering for 2s.
const (
	DefaultTickInterval = 500 * time.Millisecond
	DefaultLingerDelay  = 2 * time.Second
)

// defaultIncrement returns a random progress increment in [5, 20).
func defaultIncrement() float64 {
	return 5 + rand.Float64()*15 //nolint:gosec // simulation only, not security-sensitive
}

// Config tunes the simulator. Zero values fall back to defaults, so tests
// can inject a deterministic increment and fast timings.
type Config struct {
	TickInterval time.Duration
	LingerDelay  time.Duration
	Increment    func() float64
	Now          func() time.Time
}

func (c Config) withDefaults() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.LingerDelay <= 0 {
		c.LingerDelay = DefaultLingerDelay
	}
	if c.Increment == nil {
		c.Increment = defaultIncrement
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Subscriber receives push notifications for one item's transfer.
// Callbacks run on the simulator's tick goroutine and must not block.
type Subscriber struct {
	OnTick     func(domtransfer.Transfer)
	OnComplete func(domtransfer.Transfer)
}

// Service simulates per-item long-running transfers. Each started item is
// driven by its own ticker goroutine; the entry is removed (back to Idle)
// after the completed state has lingered for display.
type Service struct {
	cfg    Config
	logger *zap.Logger

	startedTotal   prometheus.Counter
	completedTotal prometheus.Counter

	mu     sync.Mutex
	active map[string]domtransfer.Transfer
	subs   map[string][]Subscriber
	closed bool

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a transfer simulator.
func New(cfg Config, logger *zap.Logger) *Service {
	return &Service{
		cfg:    cfg.withDefaults(),
		logger: logger,
		active: make(map[string]domtransfer.Transfer),
		subs:   make(map[string][]Subscriber),
		done:   make(chan struct{}),
	}
}

// WithMetrics attaches started/completed counters.
func (s *Service) WithMetrics(started, completed prometheus.Counter) *Service {
	s.startedTotal = started
	s.completedTotal = completed
	return s
}

// Start begins a transfer for the item. If a transfer for the same id is
// already in progress or lingering in the completed state, Start is a
// no-op and returns the existing transfer.
func (s *Service) Start(itemID string) (domtransfer.Transfer, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domtransfer.Transfer{}, domain.ErrSimulatorClosed
	}
	if existing, ok := s.active[itemID]; ok {
		s.mu.Unlock()
		return existing, nil
	}

	t, err := domtransfer.New(itemID, s.cfg.Now())
	if err != nil {
		s.mu.Unlock()
		return domtransfer.Transfer{}, err
	}
	s.active[itemID] = t
	s.wg.Add(1)
	s.mu.Unlock()

	if s.startedTotal != nil {
		s.startedTotal.Inc()
	}
	s.logger.Debug("Transfer started", zap.String("item_id", itemID))

	go s.run(itemID)
	return t, nil
}

// Subscribe registers callbacks for the item. Subscribing before Start is
// allowed; subscriptions persist across transfer cycles for the same id.
func (s *Service) Subscribe(itemID string, sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[itemID] = append(s.subs[itemID], sub)
}

// Get returns the current transfer for the item. ok is false when the item
// is idle (no entry).
func (s *Service) Get(itemID string) (domtransfer.Transfer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.active[itemID]
	return t, ok
}

// List returns all current transfers, sorted by item id.
func (s *Service) List() []domtransfer.Transfer {
	s.mu.Lock()
	out := make([]domtransfer.Transfer, 0, len(s.active))
	for _, t := range s.active {
		out = append(out, t)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ItemID() < out[j].ItemID() })
	return out
}

// Close stops all transfer goroutines and waits for them to exit. Pending
// transfers are abandoned without completion callbacks.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
}

// run drives one transfer: tick until completed, linger, then remove.
func (s *Service) run(itemID string) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			t, ok := s.advance(itemID)
			if !ok {
				return
			}
			s.notifyTick(itemID, t)
			if !t.Done() {
				continue
			}

			if s.completedTotal != nil {
				s.completedTotal.Inc()
			}
			s.logger.Debug("Transfer completed", zap.String("item_id", itemID))
			s.notifyComplete(itemID, t)

			select {
			case <-s.done:
			case <-time.After(s.cfg.LingerDelay):
				s.remove(itemID)
			}
			return
		}
	}
}

func (s *Service) advance(itemID string) (domtransfer.Transfer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.active[itemID]
	if !ok {
		return domtransfer.Transfer{}, false
	}
	t = t.Advance(s.cfg.Increment())
	s.active[itemID] = t
	return t, true
}

func (s *Service) remove(itemID string) {
	s.mu.Lock()
	delete(s.active, itemID)
	s.mu.Unlock()
}

func (s *Service) notifyTick(itemID string, t domtransfer.Transfer) {
	for _, sub := range s.subscribers(itemID) {
		if sub.OnTick != nil {
			sub.OnTick(t)
		}
	}
}

func (s *Service) notifyComplete(itemID string, t domtransfer.Transfer) {
	for _, sub := range s.subscribers(itemID) {
		if sub.OnComplete != nil {
			sub.OnComplete(t)
		}
	}
}

// subscribers copies the subscriber list so callbacks run unlocked.
func (s *Service) subscribers(itemID string) []Subscriber {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Subscriber(nil), s.subs[itemID]...)
}
