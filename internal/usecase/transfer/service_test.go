package transfer

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/campushq/catalog/internal/domain"
	domtransfer "github.com/campushq/catalog/internal/domain/transfer"
)

// fastConfig completes a transfer in two ticks with deterministic
// increments and a short linger, so tests run in milliseconds.
func fastConfig() Config {
	return Config{
		TickInterval: time.Millisecond,
		LingerDelay:  10 * time.Millisecond,
		Increment:    func() float64 { return 60 },
	}
}

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()
	svc := New(cfg, zap.NewNop())
	t.Cleanup(svc.Close)
	return svc
}

func waitFor(t *testing.T, ch <-chan domtransfer.Transfer, what string) domtransfer.Transfer {
	t.Helper()
	select {
	case tr := <-ch:
		return tr
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		return domtransfer.Transfer{}
	}
}

func TestStart_BeginsInProgress(t *testing.T) {
	svc := newTestService(t, fastConfig())

	tr, err := svc.Start("file_001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.State() != domtransfer.InProgress {
		t.Errorf("expected in_progress, got %q", tr.State())
	}
	if tr.Progress() != 0 {
		t.Errorf("expected progress 0, got %v", tr.Progress())
	}

	got, ok := svc.Get("file_001")
	if !ok {
		t.Fatal("expected an active entry after Start")
	}
	if got.ItemID() != "file_001" {
		t.Errorf("expected item file_001, got %q", got.ItemID())
	}
}

func TestStart_EmptyItemID(t *testing.T) {
	svc := newTestService(t, fastConfig())

	if _, err := svc.Start(""); err == nil {
		t.Fatal("expected error for empty item id")
	}
}

func TestStart_IdempotentWhileActive(t *testing.T) {
	cfg := fastConfig()
	cfg.TickInterval = time.Hour // never ticks during the test
	svc := newTestService(t, cfg)

	first, err := svc.Start("file_001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, err := svc.Start("file_001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if again.State() != first.State() || again.Progress() != first.Progress() {
		t.Errorf("expected restart to return the existing transfer, got %+v", again)
	}
	if len(svc.List()) != 1 {
		t.Errorf("expected a single entry, got %d", len(svc.List()))
	}
}

func TestTransfer_CompletesAndReturnsToIdle(t *testing.T) {
	svc := newTestService(t, fastConfig())

	completed := make(chan domtransfer.Transfer, 1)
	svc.Subscribe("file_001", Subscriber{
		OnComplete: func(tr domtransfer.Transfer) { completed <- tr },
	})

	if _, err := svc.Start("file_001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tr := waitFor(t, completed, "completion")
	if tr.Progress() != 100 {
		t.Errorf("expected completion at exactly 100, got %v", tr.Progress())
	}
	if tr.State() != domtransfer.Completed {
		t.Errorf("expected completed state, got %q", tr.State())
	}

	// After the linger delay the entry is removed (idle again).
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, ok := svc.Get("file_001"); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("entry not removed after linger delay")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestTransfer_TicksAreMonotonic(t *testing.T) {
	svc := newTestService(t, fastConfig())

	ticks := make(chan domtransfer.Transfer, 16)
	done := make(chan domtransfer.Transfer, 1)
	svc.Subscribe("file_001", Subscriber{
		OnTick:     func(tr domtransfer.Transfer) { ticks <- tr },
		OnComplete: func(tr domtransfer.Transfer) { done <- tr },
	})

	if _, err := svc.Start("file_001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitFor(t, done, "completion")

	last := -1.0
	n := 0
	for {
		select {
		case tr := <-ticks:
			if tr.Progress() < last {
				t.Errorf("progress went backwards: %v after %v", tr.Progress(), last)
			}
			last = tr.Progress()
			n++
			continue
		default:
		}
		break
	}

	// 60-point increments: one tick at 60, one completing tick at 100.
	if n != 2 {
		t.Errorf("expected 2 ticks, got %d", n)
	}
	if last != 100 {
		t.Errorf("expected final tick at 100, got %v", last)
	}
}

func TestStart_AfterCompletionCycleStartsFresh(t *testing.T) {
	svc := newTestService(t, fastConfig())

	completed := make(chan domtransfer.Transfer, 2)
	svc.Subscribe("file_001", Subscriber{
		OnComplete: func(tr domtransfer.Transfer) { completed <- tr },
	})

	if _, err := svc.Start("file_001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitFor(t, completed, "first completion")

	// Wait out the linger.
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, ok := svc.Get("file_001"); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("entry not removed after linger delay")
		}
		time.Sleep(time.Millisecond)
	}

	// Subscriptions persist; a fresh cycle runs to completion again.
	tr, err := svc.Start("file_001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Progress() != 0 || tr.State() != domtransfer.InProgress {
		t.Errorf("expected a fresh transfer, got %+v", tr)
	}
	waitFor(t, completed, "second completion")
}

func TestList_SortedByItemID(t *testing.T) {
	cfg := fastConfig()
	cfg.TickInterval = time.Hour
	svc := newTestService(t, cfg)

	for _, id := range []string{"file_c", "file_a", "file_b"} {
		if _, err := svc.Start(id); err != nil {
			t.Fatalf("Start(%s): %v", id, err)
		}
	}

	list := svc.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 transfers, got %d", len(list))
	}
	for i, want := range []string{"file_a", "file_b", "file_c"} {
		if list[i].ItemID() != want {
			t.Errorf("index %d: expected %s, got %s", i, want, list[i].ItemID())
		}
	}
}

func TestClose_RejectsNewTransfers(t *testing.T) {
	svc := New(fastConfig(), zap.NewNop())

	if _, err := svc.Start("file_001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.Close()

	_, err := svc.Start("file_002")
	if !errors.Is(err, domain.ErrSimulatorClosed) {
		t.Errorf("expected ErrSimulatorClosed, got %v", err)
	}
}

func TestClose_Idempotent(t *testing.T) {
	svc := New(fastConfig(), zap.NewNop())
	svc.Close()
	svc.Close()
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.TickInterval != DefaultTickInterval {
		t.Errorf("expected default tick interval, got %v", cfg.TickInterval)
	}
	if cfg.LingerDelay != DefaultLingerDelay {
		t.Errorf("expected default linger delay, got %v", cfg.LingerDelay)
	}
	for i := 0; i < 100; i++ {
		inc := cfg.Increment()
		if inc < 5 || inc >= 20 {
			t.Fatalf("expected increment in [5, 20), got %v", inc)
		}
	}
}
