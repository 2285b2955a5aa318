package badges

import (
	"context"
	"testing"

	"github.com/examprep/backend/internal/models"
)

// memStore mirrors the PGStore arbitration rules in memory.
type memStore struct {
	decisions map[int64]*decision
	counters  map[string]*counter
}

type decision struct {
	bracket models.Tier
	badge   *string
	decided bool
}

type counter struct {
	granted, cap int
}

func newMemStore() *memStore {
	return &memStore{
		decisions: map[int64]*decision{},
		counters: map[string]*counter{
			CounterTorchbearer: {cap: 100},
			CounterVanguard:    {cap: 300},
		},
	}
}

func (m *memStore) BeginDecision(_ context.Context, userID int64, bracket models.Tier) (bool, *string, error) {
	d, ok := m.decisions[userID]
	if !ok {
		m.decisions[userID] = &decision{bracket: bracket}
		return true, nil, nil
	}
	if d.badge != nil || d.bracket == bracket {
		return false, d.badge, nil
	}
	// No badge recorded and the bracket changed: reopen.
	d.bracket = bracket
	return true, nil, nil
}

func (m *memStore) ClaimSlot(_ context.Context, name string) (int, bool, error) {
	c := m.counters[name]
	if c.granted >= c.cap {
		return 0, false, nil
	}
	c.granted++
	return c.granted - 1, true, nil
}

func (m *memStore) FinishDecision(_ context.Context, userID int64, badge *string) error {
	d := m.decisions[userID]
	d.badge = badge
	d.decided = true
	return nil
}

func TestAssignTorchbearerWithinCap(t *testing.T) {
	a := NewAssigner(newMemStore())

	for i := int64(1); i <= 100; i++ {
		badge, err := a.Assign(context.Background(), i, false)
		if err != nil {
			t.Fatalf("Assign(user %d) error = %v", i, err)
		}
		if badge == nil || *badge != BadgeTorchbearer {
			t.Fatalf("user %d: badge = %v, want %q", i, badge, BadgeTorchbearer)
		}
	}

	// 101st free user gets nothing.
	badge, err := a.Assign(context.Background(), 101, false)
	if err != nil {
		t.Fatalf("Assign(user 101) error = %v", err)
	}
	if badge != nil {
		t.Errorf("user 101: badge = %q, want none", *badge)
	}
}

func TestAssignIsIdempotent(t *testing.T) {
	a := NewAssigner(newMemStore())

	first, err := a.Assign(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("first Assign() error = %v", err)
	}
	second, err := a.Assign(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("second Assign() error = %v", err)
	}
	if first == nil || second == nil || *first != *second {
		t.Errorf("repeat call changed the decision: %v then %v", first, second)
	}
}

func TestVanguardSubTiers(t *testing.T) {
	a := NewAssigner(newMemStore())

	wantAt := map[int64]string{
		1:   "Vanguard of Wisdom (Prime)",
		50:  "Vanguard of Wisdom (Prime)",
		51:  "Vanguard of Wisdom (Ancient)",
		150: "Vanguard of Wisdom (Ancient)",
		151: "Vanguard of Wisdom (New)",
		300: "Vanguard of Wisdom (New)",
	}

	for i := int64(1); i <= 300; i++ {
		badge, err := a.Assign(context.Background(), i, true)
		if err != nil {
			t.Fatalf("Assign(user %d) error = %v", i, err)
		}
		if badge == nil {
			t.Fatalf("user %d: no badge within cap", i)
		}
		if want, check := wantAt[i]; check && *badge != want {
			t.Errorf("user %d: badge = %q, want %q", i, *badge, want)
		}
	}

	badge, err := a.Assign(context.Background(), 301, true)
	if err != nil {
		t.Fatalf("Assign(user 301) error = %v", err)
	}
	if badge != nil {
		t.Errorf("user 301: badge = %q, want none", *badge)
	}
}

func TestMissedTorchbearerStillEligibleForVanguard(t *testing.T) {
	store := newMemStore()
	store.counters[CounterTorchbearer].granted = 100
	a := NewAssigner(store)

	// Registered free after the cap: no badge recorded.
	badge, err := a.Assign(context.Background(), 7, false)
	if err != nil {
		t.Fatalf("free Assign() error = %v", err)
	}
	if badge != nil {
		t.Fatalf("free badge = %q, want none", *badge)
	}

	// Upgrading reopens the decision in the premium bracket.
	badge, err = a.Assign(context.Background(), 7, true)
	if err != nil {
		t.Fatalf("premium Assign() error = %v", err)
	}
	if badge == nil || *badge != "Vanguard of Wisdom (Prime)" {
		t.Errorf("premium badge = %v, want Vanguard of Wisdom (Prime)", badge)
	}
}
