package badges

import (
	"context"
	"fmt"

	"github.com/examprep/backend/internal/models"
)

// Early-adopter badge labels. Torchbearer is capped at 100 free users;
// the vanguard badges share a single cap of 300 premium users, with the
// sub-tier taken from how many vanguard slots were claimed before this
// one: first 50 Prime, next 100 Ancient, New thereafter.
const (
	BadgeTorchbearer = "First Torchbearer"

	CounterTorchbearer = "first_torchbearer"
	CounterVanguard    = "vanguard"
)

// Store is the persistence contract for badge decisions. Every method
// must be atomic at the adapter level: badge caps are global counters
// and two users can qualify in the same instant.
type Store interface {
	// BeginDecision claims the right to decide the user's badge for the
	// given tier bracket. When a decision already exists it returns
	// started=false along with the recorded badge (nil for a recorded
	// "no badge"). A recorded no-badge decision in a different bracket
	// is reopened, so a free user who missed the torchbearer cap is
	// still evaluated for vanguard on upgrade.
	BeginDecision(ctx context.Context, userID int64, bracket models.Tier) (started bool, existing *string, err error)
	// ClaimSlot atomically claims one slot of the named capped counter.
	// It returns the slot index (number granted before this claim) and
	// ok=false when the cap was already reached.
	ClaimSlot(ctx context.Context, counter string) (before int, ok bool, err error)
	// FinishDecision records the outcome on the decision row and mirrors
	// the label onto the user record.
	FinishDecision(ctx context.Context, userID int64, badge *string) error
}

// Assigner awards the one-time early-adopter badges.
type Assigner struct {
	store Store
}

func NewAssigner(store Store) *Assigner {
	return &Assigner{store: store}
}

// Assign evaluates the badge policy for the user once. Repeat calls
// return the recorded decision instead of granting a second badge.
// Returns nil when the user's bracket cap is exhausted.
func (a *Assigner) Assign(ctx context.Context, userID int64, isPremium bool) (*string, error) {
	bracket := models.TierFree
	if isPremium {
		bracket = models.TierPremium
	}

	started, existing, err := a.store.BeginDecision(ctx, userID, bracket)
	if err != nil {
		return nil, fmt.Errorf("begin badge decision: %w", err)
	}
	if !started {
		return existing, nil
	}

	counter := CounterTorchbearer
	if isPremium {
		counter = CounterVanguard
	}

	var badge *string
	before, ok, err := a.store.ClaimSlot(ctx, counter)
	if err != nil {
		return nil, fmt.Errorf("claim badge slot: %w", err)
	}
	if ok {
		label := BadgeTorchbearer
		if isPremium {
			label = vanguardLabel(before)
		}
		badge = &label
	}

	if err := a.store.FinishDecision(ctx, userID, badge); err != nil {
		return nil, fmt.Errorf("finish badge decision: %w", err)
	}
	return badge, nil
}

func vanguardLabel(slot int) string {
	tier := "New"
	switch {
	case slot < 50:
		tier = "Prime"
	case slot < 150:
		tier = "Ancient"
	}
	return fmt.Sprintf("Vanguard of Wisdom (%s)", tier)
}
