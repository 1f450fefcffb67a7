package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pitchside/fixture-engine/models"
)

// MatchSource is the read-side of the persisted match store the detector
// scans. Implementations must return matches whose [StartsAt, EndsAt) window
// intersects [from, to), already filtered to venueID when it is non-nil.
type MatchSource interface {
	ListOverlapping(ctx context.Context, venueID *int, from, to time.Time) ([]*models.Match, error)
}

// BlockedWindowSource lists externally maintained venue blackout windows
// intersecting the given range.
type BlockedWindowSource interface {
	ListBlocked(ctx context.Context, venueID int, from, to time.Time) ([]*models.BlockedWindow, error)
}

type ConflictKind string

const (
	ConflictMatchOverlap ConflictKind = "match_overlap"
	ConflictVenueBlocked ConflictKind = "venue_blocked"
)

// Conflict describes one overlapping booking with enough structure for a
// human operator to resolve it: the competing match or blocked window, the
// venue, and the exact span of the overlap.
type Conflict struct {
	Kind            ConflictKind `json:"kind"`
	MatchID         *int         `json:"match_id,omitempty"`
	MatchUID        string       `json:"match_uid,omitempty"`
	BlockedWindowID *int         `json:"blocked_window_id,omitempty"`
	BlockedReason   string       `json:"blocked_reason,omitempty"`
	VenueID         *int         `json:"venue_id,omitempty"`
	OverlapStart    time.Time    `json:"overlap_start"`
	OverlapEnd      time.Time    `json:"overlap_end"`
}

// ConflictError carries the full conflict list so callers can surface every
// problem at once instead of iterating one conflict at a time.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 1 {
		return "scheduling conflict: 1 overlapping booking"
	}
	return fmt.Sprintf("scheduling conflict: %d overlapping bookings", len(e.Conflicts))
}

// BatchReport is the outcome of validating a whole candidate batch.
// Conflicts are keyed by candidate UID so each one can be traced back.
type BatchReport struct {
	Valid     bool                  `json:"valid"`
	Conflicts map[string][]Conflict `json:"conflicts,omitempty"`
}

// TimeRange is a conflict-free window proposed by SuggestAlternatives.
type TimeRange struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

type Detector struct {
	matches MatchSource
	windows BlockedWindowSource
}

func NewDetector(matches MatchSource, windows BlockedWindowSource) *Detector {
	return &Detector{matches: matches, windows: windows}
}

// FindConflicts scans persisted matches (and, when a venue is given, that
// venue's blocked windows) for overlaps with [startsAt, endsAt). Cancelled
// matches never conflict; excludeMatchID removes the match being moved from
// its own scan. Detection only: nothing is resolved here.
func (d *Detector) FindConflicts(ctx context.Context, startsAt, endsAt time.Time, venueID, excludeMatchID *int) ([]Conflict, error) {
	if err := ValidateInterval(startsAt, endsAt); err != nil {
		return nil, err
	}

	existing, err := d.matches.ListOverlapping(ctx, venueID, startsAt, endsAt)
	if err != nil {
		return nil, fmt.Errorf("conflict scan: list matches: %w", err)
	}

	var conflicts []Conflict
	for _, m := range existing {
		if m.Status == models.MatchStatusCancelled {
			continue
		}
		if excludeMatchID != nil && m.ID == *excludeMatchID {
			continue
		}
		if !Overlaps(startsAt, endsAt, m.StartsAt, m.EndsAt) {
			continue
		}
		oStart, oEnd := OverlapSpan(startsAt, endsAt, m.StartsAt, m.EndsAt)
		id := m.ID
		conflicts = append(conflicts, Conflict{
			Kind:         ConflictMatchOverlap,
			MatchID:      &id,
			MatchUID:     m.UID,
			VenueID:      m.VenueID,
			OverlapStart: oStart,
			OverlapEnd:   oEnd,
		})
	}

	if venueID != nil {
		blocked, err := d.windows.ListBlocked(ctx, *venueID, startsAt, endsAt)
		if err != nil {
			return nil, fmt.Errorf("conflict scan: list blocked windows: %w", err)
		}
		for _, w := range blocked {
			if !Overlaps(startsAt, endsAt, w.StartsAt, w.EndsAt) {
				continue
			}
			oStart, oEnd := OverlapSpan(startsAt, endsAt, w.StartsAt, w.EndsAt)
			id := w.ID
			vid := w.VenueID
			conflicts = append(conflicts, Conflict{
				Kind:            ConflictVenueBlocked,
				BlockedWindowID: &id,
				BlockedReason:   w.Reason,
				VenueID:         &vid,
				OverlapStart:    oStart,
				OverlapEnd:      oEnd,
			})
		}
	}

	return conflicts, nil
}

// ValidateBatch checks every candidate against both the persisted matches and
// its siblings in the same batch. The whole batch is walked even after the
// first hit, so one correction round can fix every conflict. The caller must
// hold the snapshot consistent (transaction or lock) between validation and
// persistence.
func (d *Detector) ValidateBatch(ctx context.Context, candidates []*models.Match) (*BatchReport, error) {
	report := &BatchReport{Valid: true, Conflicts: make(map[string][]Conflict)}

	for i, c := range candidates {
		found, err := d.FindConflicts(ctx, c.StartsAt, c.EndsAt, c.VenueID, nil)
		if err != nil {
			return nil, fmt.Errorf("validate batch: candidate %s: %w", c.UID, err)
		}

		// Sibling check: candidates are not persisted yet, so the store scan
		// above cannot see them.
		for j, other := range candidates {
			if i == j {
				continue
			}
			if !venueMatches(c.VenueID, other.VenueID) {
				continue
			}
			if !Overlaps(c.StartsAt, c.EndsAt, other.StartsAt, other.EndsAt) {
				continue
			}
			oStart, oEnd := OverlapSpan(c.StartsAt, c.EndsAt, other.StartsAt, other.EndsAt)
			found = append(found, Conflict{
				Kind:         ConflictMatchOverlap,
				MatchUID:     other.UID,
				VenueID:      other.VenueID,
				OverlapStart: oStart,
				OverlapEnd:   oEnd,
			})
		}

		if len(found) > 0 {
			report.Valid = false
			report.Conflicts[candidateKey(c, i)] = found
		}
	}

	return report, nil
}

// SuggestAlternatives probes a fixed ladder of offsets around the preferred
// start (+/-30m, +/-1h, +/-2h) and returns up to max conflict-free windows.
// A bounded linear probe, not a search over all future times.
func (d *Detector) SuggestAlternatives(ctx context.Context, venueID int, preferredStart time.Time, duration time.Duration, max int) ([]TimeRange, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("suggest alternatives: %w (got %s)", ErrNonPositiveDuration, duration)
	}
	if preferredStart.IsZero() {
		return nil, fmt.Errorf("suggest alternatives: %w: zero start instant", ErrInvalidInterval)
	}
	if max <= 0 {
		return nil, nil
	}

	offsets := []time.Duration{
		30 * time.Minute, -30 * time.Minute,
		time.Hour, -time.Hour,
		2 * time.Hour, -2 * time.Hour,
	}

	var suggestions []TimeRange
	for _, off := range offsets {
		start := preferredStart.Add(off)
		end := start.Add(duration)
		conflicts, err := d.FindConflicts(ctx, start, end, &venueID, nil)
		if err != nil {
			return nil, err
		}
		if len(conflicts) == 0 {
			suggestions = append(suggestions, TimeRange{StartsAt: start, EndsAt: end})
			if len(suggestions) == max {
				break
			}
		}
	}

	return suggestions, nil
}

// venueMatches mirrors the store-side filter: no venue on the candidate means
// no filter at all, otherwise only bookings at that exact venue compete.
func venueMatches(candidate, other *int) bool {
	if candidate == nil {
		return true
	}
	return other != nil && *other == *candidate
}

func candidateKey(m *models.Match, idx int) string {
	if strings.TrimSpace(m.UID) != "" {
		return m.UID
	}
	return fmt.Sprintf("candidate_%d", idx)
}
