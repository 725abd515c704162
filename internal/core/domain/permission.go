package domain

import "time"

// CorrectionTarget identifies the balance line a correction or deletion is
// aimed at. Key is either a ChannelType string or a "partner:<name>" key.
type CorrectionTarget struct {
	SupervisorID string
	Key          string
	LineKind     LineKind
}

// Channel returns the channel the key addresses, or false for partner keys.
func (t CorrectionTarget) Channel() (ChannelType, bool) {
	if _, isPartner := ParsePartnerKey(t.Key); isPartner {
		return "", false
	}
	return ChannelType(t.Key), true
}

// CorrectionDecision is the permission engine's verdict on a correction
// request. Reason carries the specific denial text when Allowed is false;
// OrganicOwnership reports whether ownership came from the actor's own
// transactions rather than being granted by default on an untouched line.
type CorrectionDecision struct {
	Allowed          bool
	OrganicOwnership bool
	Reason           string
}

// Correction window bounds: a line whose most recent relevant entry is younger
// than MinCorrectionAge is protected against accidental edits, one older than
// MaxCorrectionAge is outside the correction window.
const (
	MinCorrectionAge = time.Minute
	MaxCorrectionAge = 30 * time.Minute
)

// EntryPermissions is the per-entry verdict shown to a viewer: whether the
// single ledger entry may still be modified or deleted by them.
type EntryPermissions struct {
	CanModify bool `json:"canModify"`
	CanDelete bool `json:"canDelete"`
}

// Per-role age limits for acting on an already-posted entry.
const (
	AdminEntryEditWindow      = 7 * 24 * time.Hour
	SupervisorEntryEditWindow = 24 * time.Hour
)
