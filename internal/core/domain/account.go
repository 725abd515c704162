package domain

// ChannelType identifies a payment rail a supervisor holds float on.
type ChannelType string

const (
	ChannelCash         ChannelType = "CASH"
	ChannelMobileMoneyA ChannelType = "MOBILE_MONEY_A"
	ChannelMobileMoneyB ChannelType = "MOBILE_MONEY_B"
	// ChannelFloatPool is the reserved channel for centrally allocated working
	// capital. Supervisors cannot delete or reset lines on it.
	ChannelFloatPool ChannelType = "FLOAT_POOL"
)

// IsValid reports whether the channel is one of the known rails.
func (c ChannelType) IsValid() bool {
	switch c {
	case ChannelCash, ChannelMobileMoneyA, ChannelMobileMoneyB, ChannelFloatPool:
		return true
	}
	return false
}

// Account is the per-(user, channel) balance record. Amounts are integer minor
// units; exactly one account exists per (UserID, ChannelType) pair, upserted on
// first use. Balance fields are only ever mutated alongside a paired ledger
// append within the same database transaction.
type Account struct {
	AccountID   string      `json:"accountID"` // Primary Key (UUID)
	UserID      string      `json:"userID"`    // FK -> users.user_id
	ChannelType ChannelType `json:"channelType"`
	StartOfDay  int64       `json:"startOfDay"` // Opening balance, minor units
	EndOfDay    int64       `json:"endOfDay"`   // Closing/current balance, minor units
	AuditFields
}

// LineKind selects which balance field of an account a correction targets.
type LineKind string

const (
	LineStartOfDay LineKind = "START_OF_DAY"
	LineEndOfDay   LineKind = "END_OF_DAY"
)

// IsValid reports whether the line kind is one of the two balance fields.
func (k LineKind) IsValid() bool {
	return k == LineStartOfDay || k == LineEndOfDay
}
