package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/floatops/float_ledger_app/internal/core/domain"
)

func TestExpandCategory(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     []domain.EntryType
	}{
		{"deposit covers opening declarations", "deposit", []domain.EntryType{domain.EntryDeposit, domain.EntryStartOfDay}},
		{"withdrawal covers closing declarations", "withdrawal", []domain.EntryType{domain.EntryWithdrawal, domain.EntryEndOfDay}},
		{"transfer covers both directions", "transfer", []domain.EntryType{domain.EntryTransferOut, domain.EntryTransferIn}},
		{"pool", "pool", []domain.EntryType{domain.EntryPoolAllocation}},
		{"audit", "audit", []domain.EntryType{domain.EntryAuditCorrection, domain.EntryAuditDeletion}},
		{"case-insensitive", "DEPOSIT", []domain.EntryType{domain.EntryDeposit, domain.EntryStartOfDay}},
		{"unknown", "bribes", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ExpandCategory(tt.category))
		})
	}
}

func TestPartnerKey(t *testing.T) {
	key := domain.PartnerKey("Amadou")
	assert.Equal(t, "partner:Amadou", key)

	name, ok := domain.ParsePartnerKey(key)
	assert.True(t, ok)
	assert.Equal(t, "Amadou", name)

	_, ok = domain.ParsePartnerKey("CASH")
	assert.False(t, ok)
}

func TestCorrectionTargetChannel(t *testing.T) {
	channelTarget := domain.CorrectionTarget{Key: "CASH"}
	channel, isChannel := channelTarget.Channel()
	assert.True(t, isChannel)
	assert.Equal(t, domain.ChannelCash, channel)

	partnerTarget := domain.CorrectionTarget{Key: domain.PartnerKey("Amadou")}
	_, isChannel = partnerTarget.Channel()
	assert.False(t, isChannel)
}

func TestEntryTypeIsAudit(t *testing.T) {
	assert.True(t, domain.EntryAuditCorrection.IsAudit())
	assert.True(t, domain.EntryAuditDeletion.IsAudit())
	assert.False(t, domain.EntryDeposit.IsAudit())
	assert.False(t, domain.EntryStartOfDay.IsAudit())
}
