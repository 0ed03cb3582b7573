package importer

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"household-budget-go-be/csvparse"
)

func parsed(date string, cents int64, payee string) csvparse.ParsedTransaction {
	return csvparse.ParsedTransaction{
		Date:        date,
		AmountCents: cents,
		Type:        "expense",
		Payee:       payee,
		Hash:        csvparse.Fingerprint(date, cents, payee),
	}
}

func TestPartition(t *testing.T) {
	existing := parsed("2024-01-15", 4250, "WALMART #123")
	fresh := parsed("2024-01-16", 999, "COFFEE SHOP")

	recent := map[string]struct{}{existing.Hash: {}}

	newTxs, duplicates := Partition([]csvparse.ParsedTransaction{existing, fresh}, recent)

	require.Len(t, newTxs, 1)
	assert.Equal(t, "COFFEE SHOP", newTxs[0].Payee)
	require.Len(t, duplicates, 1)
	assert.Equal(t, "WALMART #123", duplicates[0].Payee)
}

// Re-importing a row with identical date/amount/payee must be flagged as a
// duplicate even when the source file differs, because the fingerprint is
// recomputed from stored values with the same formula.
func TestPartition_RoundTrip(t *testing.T) {
	imported := parsed("2024-01-15", 4250, "WALMART #123")

	// Simulate the stored row being fingerprinted at comparison time.
	recent := map[string]struct{}{
		csvparse.Fingerprint("2024-01-15", 4250, "walmart #123 "): {},
	}

	newTxs, duplicates := Partition([]csvparse.ParsedTransaction{imported}, recent)
	assert.Empty(t, newTxs)
	assert.Len(t, duplicates, 1)
}

func TestPartition_Empty(t *testing.T) {
	newTxs, duplicates := Partition(nil, map[string]struct{}{})
	assert.Empty(t, newTxs)
	assert.Empty(t, duplicates)
}

// A session id staged by one household must be unusable by another: the
// confirm step answers with the same error as for a missing session and
// leaves the staged data untouched.
func TestConfirm_SessionScopedToHousehold(t *testing.T) {
	store := NewStore(time.Minute)
	im := New(nil, nil, store)

	staged := stagedFixture()
	sessionID := store.Put(staged)

	_, err := im.Confirm(ConfirmInput{
		SessionID:   sessionID,
		HouseholdID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrNoStagedImport)

	// The owning household's staged rows are still there for retry.
	got, ok := store.Get(sessionID)
	require.True(t, ok)
	assert.Equal(t, staged.HouseholdID, got.HouseholdID)
	assert.Len(t, got.Transactions, 1)
}

func TestConfirm_UnknownSession(t *testing.T) {
	im := New(nil, nil, NewStore(time.Minute))

	_, err := im.Confirm(ConfirmInput{
		SessionID:   uuid.NewString(),
		HouseholdID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrNoStagedImport)
}
