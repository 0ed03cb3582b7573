package importer

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stagedFixture() *StagedImport {
	return &StagedImport{
		HouseholdID: uuid.New(),
		EntityID:    uuid.New(),
		Transactions: []StagedTransaction{
			{ParsedTransaction: parsed("2024-01-15", 4250, "WALMART #123")},
		},
	}
}

func TestStore_PutGetDelete(t *testing.T) {
	store := NewStore(time.Minute)

	id := store.Put(stagedFixture())
	require.NotEmpty(t, id)

	got, ok := store.Get(id)
	require.True(t, ok)
	assert.Len(t, got.Transactions, 1)

	store.Delete(id)
	_, ok = store.Get(id)
	assert.False(t, ok)
}

func TestStore_UnknownSession(t *testing.T) {
	store := NewStore(time.Minute)
	_, ok := store.Get(uuid.NewString())
	assert.False(t, ok)
}

func TestStore_TTLEviction(t *testing.T) {
	store := NewStore(time.Minute)

	current := time.Now()
	store.now = func() time.Time { return current }

	id := store.Put(stagedFixture())

	// Still present just inside the TTL.
	current = current.Add(59 * time.Second)
	_, ok := store.Get(id)
	assert.True(t, ok)

	// Evicted once the TTL passes.
	current = current.Add(2 * time.Second)
	_, ok = store.Get(id)
	assert.False(t, ok)
}

func TestStore_SessionIDsAreUnique(t *testing.T) {
	store := NewStore(time.Minute)
	a := store.Put(stagedFixture())
	b := store.Put(stagedFixture())
	assert.NotEqual(t, a, b)
}
