package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"household-budget-go-be/models"
)

func TestOwnerDrawSource(t *testing.T) {
	business := &models.Entity{Type: models.EntityBusiness}
	personal := &models.Entity{Type: models.EntityPersonal}
	drawCategory := &models.Category{IsOwnerDraw: true}
	plainCategory := &models.Category{}

	tests := []struct {
		name     string
		txType   string
		category *models.Category
		entity   *models.Entity
		want     bool
	}{
		{"business expense with flagged category", models.TypeExpense, drawCategory, business, true},
		{"income never links", models.TypeIncome, drawCategory, business, false},
		{"unflagged category never links", models.TypeExpense, plainCategory, business, false},
		{"personal entity never links", models.TypeExpense, drawCategory, personal, false},
		{"missing category", models.TypeExpense, nil, business, false},
		{"missing entity", models.TypeExpense, drawCategory, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &models.Transaction{Type: tt.txType}
			assert.Equal(t, tt.want, ownerDrawSource(src, tt.category, tt.entity))
		})
	}
}

// The mirror of an owner-draw expense is a single income transaction in the
// personal entity for the same date and amount, payee-tagged and flagged as
// a transfer.
func TestBuildMirror(t *testing.T) {
	userID := uuid.New()
	src := &models.Transaction{
		ID:              uuid.New(),
		HouseholdID:     uuid.New(),
		EntityID:        uuid.New(),
		Date:            "2024-03-10",
		AmountCents:     250000,
		Type:            models.TypeExpense,
		Payee:           "Owner Draw March",
		CreatedByUserID: &userID,
	}
	personalEntityID := uuid.New()
	budgetMonthID := uuid.New()
	categoryID := uuid.New()

	mirror := buildMirror(src, personalEntityID, budgetMonthID, &categoryID)

	assert.Equal(t, models.TypeIncome, mirror.Type)
	assert.Equal(t, src.AmountCents, mirror.AmountCents)
	assert.Equal(t, src.Date, mirror.Date)
	assert.Equal(t, "Owner Draw March (Draw)", mirror.Payee)
	assert.True(t, mirror.IsTransfer)
	assert.Equal(t, src.HouseholdID, mirror.HouseholdID)
	assert.Equal(t, personalEntityID, mirror.EntityID)
	assert.Equal(t, budgetMonthID, mirror.BudgetMonthID)
	assert.Equal(t, &categoryID, mirror.CategoryID)
	assert.Equal(t, &userID, mirror.CreatedByUserID)
	assert.Nil(t, mirror.AccountID)
}

func TestBuildMirror_NoCategory(t *testing.T) {
	src := &models.Transaction{Type: models.TypeExpense, Payee: "Draw"}
	mirror := buildMirror(src, uuid.New(), uuid.New(), nil)
	assert.Nil(t, mirror.CategoryID)
}

// Updating the source transaction syncs only date, amount and payee to the
// mirror; its type, category and entity assignment stay untouched.
func TestSyncMirrorFields(t *testing.T) {
	mirrorCategoryID := uuid.New()
	mirrorEntityID := uuid.New()
	mirror := &models.Transaction{
		EntityID:    mirrorEntityID,
		Date:        "2024-03-10",
		AmountCents: 250000,
		Type:        models.TypeIncome,
		Payee:       "Owner Draw March (Draw)",
		CategoryID:  &mirrorCategoryID,
		IsTransfer:  true,
	}
	srcCategoryID := uuid.New()
	src := &models.Transaction{
		EntityID:    uuid.New(),
		Date:        "2024-04-01",
		AmountCents: 300000,
		Type:        models.TypeExpense,
		Payee:       "Owner Draw April",
		CategoryID:  &srcCategoryID,
	}

	syncMirrorFields(mirror, src)

	assert.Equal(t, "2024-04-01", mirror.Date)
	assert.Equal(t, int64(300000), mirror.AmountCents)
	assert.Equal(t, "Owner Draw April (Draw)", mirror.Payee)
	assert.Equal(t, models.TypeIncome, mirror.Type)
	assert.Equal(t, &mirrorCategoryID, mirror.CategoryID)
	assert.Equal(t, mirrorEntityID, mirror.EntityID)
	assert.True(t, mirror.IsTransfer)
}

// A payee that already carries the suffix is not tagged twice when synced.
func TestSyncMirrorFields_SuffixIdempotent(t *testing.T) {
	mirror := &models.Transaction{Type: models.TypeIncome}
	src := &models.Transaction{Payee: "Owner Draw (Draw)"}

	syncMirrorFields(mirror, src)
	assert.Equal(t, "Owner Draw (Draw)", mirror.Payee)
}
