package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"household-budget-go-be/models"
)

// ErrTransactionNotFound means the transaction id doesn't exist for the
// household.
var ErrTransactionNotFound = errors.New("transaction not found")

// ErrInvalidInput wraps input validation failures so callers can map them to
// user-facing errors.
var ErrInvalidInput = errors.New("invalid input")

// Service owns transaction writes and the balance and linked-transfer
// maintenance that rides along with them. Every entry point runs in a single
// database transaction so a failed write never leaves a half-applied balance.
type Service struct {
	db *gorm.DB
}

// NewService creates a ledger service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// BalanceDelta returns the signed effect a transaction has on its account:
// income adds, expense subtracts.
func BalanceDelta(amountCents int64, txType string) int64 {
	if txType == models.TypeIncome {
		return amountCents
	}
	return -amountCents
}

// ApplyBalanceEffect adjusts an account's running balance for one transaction
// effect via a single atomic increment. No-op without an account.
func ApplyBalanceEffect(tx *gorm.DB, accountID *uuid.UUID, amountCents int64, txType string) error {
	return applyDelta(tx, accountID, BalanceDelta(amountCents, txType))
}

func applyDelta(tx *gorm.DB, accountID *uuid.UUID, delta int64) error {
	if accountID == nil || delta == 0 {
		return nil
	}
	return tx.Model(&models.Account{}).
		Where("id = ?", *accountID).
		Updates(map[string]interface{}{
			"balance_cents": gorm.Expr("balance_cents + ?", delta),
			"updated_at":    time.Now(),
		}).Error
}

// GetOrCreateBudgetMonth resolves the household+entity budget month record
// for a "2006-01" month, creating it when missing.
func GetOrCreateBudgetMonth(tx *gorm.DB, householdID, entityID uuid.UUID, month string) (uuid.UUID, error) {
	var bm models.BudgetMonth
	err := tx.Where("household_id = ? AND entity_id = ? AND month_yyyymm = ?", householdID, entityID, month).
		First(&bm).Error
	if err == nil {
		return bm.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, err
	}

	bm = models.BudgetMonth{
		HouseholdID: householdID,
		EntityID:    entityID,
		MonthYYYYMM: month,
	}
	if err := tx.Create(&bm).Error; err != nil {
		return uuid.Nil, err
	}
	return bm.ID, nil
}

// CreateInput describes a transaction to record.
type CreateInput struct {
	HouseholdID     uuid.UUID
	EntityID        uuid.UUID
	AccountID       *uuid.UUID
	Date            string // ISO "2006-01-02"
	AmountCents     int64  // non-negative magnitude
	Type            string // income | expense
	Payee           string
	Memo            string
	CategoryID      *uuid.UUID
	CreatedByUserID *uuid.UUID
}

func (in CreateInput) validate() error {
	if in.Payee == "" {
		return fmt.Errorf("%w: payee is required", ErrInvalidInput)
	}
	if in.AmountCents <= 0 {
		return fmt.Errorf("%w: amount must be greater than 0", ErrInvalidInput)
	}
	if in.Type != models.TypeIncome && in.Type != models.TypeExpense {
		return fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, in.Type)
	}
	if len(in.Date) < 10 {
		return fmt.Errorf("%w: malformed date %q", ErrInvalidInput, in.Date)
	}
	return nil
}

// CreateTransaction records a transaction, applies its balance effect, and
// mirrors it into the personal entity when it is an owner draw.
func (s *Service) CreateTransaction(in CreateInput) (*models.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		budgetMonthID, err := GetOrCreateBudgetMonth(tx, in.HouseholdID, in.EntityID, in.Date[:7])
		if err != nil {
			return err
		}

		var memo *string
		if in.Memo != "" {
			memo = &in.Memo
		}
		created = models.Transaction{
			HouseholdID:     in.HouseholdID,
			EntityID:        in.EntityID,
			AccountID:       in.AccountID,
			BudgetMonthID:   budgetMonthID,
			Date:            in.Date,
			AmountCents:     in.AmountCents,
			Type:            in.Type,
			Payee:           in.Payee,
			Memo:            memo,
			CategoryID:      in.CategoryID,
			CreatedByUserID: in.CreatedByUserID,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		if err := ApplyBalanceEffect(tx, created.AccountID, created.AmountCents, created.Type); err != nil {
			return err
		}
		return s.maybeLinkOwnerDraw(tx, &created)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateInput carries the editable transaction fields.
type UpdateInput struct {
	TransactionID uuid.UUID
	HouseholdID   uuid.UUID
	Date          string
	AmountCents   int64
	Type          string
	Payee         string
	Memo          string
	CategoryID    *uuid.UUID
}

// UpdateTransaction rewrites a transaction's fields, fixes its account
// balance, and pushes date/amount/payee to a linked mirror if one exists.
// The reverse-then-reapply of the balance happens inside the same database
// transaction as the row update.
func (s *Service) UpdateTransaction(in UpdateInput) (*models.Transaction, error) {
	create := CreateInput{
		Payee:       in.Payee,
		AmountCents: in.AmountCents,
		Type:        in.Type,
		Date:        in.Date,
	}
	if err := create.validate(); err != nil {
		return nil, err
	}

	var updated models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var current models.Transaction
		err := tx.Where("id = ? AND household_id = ?", in.TransactionID, in.HouseholdID).
			First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		if err != nil {
			return err
		}

		budgetMonthID, err := GetOrCreateBudgetMonth(tx, current.HouseholdID, current.EntityID, in.Date[:7])
		if err != nil {
			return err
		}

		if err := applyDelta(tx, current.AccountID, -BalanceDelta(current.AmountCents, current.Type)); err != nil {
			return err
		}
		if err := applyDelta(tx, current.AccountID, BalanceDelta(in.AmountCents, in.Type)); err != nil {
			return err
		}

		var memo *string
		if in.Memo != "" {
			memo = &in.Memo
		}
		current.BudgetMonthID = budgetMonthID
		current.Date = in.Date
		current.AmountCents = in.AmountCents
		current.Type = in.Type
		current.Payee = in.Payee
		current.Memo = memo
		current.CategoryID = in.CategoryID
		if err := tx.Save(&current).Error; err != nil {
			return err
		}

		if err := s.syncLinkedMirror(tx, &current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTransaction removes a transaction and reverses its balance effect.
// A linked mirror cascade-deletes through the link row's foreign keys; its
// balance effect is reversed here before the cascade fires.
func (s *Service) DeleteTransaction(transactionID, householdID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var current models.Transaction
		err := tx.Where("id = ? AND household_id = ?", transactionID, householdID).
			First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		if err != nil {
			return err
		}

		if err := applyDelta(tx, current.AccountID, -BalanceDelta(current.AmountCents, current.Type)); err != nil {
			return err
		}

		var link models.LinkedTransfer
		err = tx.Where("from_transaction_id = ?", current.ID).First(&link).Error
		if err == nil {
			var mirror models.Transaction
			if err := tx.First(&mirror, "id = ?", link.ToTransactionID).Error; err == nil {
				if err := applyDelta(tx, mirror.AccountID, -BalanceDelta(mirror.AmountCents, mirror.Type)); err != nil {
					return err
				}
				if err := tx.Delete(&mirror).Error; err != nil {
					return err
				}
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Delete(&current).Error
	})
}
