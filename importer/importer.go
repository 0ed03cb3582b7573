package importer

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"household-budget-go-be/csvparse"
	"household-budget-go-be/ledger"
	"household-budget-go-be/models"
	"household-budget-go-be/rules"
)

// DuplicateWindowDays bounds the duplicate scan to recent transactions.
// Widening it changes import performance, not correctness.
const DuplicateWindowDays = 90

const importMemo = "Imported from CSV"

// ErrNoStagedImport means the confirm step found no staged data for the
// session, typically because it expired or was already imported.
var ErrNoStagedImport = errors.New("no staged import for session")

// Importer composes the CSV parser, duplicate detection and the rule engine
// into the preview/confirm flow.
type Importer struct {
	db    *gorm.DB
	rules *rules.Engine
	store *Store
}

// New creates an importer.
func New(db *gorm.DB, engine *rules.Engine, store *Store) *Importer {
	return &Importer{db: db, rules: engine, store: store}
}

// PreviewInput is an uploaded file plus where its rows should land.
type PreviewInput struct {
	HouseholdID uuid.UUID
	EntityID    uuid.UUID
	AccountID   *uuid.UUID
	Content     []byte
	FormatID    string
}

// PreviewResult is returned to the client for review before confirming.
// SessionID is empty when parsing failed structurally and nothing was staged.
type PreviewResult struct {
	SessionID       string                       `json:"session_id,omitempty"`
	NewTransactions []StagedTransaction          `json:"new_transactions"`
	Duplicates      []csvparse.ParsedTransaction `json:"duplicates"`
	Errors          []string                     `json:"errors"`
	DetectedFormat  string                       `json:"detected_format"`
	FormatName      string                       `json:"format_name"`
}

// Preview parses the upload, splits rows into new vs duplicates of recently
// stored transactions, attaches rule-engine category suggestions to the new
// ones, and stages them for Confirm.
func (im *Importer) Preview(in PreviewInput) (*PreviewResult, error) {
	parsed := csvparse.Parse(in.Content, in.FormatID)

	result := &PreviewResult{
		Errors:         parsed.Errors,
		DetectedFormat: parsed.DetectedFormat,
		FormatName:     parsed.FormatName,
	}
	if len(parsed.Transactions) == 0 {
		return result, nil
	}

	recent, err := RecentFingerprints(im.db, in.HouseholdID, DuplicateWindowDays)
	if err != nil {
		return nil, err
	}
	newTxs, duplicates := Partition(parsed.Transactions, recent)
	result.Duplicates = duplicates

	staged := make([]StagedTransaction, 0, len(newTxs))
	for _, tx := range newTxs {
		categoryID, err := im.rules.Match(in.HouseholdID, tx.Payee)
		if err != nil {
			return nil, err
		}
		staged = append(staged, StagedTransaction{
			ParsedTransaction:   tx,
			SuggestedCategoryID: categoryID,
		})
	}
	result.NewTransactions = staged

	if len(staged) > 0 {
		result.SessionID = im.store.Put(&StagedImport{
			HouseholdID:  in.HouseholdID,
			EntityID:     in.EntityID,
			AccountID:    in.AccountID,
			Transactions: staged,
		})
	}
	return result, nil
}

// Partition splits parsed rows into new candidates and duplicates of the
// recent fingerprint set.
func Partition(txs []csvparse.ParsedTransaction, recent map[string]struct{}) (newTxs, duplicates []csvparse.ParsedTransaction) {
	for _, tx := range txs {
		if _, dup := recent[tx.Hash]; dup {
			duplicates = append(duplicates, tx)
		} else {
			newTxs = append(newTxs, tx)
		}
	}
	return newTxs, duplicates
}

// RecentFingerprints recomputes fingerprints for the household's
// transactions from the last windowDays days, using the same formula the
// parser uses.
func RecentFingerprints(db *gorm.DB, householdID uuid.UUID, windowDays int) (map[string]struct{}, error) {
	cutoff := time.Now().AddDate(0, 0, -windowDays).Format("2006-01-02")

	var rows []models.Transaction
	err := db.Select("date, amount_cents, payee").
		Where("household_id = ? AND date >= ?", householdID, cutoff).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	hashes := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		hashes[csvparse.Fingerprint(row.Date, row.AmountCents, row.Payee)] = struct{}{}
	}
	return hashes, nil
}

// ConfirmInput selects staged rows to persist. An empty Selected means all
// staged rows. CategoryOverrides replaces the rule engine's suggestion per
// row index.
type ConfirmInput struct {
	SessionID         string
	HouseholdID       uuid.UUID
	UserID            *uuid.UUID
	Selected          []int
	CategoryOverrides map[int]uuid.UUID
}

// ConfirmResult reports what was imported. Month is the first imported row's
// budget month, for redirecting the client.
type ConfirmResult struct {
	Imported int    `json:"imported"`
	Month    string `json:"month"`
}

// Confirm persists the selected staged rows inside a single database
// transaction. On failure everything rolls back and the staged data stays
// put for retry; on success the staging session is cleared.
func (im *Importer) Confirm(in ConfirmInput) (*ConfirmResult, error) {
	staged, ok := im.store.Get(in.SessionID)
	if !ok || len(staged.Transactions) == 0 {
		return nil, ErrNoStagedImport
	}
	// A session staged by another household is treated as absent, so a
	// leaked session id can neither commit nor probe foreign staging.
	if staged.HouseholdID != in.HouseholdID {
		return nil, ErrNoStagedImport
	}

	selected := in.Selected
	if len(selected) == 0 {
		selected = make([]int, len(staged.Transactions))
		for i := range staged.Transactions {
			selected[i] = i
		}
	}

	result := &ConfirmResult{}
	err := im.db.Transaction(func(tx *gorm.DB) error {
		for _, idx := range selected {
			if idx < 0 || idx >= len(staged.Transactions) {
				continue
			}
			row := staged.Transactions[idx]
			month := row.Date[:7]

			budgetMonthID, err := ledger.GetOrCreateBudgetMonth(tx, staged.HouseholdID, staged.EntityID, month)
			if err != nil {
				return err
			}

			categoryID := row.SuggestedCategoryID
			if override, ok := in.CategoryOverrides[idx]; ok {
				id := override
				categoryID = &id
			}

			memo := importMemo
			record := models.Transaction{
				HouseholdID:     staged.HouseholdID,
				EntityID:        staged.EntityID,
				AccountID:       staged.AccountID,
				BudgetMonthID:   budgetMonthID,
				Date:            row.Date,
				AmountCents:     row.AmountCents,
				Type:            row.Type,
				Payee:           row.Payee,
				Memo:            &memo,
				CategoryID:      categoryID,
				CreatedByUserID: in.UserID,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			if err := ledger.ApplyBalanceEffect(tx, staged.AccountID, record.AmountCents, record.Type); err != nil {
				return err
			}

			if result.Month == "" {
				result.Month = month
			}
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	im.store.Delete(in.SessionID)
	return result, nil
}
