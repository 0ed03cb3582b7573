package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction types. Amounts are stored as non-negative magnitudes; the type
// carries the sign.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Entity types.
const (
	EntityPersonal = "personal"
	EntityBusiness = "business"
)

// Rule match types.
const (
	MatchExact    = "exact"
	MatchContains = "contains"
)

// TransferOwnerDraw is the only linked-transfer type currently supported.
const TransferOwnerDraw = "owner_draw"

// Household is the top-level tenant. It owns entities, categories and rules.
type Household struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Entity is a personal or business sub-ledger within a household.
type Entity struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	HouseholdID    uuid.UUID `gorm:"type:uuid;not null;index" json:"household_id"`
	Name           string    `gorm:"not null" json:"name"`
	Type           string    `gorm:"not null;default:personal" json:"type"` // personal | business
	TaxRatePercent float64   `json:"tax_rate_percent"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CategoryGroup groups categories for display. EntityID is nil for
// household-wide groups.
type CategoryGroup struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	HouseholdID uuid.UUID  `gorm:"type:uuid;not null;index" json:"household_id"`
	EntityID    *uuid.UUID `gorm:"type:uuid;index" json:"entity_id"`
	Name        string     `gorm:"not null" json:"name"`
	SortOrder   int        `json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Category is a spending/income bucket. IsOwnerDraw marks business categories
// whose expenses get mirrored into the household's personal entity as owner
// draws; the flag replaces matching on the display name, which users can
// rename.
type Category struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CategoryGroupID uuid.UUID `gorm:"type:uuid;not null;index" json:"category_group_id"`
	Name            string    `gorm:"not null" json:"name"`
	IsOwnerDraw     bool      `gorm:"default:false" json:"is_owner_draw"`
	Archived        bool      `gorm:"default:false" json:"archived"`
	SortOrder       int       `json:"sort_order"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Account is an entity-scoped bank/cash account with a running balance.
// BalanceCents is maintained incrementally as transactions are written, not
// recomputed from the ledger.
type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EntityID     uuid.UUID `gorm:"type:uuid;not null;index" json:"entity_id"`
	Name         string    `gorm:"not null" json:"name"`
	Type         string    `gorm:"not null;default:checking" json:"type"` // checking | savings | credit | cash
	BalanceCents int64     `gorm:"not null;default:0" json:"balance_cents"`
	Archived     bool      `gorm:"default:false" json:"archived"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BudgetMonth is the household+entity-scoped period record transactions
// attach to. MonthYYYYMM is "2006-01" style.
type BudgetMonth struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	HouseholdID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_budget_month" json:"household_id"`
	EntityID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_budget_month" json:"entity_id"`
	MonthYYYYMM string    `gorm:"type:varchar(7);not null;uniqueIndex:idx_budget_month" json:"month_yyyymm"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Transaction is a persisted ledger row. AmountCents is always a non-negative
// magnitude; Type determines whether it adds to or subtracts from balances.
// Date is the ISO day string so it can feed the duplicate fingerprint as-is.
type Transaction struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	HouseholdID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"household_id"`
	EntityID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"entity_id"`
	AccountID       *uuid.UUID `gorm:"type:uuid;index" json:"account_id"`
	BudgetMonthID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"budget_month_id"`
	Date            string     `gorm:"type:varchar(10);not null;index" json:"date"`
	AmountCents     int64      `gorm:"not null" json:"amount_cents"`
	Type            string     `gorm:"not null" json:"type"` // income | expense
	Payee           string     `gorm:"type:varchar(200);not null" json:"payee"`
	Memo            *string    `json:"memo"`
	CategoryID      *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	IsTransfer      bool       `gorm:"default:false" json:"is_transfer"`
	CreatedByUserID *uuid.UUID `gorm:"type:uuid" json:"created_by_user_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TransactionRule maps a payee search term to a category for
// auto-categorization. Rules are household-scoped and evaluated newest first.
type TransactionRule struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	HouseholdID uuid.UUID `gorm:"type:uuid;not null;index" json:"household_id"`
	SearchTerm  string    `gorm:"not null" json:"search_term"`
	MatchType   string    `gorm:"not null;default:contains" json:"match_type"` // exact | contains
	CategoryID  uuid.UUID `gorm:"type:uuid;not null" json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LinkedTransfer connects a business-entity expense to its mirrored
// personal-entity income row. Deleting either transaction cascades to the
// link row.
type LinkedTransfer struct {
	ID                uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FromTransactionID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex" json:"from_transaction_id"`
	FromTransaction   Transaction `gorm:"foreignKey:FromTransactionID;constraint:OnDelete:CASCADE" json:"-"`
	ToTransactionID   uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex" json:"to_transaction_id"`
	ToTransaction     Transaction `gorm:"foreignKey:ToTransactionID;constraint:OnDelete:CASCADE" json:"-"`
	TransferType      string      `gorm:"not null;default:owner_draw" json:"transfer_type"`
	CreatedAt         time.Time   `json:"created_at"`
}
