package rules

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"household-budget-go-be/models"
)

type defaultRule struct {
	Term     string
	Category string
}

// defaultRules maps well-known merchants to category names. Seeding resolves
// the names against the household's actual categories, so entries whose
// category doesn't exist are simply skipped.
var defaultRules = []defaultRule{
	// Food
	{"Walmart", "Groceries"},
	{"Kroger", "Groceries"},
	{"Aldi", "Groceries"},
	{"Whole Foods", "Groceries"},
	{"Publix", "Groceries"},
	{"Costco", "Groceries"},
	{"McDonald's", "Restaurants"},
	{"Chick-fil-A", "Restaurants"},
	{"Chipotle", "Restaurants"},
	{"Starbucks", "Coffee Shops"},
	{"Dunkin", "Coffee Shops"},

	// Transportation
	{"Shell", "Gas"},
	{"Exxon", "Gas"},
	{"BP", "Gas"},
	{"Chevron", "Gas"},
	{"Wawa", "Gas"},
	{"Uber", "Public Transit"},
	{"Lyft", "Public Transit"},

	// Utilities
	{"AT&T", "Phone"},
	{"Verizon", "Phone"},
	{"T-Mobile", "Phone"},
	{"Comcast", "Internet"},
	{"Xfinity", "Internet"},
	{"Spectrum", "Internet"},

	// Personal
	{"Netflix", "Subscriptions"},
	{"Spotify", "Subscriptions"},
	{"Hulu", "Subscriptions"},
	{"Disney+", "Subscriptions"},
	{"Amazon Prime", "Subscriptions"},
	{"Apple.com", "Subscriptions"},
	{"Target", "Clothing"},
	{"T.J. Maxx", "Clothing"},

	// Home
	{"Home Depot", "Home Improvement"},
	{"Lowe's", "Home Improvement"},
}

// SeedDefaultRules inserts the built-in merchant rules for a household,
// skipping terms that already have a case-insensitive-equal rule. All inserts
// run in one database transaction. Returns the number of rules actually
// inserted; repeated runs insert nothing new.
func (e *Engine) SeedDefaultRules(householdID uuid.UUID) (int, error) {
	catByName, err := e.householdCategories(householdID)
	if err != nil {
		return 0, err
	}

	existing, err := e.GetRules(householdID)
	if err != nil {
		return 0, err
	}
	existingTerms := make(map[string]bool, len(existing))
	for _, r := range existing {
		existingTerms[strings.ToLower(r.SearchTerm)] = true
	}

	count := 0
	err = e.db.Transaction(func(tx *gorm.DB) error {
		for _, d := range defaultRules {
			catID, haveCategory := catByName[d.Category]
			if !haveCategory || existingTerms[strings.ToLower(d.Term)] {
				continue
			}

			rule := models.TransactionRule{
				HouseholdID: householdID,
				SearchTerm:  d.Term,
				MatchType:   models.MatchContains,
				CategoryID:  catID,
			}
			if err := tx.Create(&rule).Error; err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	e.Invalidate(householdID)
	return count, nil
}

// householdCategories maps category names to ids for one household.
func (e *Engine) householdCategories(householdID uuid.UUID) (map[string]uuid.UUID, error) {
	var cats []struct {
		ID   uuid.UUID
		Name string
	}
	err := e.db.Model(&models.Category{}).
		Select("categories.id, categories.name").
		Joins("JOIN category_groups ON category_groups.id = categories.category_group_id").
		Where("category_groups.household_id = ?", householdID).
		Scan(&cats).Error
	if err != nil {
		return nil, err
	}

	byName := make(map[string]uuid.UUID, len(cats))
	for _, c := range cats {
		byName[c.Name] = c.ID
	}
	return byName, nil
}
