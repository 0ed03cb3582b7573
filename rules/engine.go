package rules

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"household-budget-go-be/models"
)

// Engine resolves payees to categories using household-scoped rules.
//
// Rules are cached per household for the lifetime of the engine. The cache is
// an optimization, not a correctness mechanism: it is invalidated on writes
// within this process only, and a concurrently running process may serve a
// stale list until its own cache is invalidated. Bypassing the cache must
// yield the same results.
type Engine struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[uuid.UUID][]models.TransactionRule
}

// NewEngine creates a rule engine backed by the given database.
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{
		db:    db,
		cache: make(map[uuid.UUID][]models.TransactionRule),
	}
}

// GetRules returns the household's rules ordered by creation time descending,
// so the most recently created rule wins ties during matching.
func (e *Engine) GetRules(householdID uuid.UUID) ([]models.TransactionRule, error) {
	e.mu.RLock()
	cached, ok := e.cache[householdID]
	e.mu.RUnlock()
	if ok {
		return cached, nil
	}

	rules, err := e.loadRules(householdID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[householdID] = rules
	e.mu.Unlock()
	return rules, nil
}

func (e *Engine) loadRules(householdID uuid.UUID) ([]models.TransactionRule, error) {
	var rules []models.TransactionRule
	err := e.db.Where("household_id = ?", householdID).
		Order("created_at DESC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// Match resolves a payee to a category id, or nil when no rule matches.
func (e *Engine) Match(householdID uuid.UUID, payee string) (*uuid.UUID, error) {
	rules, err := e.GetRules(householdID)
	if err != nil {
		return nil, err
	}
	return MatchRules(rules, payee), nil
}

// MatchRules is the deterministic first-match-wins scan over an ordered rule
// list. Exact rules compare the whole lowercased payee; contains rules look
// for the term as a case-insensitive substring.
func MatchRules(rules []models.TransactionRule, payee string) *uuid.UUID {
	payeeLower := strings.ToLower(payee)

	for _, rule := range rules {
		term := strings.ToLower(rule.SearchTerm)

		if rule.MatchType == models.MatchExact {
			if payeeLower == term {
				id := rule.CategoryID
				return &id
			}
			continue
		}
		if strings.Contains(payeeLower, term) {
			id := rule.CategoryID
			return &id
		}
	}
	return nil
}

// CreateRule inserts a rule and invalidates the household's cache. The
// category is not checked for household ownership here; callers that care
// validate before creating.
func (e *Engine) CreateRule(householdID uuid.UUID, searchTerm string, categoryID uuid.UUID, matchType string) (uuid.UUID, error) {
	if matchType != models.MatchExact {
		matchType = models.MatchContains
	}

	rule := models.TransactionRule{
		HouseholdID: householdID,
		SearchTerm:  strings.TrimSpace(searchTerm),
		MatchType:   matchType,
		CategoryID:  categoryID,
	}
	if err := e.db.Create(&rule).Error; err != nil {
		return uuid.Nil, err
	}

	e.Invalidate(householdID)
	return rule.ID, nil
}

// DeleteRule removes a rule scoped by id and household, then invalidates the
// cache.
func (e *Engine) DeleteRule(householdID, ruleID uuid.UUID) error {
	err := e.db.Where("id = ? AND household_id = ?", ruleID, householdID).
		Delete(&models.TransactionRule{}).Error
	if err != nil {
		return err
	}

	e.Invalidate(householdID)
	return nil
}

// Invalidate drops the household's cached rule list.
func (e *Engine) Invalidate(householdID uuid.UUID) {
	e.mu.Lock()
	delete(e.cache, householdID)
	e.mu.Unlock()
}
