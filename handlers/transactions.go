package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"household-budget-go-be/csvparse"
	"household-budget-go-be/ledger"
	"household-budget-go-be/models"
)

// transactionRequest is the create/update payload. Amount is a free-form
// money string ("42.50", "$1,234.56") normalized to cents server-side.
type transactionRequest struct {
	EntityID   string `json:"entity_id"`
	AccountID  string `json:"account_id"`
	Date       string `json:"date"`
	Type       string `json:"type"`
	Amount     string `json:"amount"`
	Payee      string `json:"payee"`
	Memo       string `json:"memo"`
	CategoryID string `json:"category_id"`
}

// CreateTransaction records a transaction; balance and owner-draw link
// maintenance happen as side effects in the ledger service.
func (h *Handlers) CreateTransaction(c *fiber.Ctx) error {
	hhID, err := householdID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	entityID, err := uuid.Parse(req.EntityID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Valid entity_id is required"})
	}

	accountID, ok := optionalUUID(req.AccountID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account_id"})
	}

	categoryID, ok := optionalUUID(req.CategoryID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category_id"})
	}
	// A category outside the household is dropped, not rejected.
	if categoryID != nil && !h.categoryBelongsToHousehold(*categoryID, hhID) {
		categoryID = nil
	}

	var userID *uuid.UUID
	if id, err := uuid.Parse(c.Get("X-User-ID")); err == nil {
		userID = &id
	}

	txType := req.Type
	if txType == "" {
		txType = models.TypeExpense
	}

	created, err := h.Ledger.CreateTransaction(ledger.CreateInput{
		HouseholdID:     hhID,
		EntityID:        entityID,
		AccountID:       accountID,
		Date:            req.Date,
		AmountCents:     csvparse.ParseMoney(req.Amount),
		Type:            txType,
		Payee:           strings.TrimSpace(req.Payee),
		Memo:            strings.TrimSpace(req.Memo),
		CategoryID:      categoryID,
		CreatedByUserID: userID,
	})
	if errors.Is(err, ledger.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		log.Printf("Error creating transaction: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create transaction"})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateTransaction rewrites a transaction and syncs any linked mirror.
func (h *Handlers) UpdateTransaction(c *fiber.Ctx) error {
	hhID, err := householdID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	txID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction id"})
	}

	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	categoryID, ok := optionalUUID(req.CategoryID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category_id"})
	}

	updated, err := h.Ledger.UpdateTransaction(ledger.UpdateInput{
		TransactionID: txID,
		HouseholdID:   hhID,
		Date:          req.Date,
		AmountCents:   csvparse.ParseMoney(req.Amount),
		Type:          req.Type,
		Payee:         strings.TrimSpace(req.Payee),
		Memo:          strings.TrimSpace(req.Memo),
		CategoryID:    categoryID,
	})
	if errors.Is(err, ledger.ErrTransactionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Transaction not found"})
	}
	if errors.Is(err, ledger.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		log.Printf("Error updating transaction %s: %v", txID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update transaction"})
	}

	return c.JSON(updated)
}

// DeleteTransaction removes a transaction and reverses its balance effect.
func (h *Handlers) DeleteTransaction(c *fiber.Ctx) error {
	hhID, err := householdID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	txID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction id"})
	}

	err = h.Ledger.DeleteTransaction(txID, hhID)
	if errors.Is(err, ledger.ErrTransactionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Transaction not found"})
	}
	if err != nil {
		log.Printf("Error deleting transaction %s: %v", txID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete transaction"})
	}

	return c.JSON(fiber.Map{"message": "Transaction deleted"})
}

type categorizeRequest struct {
	CategoryID string `json:"category_id"`
}

// QuickCategorize sets or clears a transaction's category without touching
// amounts or balances.
func (h *Handlers) QuickCategorize(c *fiber.Ctx) error {
	hhID, err := householdID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	txID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction id"})
	}

	var req categorizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var transaction models.Transaction
	err = h.DB.Where("id = ? AND household_id = ?", txID, hhID).First(&transaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Transaction not found"})
	}
	if err != nil {
		log.Printf("Error fetching transaction %s: %v", txID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch transaction"})
	}

	categoryID, ok := optionalUUID(req.CategoryID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category_id"})
	}
	if categoryID != nil && !h.categoryBelongsToHousehold(*categoryID, hhID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
	}

	if err := h.DB.Model(&transaction).Update("category_id", categoryID).Error; err != nil {
		log.Printf("Error categorizing transaction %s: %v", txID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update transaction"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// optionalUUID parses a possibly-empty uuid string. ok is false only for a
// present but malformed value.
func optionalUUID(raw string) (*uuid.UUID, bool) {
	if raw == "" || raw == "0" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}

func (h *Handlers) categoryBelongsToHousehold(categoryID, hhID uuid.UUID) bool {
	var count int64
	h.DB.Model(&models.Category{}).
		Joins("JOIN category_groups ON category_groups.id = categories.category_group_id").
		Where("categories.id = ? AND category_groups.household_id = ?", categoryID, hhID).
		Count(&count)
	return count > 0
}
