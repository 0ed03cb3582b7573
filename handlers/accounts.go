package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"household-budget-go-be/csvparse"
	"household-budget-go-be/models"
)

type adjustBalanceRequest struct {
	Balance string `json:"balance"` // free-form money string
}

// AdjustBalance sets an account's running balance outright, for
// reconciliation against a real statement. This bypasses the incremental
// balance maintenance on purpose.
func (h *Handlers) AdjustBalance(c *fiber.Ctx) error {
	hhID, err := householdID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	accountID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account id"})
	}

	var req adjustBalanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var account models.Account
	err = h.DB.Joins("JOIN entities ON entities.id = accounts.entity_id").
		Where("accounts.id = ? AND entities.household_id = ?", accountID, hhID).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Account not found"})
	}
	if err != nil {
		log.Printf("Error fetching account %s: %v", accountID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch account"})
	}

	balanceCents := csvparse.ParseMoney(req.Balance)
	if err := h.DB.Model(&account).Update("balance_cents", balanceCents).Error; err != nil {
		log.Printf("Error adjusting balance for account %s: %v", accountID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to adjust balance"})
	}

	return c.JSON(fiber.Map{"balance_cents": balanceCents})
}
