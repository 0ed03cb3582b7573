package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ListRules returns the household's rules, newest first.
func (h *Handlers) ListRules(c *fiber.Ctx) error {
	hhID, err := householdID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	rules, err := h.Rules.GetRules(hhID)
	if err != nil {
		log.Printf("Error fetching rules: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch rules"})
	}
	return c.JSON(fiber.Map{"rules": rules})
}

type createRuleRequest struct {
	SearchTerm string `json:"search_term"`
	CategoryID string `json:"category_id"`
	MatchType  string `json:"match_type"`
}

// CreateRule adds a categorization rule for the household.
func (h *Handlers) CreateRule(c *fiber.Ctx) error {
	hhID, err := householdID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	var req createRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.SearchTerm) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "search_term is required"})
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Valid category_id is required"})
	}

	ruleID, err := h.Rules.CreateRule(hhID, req.SearchTerm, categoryID, req.MatchType)
	if err != nil {
		log.Printf("Error creating rule: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create rule"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": ruleID})
}

// DeleteRule removes a rule scoped to the household.
func (h *Handlers) DeleteRule(c *fiber.Ctx) error {
	hhID, err := householdID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	ruleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid rule id"})
	}

	if err := h.Rules.DeleteRule(hhID, ruleID); err != nil {
		log.Printf("Error deleting rule: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete rule"})
	}
	return c.JSON(fiber.Map{"message": "Rule deleted"})
}

// SeedRules inserts the built-in merchant rules for the household.
func (h *Handlers) SeedRules(c *fiber.Ctx) error {
	hhID, err := householdID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	count, err := h.Rules.SeedDefaultRules(hhID)
	if err != nil {
		log.Printf("Error seeding rules: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to seed rules"})
	}

	log.Printf("Seeded %d default rules for household %s", count, hhID)
	return c.JSON(fiber.Map{"inserted": count})
}
