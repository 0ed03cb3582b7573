package handlers

import (
	"errors"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"household-budget-go-be/csvparse"
	"household-budget-go-be/importer"
)

// allowedExtensions is the upload allow-list. Some banks export CSV data
// with a .txt extension.
var allowedExtensions = map[string]bool{".csv": true, ".txt": true}

func allowedExtension(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ImportFormats lists the selectable bank formats for the upload form.
func (h *Handlers) ImportFormats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"formats": csvparse.Formats()})
}

// ImportPreview parses an uploaded statement, reports new rows vs duplicates
// with category suggestions, and stages the new rows for confirmation.
func (h *Handlers) ImportPreview(c *fiber.Ctx) error {
	hhID, err := householdID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	entityID, err := uuid.Parse(c.FormValue("entity_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Valid entity_id is required"})
	}

	var accountID *uuid.UUID
	if raw := c.FormValue("account_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account_id"})
		}
		accountID = &id
	}

	fileHeader, err := c.FormFile("csv_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please upload a valid CSV file"})
	}
	if !allowedExtension(fileHeader.Filename) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only CSV files are allowed"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please upload a valid CSV file"})
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		log.Printf("Error reading upload: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read uploaded file"})
	}

	format := c.FormValue("format")
	if format == "" {
		format = csvparse.FormatAuto
	}

	result, err := h.Importer.Preview(importer.PreviewInput{
		HouseholdID: hhID,
		EntityID:    entityID,
		AccountID:   accountID,
		Content:     content,
		FormatID:    format,
	})
	if err != nil {
		log.Printf("Error previewing import: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to preview import"})
	}

	categories, err := h.householdCategories(hhID)
	if err != nil {
		log.Printf("Error fetching categories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch categories"})
	}

	return c.JSON(fiber.Map{
		"session_id":       result.SessionID,
		"new_transactions": result.NewTransactions,
		"duplicates":       result.Duplicates,
		"errors":           result.Errors,
		"detected_format":  result.DetectedFormat,
		"format_name":      result.FormatName,
		"total_new":        len(result.NewTransactions),
		"total_duplicates": len(result.Duplicates),
		"categories":       categories,
	})
}

// confirmRequest is the confirm-step payload. Categories maps a staged row
// index (as a JSON object key) to a category id override.
type confirmRequest struct {
	SessionID  string            `json:"session_id"`
	Selected   []int             `json:"selected"`
	Categories map[string]string `json:"categories"`
}

// ImportConfirm persists the selected staged rows.
func (h *Handlers) ImportConfirm(c *fiber.Ctx) error {
	hhID, err := householdID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	var req confirmRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session_id is required"})
	}

	overrides := make(map[int]uuid.UUID, len(req.Categories))
	for key, value := range req.Categories {
		idx, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		// Empty or malformed overrides fall back to the suggestion.
		catID, err := uuid.Parse(value)
		if err != nil {
			continue
		}
		overrides[idx] = catID
	}

	var userID *uuid.UUID
	if raw := c.Get("X-User-ID"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			userID = &id
		}
	}

	result, err := h.Importer.Confirm(importer.ConfirmInput{
		SessionID:         req.SessionID,
		HouseholdID:       hhID,
		UserID:            userID,
		Selected:          req.Selected,
		CategoryOverrides: overrides,
	})
	if errors.Is(err, importer.ErrNoStagedImport) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No transactions to import. Please upload a file first."})
	}
	if err != nil {
		log.Printf("Error confirming import for household %s: %v", hhID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Import failed"})
	}

	log.Printf("Imported %d transactions for household %s", result.Imported, hhID)
	return c.JSON(result)
}

// categoryOption is a dropdown entry for manual category assignment.
type categoryOption struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	GroupName string    `json:"group_name"`
}

func (h *Handlers) householdCategories(hhID uuid.UUID) ([]categoryOption, error) {
	var categories []categoryOption
	err := h.DB.Table("categories").
		Select("categories.id, categories.name, category_groups.name AS group_name").
		Joins("JOIN category_groups ON category_groups.id = categories.category_group_id").
		Where("category_groups.household_id = ? AND NOT categories.archived", hhID).
		Order("category_groups.sort_order, categories.sort_order").
		Scan(&categories).Error
	return categories, err
}
