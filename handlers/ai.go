package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"google.golang.org/genai"

	"household-budget-go-be/models"
)

// AISuggestion is the structure we expect back from Gemini for each
// uncategorized transaction.
type AISuggestion struct {
	TransactionID string `json:"transaction_id"`
	Category      string `json:"category"`
}

// AnalyzeUncategorized asks Gemini to suggest categories for the household's
// uncategorized transactions. Suggestions are returned to the client for
// review; nothing is written here.
func (h *Handlers) AnalyzeUncategorized(c *fiber.Ctx) error {
	hhID, err := householdID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	log.Printf("Starting AI analysis for household: %s", hhID)

	// 1. Fetch uncategorized transactions.
	var txns []models.Transaction
	// Limit to 50 to avoid token limits and ensure speed
	if err := h.DB.Where("household_id = ? AND category_id IS NULL", hhID).
		Order("date DESC").Limit(50).Find(&txns).Error; err != nil {
		log.Printf("Error fetching transactions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch transactions"})
	}

	if len(txns) == 0 {
		log.Println("No uncategorized transactions found")
		return c.JSON(fiber.Map{
			"message":     "No uncategorized transactions found",
			"suggestions": []interface{}{},
		})
	}

	log.Printf("Found %d uncategorized transactions", len(txns))

	// 2. Construct the prompt from the household's own category names so the
	// model can only answer within the taxonomy.
	categories, err := h.householdCategories(hhID)
	if err != nil {
		log.Printf("Error fetching categories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch categories"})
	}
	var names []string
	for _, cat := range categories {
		names = append(names, cat.Name)
	}

	var promptBuilder strings.Builder
	promptBuilder.WriteString("You are a financial analyst. Analyze these bank transaction payees. \n")
	promptBuilder.WriteString("Return a RAW JSON ARRAY of objects. Do NOT use markdown formatting. \n")
	promptBuilder.WriteString("Each object must have: 'transaction_id' and 'category'. ")
	promptBuilder.WriteString("Pick 'category' from this list only: " + strings.Join(names, ", ") + "\n\n")

	for _, t := range txns {
		sign := ""
		if t.Type == models.TypeExpense {
			sign = "-"
		}
		promptBuilder.WriteString(fmt.Sprintf(`{"transaction_id": "%s", "payee": "%s", "amount": %s%.2f}`+"\n",
			t.ID, t.Payee, sign, float64(t.AmountCents)/100))
	}

	// 3. Call Gemini.
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Println("Error: GEMINI_API_KEY not set")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "GEMINI_API_KEY not set"})
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		log.Printf("Error initializing AI client: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to init AI client"})
	}

	log.Println("Sending request to Gemini...")
	// Using Gemini 1.5 Flash for speed/cost balance
	resp, err := client.Models.GenerateContent(ctx, "gemini-1.5-flash", genai.Text(promptBuilder.String()), nil)
	if err != nil {
		log.Printf("Error during AI generation: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "AI generation failed: " + err.Error()})
	}

	// 4. Parse and clean the response.
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Println("Error: Empty response from AI")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Empty response from AI"})
	}

	rawText := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			rawText += part.Text
		}
	}

	// Clean Markdown if present (Gemini loves adding ```json ... ```)
	rawText = strings.TrimSpace(rawText)
	rawText = strings.TrimPrefix(rawText, "```json")
	rawText = strings.TrimPrefix(rawText, "```")
	rawText = strings.TrimSuffix(rawText, "```")

	log.Printf("Received response from AI (length: %d)", len(rawText))

	var suggestions []AISuggestion
	if err := json.Unmarshal([]byte(rawText), &suggestions); err != nil {
		log.Printf("Error parsing AI response: %v. Raw text: %s", err, rawText)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to parse AI response", "raw": rawText})
	}

	log.Printf("Successfully parsed %d suggestions", len(suggestions))

	return c.JSON(fiber.Map{
		"count":       len(suggestions),
		"suggestions": suggestions,
	})
}
