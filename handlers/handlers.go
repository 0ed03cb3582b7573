package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"household-budget-go-be/importer"
	"household-budget-go-be/ledger"
	"household-budget-go-be/rules"
)

// Handlers bundles the services the HTTP layer exposes.
type Handlers struct {
	DB       *gorm.DB
	Rules    *rules.Engine
	Importer *importer.Importer
	Ledger   *ledger.Service
}

// New wires the core services around one database handle.
func New(db *gorm.DB) *Handlers {
	engine := rules.NewEngine(db)
	store := importer.NewStore(importer.DefaultStagingTTL)
	return &Handlers{
		DB:       db,
		Rules:    engine,
		Importer: importer.New(db, engine, store),
		Ledger:   ledger.NewService(db),
	}
}

// householdID reads the tenant scope from the X-Household-ID header.
// TODO: replace with auth middleware once the auth service lands.
func householdID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Get("X-Household-ID"))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Household ID required in X-Household-ID header")
	}
	return id, nil
}

func unauthorized(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
}
