package ledger

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"household-budget-go-be/models"
)

// MirrorPayeeSuffix marks the personal-entity side of an owner draw.
const MirrorPayeeSuffix = " (Draw)"

// ownerDrawSource reports whether a transaction is the business side of an
// owner draw: an expense in a business entity whose category carries the
// owner-draw flag.
func ownerDrawSource(src *models.Transaction, category *models.Category, entity *models.Entity) bool {
	if src.Type != models.TypeExpense || category == nil || entity == nil {
		return false
	}
	return category.IsOwnerDraw && entity.Type == models.EntityBusiness
}

// buildMirror constructs the personal-entity income side of an owner draw.
// The mirror carries the source's date, amount and creator, lands in the
// personal entity's budget month and is flagged as a transfer.
func buildMirror(src *models.Transaction, personalEntityID, budgetMonthID uuid.UUID, categoryID *uuid.UUID) models.Transaction {
	return models.Transaction{
		HouseholdID:     src.HouseholdID,
		EntityID:        personalEntityID,
		BudgetMonthID:   budgetMonthID,
		Date:            src.Date,
		AmountCents:     src.AmountCents,
		Type:            models.TypeIncome,
		Payee:           MirrorPayee(src.Payee),
		CategoryID:      categoryID,
		IsTransfer:      true,
		CreatedByUserID: src.CreatedByUserID,
	}
}

// syncMirrorFields pushes date, amount and payee from the source onto its
// mirror. Type, category and entity stay as they are.
func syncMirrorFields(mirror, src *models.Transaction) {
	mirror.Date = src.Date
	mirror.AmountCents = src.AmountCents
	mirror.Payee = MirrorPayee(src.Payee)
}

// maybeLinkOwnerDraw mirrors a business-entity owner-draw expense into the
// household's personal entity as an income transaction and records the link.
// Missing prerequisites (no flagged category, no business source, no personal
// entity) silently skip linking; the original transaction stands alone.
func (s *Service) maybeLinkOwnerDraw(tx *gorm.DB, src *models.Transaction) error {
	if src.Type != models.TypeExpense || src.CategoryID == nil {
		return nil
	}

	var category models.Category
	err := tx.First(&category, "id = ?", *src.CategoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !category.IsOwnerDraw {
		return nil
	}

	var source models.Entity
	if err := tx.First(&source, "id = ?", src.EntityID).Error; err != nil {
		return err
	}
	if !ownerDrawSource(src, &category, &source) {
		return nil
	}

	var personal models.Entity
	err = tx.Where("household_id = ? AND type = ?", src.HouseholdID, models.EntityPersonal).
		First(&personal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil // no personal entity, record the draw unlinked
	}
	if err != nil {
		return err
	}

	budgetMonthID, err := GetOrCreateBudgetMonth(tx, src.HouseholdID, personal.ID, src.Date[:7])
	if err != nil {
		return err
	}

	targetCategoryID, err := personalDrawCategory(tx, src.HouseholdID, personal.ID)
	if err != nil {
		return err
	}

	mirror := buildMirror(src, personal.ID, budgetMonthID, targetCategoryID)
	if err := tx.Create(&mirror).Error; err != nil {
		return err
	}

	link := models.LinkedTransfer{
		FromTransactionID: src.ID,
		ToTransactionID:   mirror.ID,
		TransferType:      models.TransferOwnerDraw,
	}
	return tx.Create(&link).Error
}

// MirrorPayee builds the mirrored transaction's payee from the source payee.
func MirrorPayee(payee string) string {
	if strings.HasSuffix(payee, MirrorPayeeSuffix) {
		return payee
	}
	return payee + MirrorPayeeSuffix
}

// personalDrawCategory picks the category for the personal-entity side of a
// draw: a flagged owner-draw category first, then anything named like a
// paycheck. Nil means the mirror lands uncategorized.
func personalDrawCategory(tx *gorm.DB, householdID, personalEntityID uuid.UUID) (*uuid.UUID, error) {
	var category models.Category
	err := tx.Model(&models.Category{}).
		Joins("JOIN category_groups ON category_groups.id = categories.category_group_id").
		Where("category_groups.household_id = ?", householdID).
		Where("category_groups.entity_id = ? OR category_groups.entity_id IS NULL", personalEntityID).
		Where("categories.is_owner_draw OR categories.name ILIKE ?", "%paycheck%").
		Order("categories.is_owner_draw DESC").
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	id := category.ID
	return &id, nil
}

// syncLinkedMirror pushes date, amount and payee from an updated source
// transaction to its linked mirror, fixing the mirror's balance effect in the
// same database transaction. Category and entity are deliberately left alone.
func (s *Service) syncLinkedMirror(tx *gorm.DB, src *models.Transaction) error {
	var link models.LinkedTransfer
	err := tx.Where("from_transaction_id = ?", src.ID).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var mirror models.Transaction
	if err := tx.First(&mirror, "id = ?", link.ToTransactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if err := applyDelta(tx, mirror.AccountID, -BalanceDelta(mirror.AmountCents, mirror.Type)); err != nil {
		return err
	}
	syncMirrorFields(&mirror, src)
	if err := applyDelta(tx, mirror.AccountID, BalanceDelta(mirror.AmountCents, mirror.Type)); err != nil {
		return err
	}
	return tx.Save(&mirror).Error
}
