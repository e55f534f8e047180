package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDraftOrderRepository implements DraftOrderRepository using GORM
type GormDraftOrderRepository struct {
	db *gorm.DB
}

// NewGormDraftOrderRepository creates a new GormDraftOrderRepository
func NewGormDraftOrderRepository(db *gorm.DB) *GormDraftOrderRepository {
	return &GormDraftOrderRepository{db: db}
}

// FindActiveByOwner loads the owner's non-finalized order with its lines in
// insertion order and its billing address.
func (r *GormDraftOrderRepository) FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) (*cart.DraftOrder, error) {
	var model models.DraftOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("BillingAddress").
		Where("owner_id = ? AND finalized = ?", ownerID, false).
		First(&model).Error; err != nil {
		return nil, translateError("draft_order.find_active", err)
	}
	return model.ToDomain(), nil
}

// Save writes the order, its lines and a newly attached billing address in
// one transaction. Lines missing from the order are deleted. A second active
// order or line for the same owner violates a unique index and fails.
func (r *GormDraftOrderRepository) Save(ctx context.Context, order *cart.DraftOrder) error {
	model := models.DraftOrderModelFromDomain(order)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Addresses are immutable: insert once, never update.
		if order.BillingAddress != nil {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(models.BillingAddressModelFromDomain(order.BillingAddress)).Error; err != nil {
				return err
			}
		}

		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}

		lineIDs := make([]uuid.UUID, len(model.Lines))
		for i := range model.Lines {
			lineIDs[i] = model.Lines[i].ID
		}
		stale := tx.Where("draft_order_id = ?", order.ID)
		if len(lineIDs) > 0 {
			stale = stale.Where("id NOT IN ?", lineIDs)
		}
		if err := stale.Delete(&models.CartLineModel{}).Error; err != nil {
			return err
		}

		for i := range model.Lines {
			if err := tx.Save(&model.Lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})

	return translateError("draft_order.save", err)
}

// Ensure GormDraftOrderRepository implements DraftOrderRepository
var _ cart.DraftOrderRepository = (*GormDraftOrderRepository)(nil)
