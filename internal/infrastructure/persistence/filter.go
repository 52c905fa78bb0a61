package persistence

import (
	"errors"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applySortAndPagination applies whitelisted ordering and page/size limits
func applySortAndPagination(query *gorm.DB, filter shared.Filter, sortFields map[string]bool) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, sortFields, "created_at")
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// replaceLineItems reconciles a document's line set: lines dropped from the
// aggregate are deleted, the rest are upserted
func replaceLineItems(tx *gorm.DB, documentID uuid.UUID, lines []procurement.LineItem) error {
	currentIDs := make([]uuid.UUID, len(lines))
	for i := range lines {
		currentIDs[i] = lines[i].ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("document_id = ? AND id NOT IN ?", documentID, currentIDs).
			Delete(&procurement.LineItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("document_id = ?", documentID).
			Delete(&procurement.LineItem{}).Error; err != nil {
			return err
		}
	}

	for i := range lines {
		lines[i].DocumentID = documentID
		if err := tx.Save(&lines[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// currentRowVersion reads the persisted version of an aggregate row inside
// the locking transaction. Returns shared.ErrNotFound for a missing row.
func currentRowVersion(tx *gorm.DB, model any, id uuid.UUID) (int, error) {
	var row struct{ Version int }
	err := tx.Model(model).Select("version").Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return row.Version, nil
}
