package scope

import "gorm.io/gorm"

// OrderByCreatedAsc orders oldest first; id breaks ties between notes created in the same instant.
func OrderByCreatedAsc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}
