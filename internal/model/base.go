package model

import (
	"time"
)

// BaseModel is embedded by every table. Rows are hard-deleted so that the
// explicit cascades in the service layer never leave soft-deleted orphans.
// swagger:model
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AllModels lists every table in dependency order for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&RoleRequest{},
		&Course{},
		&Enrollment{},
		&Assignment{},
		&Submission{},
		&Notification{},
		&Discussion{},
		&Reply{},
	}
}
