package model

// Notification is a one-way, read-tracked message to a single recipient.
type Notification struct {
	BaseModel
	RecipientID uint   `gorm:"index;not null" json:"recipientId"`
	Message     string `gorm:"size:500;not null" json:"message"`
	IsRead      bool   `gorm:"not null;default:false" json:"isRead"`
}

func (Notification) TableName() string {
	return "notifications"
}
