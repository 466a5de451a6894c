package models

const (
	NotificationTypeMessage = "message"
	NotificationTypeLead    = "lead"
	NotificationTypeBilling = "billing"
	NotificationTypeReview  = "review"
	NotificationTypeSystem  = "system"
)

type Notification struct {
	Base
	UserID      string `gorm:"type:varchar(36);not null;index" json:"userId"`
	Type        string `gorm:"type:varchar(50);not null" json:"type" validate:"oneof=message lead billing review system"`
	Content     string `gorm:"type:text" json:"content"`
	IsRead      bool   `gorm:"not null;default:false;index" json:"isRead"`
	ReferenceID string `gorm:"type:varchar(36);default:''" json:"referenceId,omitempty"` // id of the object the notification points at
}
