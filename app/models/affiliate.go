package models

import "time"

// Affiliate is a user earning commission on referred contractors.
type Affiliate struct {
	Base
	UserID string `gorm:"type:varchar(36);not null;uniqueIndex" json:"userId"`
	Code   string `gorm:"type:varchar(40);not null;uniqueIndex" json:"code" validate:"required,alphanum,min=3,max=40"`
}

// Commission is an affiliate's earned referral amount.
type Commission struct {
	Base
	AffiliateID   string     `gorm:"type:varchar(36);not null;index" json:"affiliateId"`
	TransactionID string     `gorm:"type:varchar(36);default:''" json:"transactionId,omitempty"`
	Amount        float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	IsPaid        bool       `gorm:"not null;default:false;index" json:"isPaid"`
	PaidAt        *time.Time `gorm:"default:null" json:"paidAt,omitempty"`
}
