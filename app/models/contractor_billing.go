package models

// ContractorBilling holds the per-contractor billing switches. At most one
// row exists per user, enforced by the unique index on user_id.
type ContractorBilling struct {
	Base
	UserID   string `gorm:"type:varchar(36);not null;uniqueIndex:ux_contractor_billings_user" json:"userId"`
	IsPaused bool   `gorm:"not null;default:false" json:"isPaused"`
}
