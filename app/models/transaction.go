package models

const (
	TransactionKindCharge = "charge"
	TransactionKindRefund = "refund"
)

// Transaction is one ledger line of money moving for a user.
type Transaction struct {
	Base
	UserID         string  `gorm:"type:varchar(36);not null;index" json:"userId"`
	SubscriptionID string  `gorm:"type:varchar(36);default:'';index" json:"subscriptionId,omitempty"`
	Kind           string  `gorm:"type:varchar(20);not null" json:"kind"`
	Amount         float64 `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency       string  `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	ProviderRef    string  `gorm:"type:varchar(191);uniqueIndex" json:"providerRef"`
	Description    string  `gorm:"type:varchar(255);default:''" json:"description,omitempty"`
}
