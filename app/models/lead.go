package models

const (
	LeadStatusOpen   = "open"
	LeadStatusHired  = "hired"
	LeadStatusClosed = "closed"
)

// Lead is a homeowner-submitted job request visible to contractors.
type Lead struct {
	Base
	HomeownerID string `gorm:"type:varchar(36);not null;index" json:"homeownerId" validate:"required"`
	Category    string `gorm:"type:varchar(100);not null;index" json:"category" validate:"required,max=100"`
	Title       string `gorm:"type:varchar(200);not null" json:"title" validate:"required,min=3,max=200"`
	Description string `gorm:"type:text" json:"description" validate:"max=5000"`
	ZipCode     string `gorm:"type:varchar(10);index" json:"zipCode" validate:"required,max=10"`
	Status      string `gorm:"type:varchar(20);not null;default:'open';index" json:"status" validate:"oneof=open hired closed"`
}

func (l *Lead) Validate() error {
	return validate.Struct(l)
}

// ValidLeadStatus reports whether status is a known lead status.
func ValidLeadStatus(status string) bool {
	switch status {
	case LeadStatusOpen, LeadStatusHired, LeadStatusClosed:
		return true
	default:
		return false
	}
}
