package models

// Review is a homeowner's rating of a contractor for one lead.
type Review struct {
	Base
	ContractorID string `gorm:"type:varchar(36);not null;index" json:"contractorId" validate:"required"`
	HomeownerID  string `gorm:"type:varchar(36);not null;uniqueIndex:ux_reviews_lead_homeowner,priority:2" json:"homeownerId" validate:"required"`
	LeadID       string `gorm:"type:varchar(36);not null;uniqueIndex:ux_reviews_lead_homeowner,priority:1" json:"leadId" validate:"required"`
	Rating       int    `gorm:"not null" json:"rating" validate:"required,min=1,max=5"`
	Body         string `gorm:"type:text" json:"body" validate:"max=5000"`
}

func (r *Review) Validate() error {
	return validate.Struct(r)
}
