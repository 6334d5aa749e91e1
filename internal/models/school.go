package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultTemplate is the card template assigned to new schools.
const DefaultTemplate = "template1"

// CardTemplate describes a selectable ID-card layout.
type CardTemplate struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// CardTemplates lists the layouts a school can choose from.
var CardTemplates = []CardTemplate{
	{Name: "template1", Label: "Classic"},
	{Name: "template2", Label: "Modern Dark"},
	{Name: "template3", Label: "Minimal"},
}

// IsKnownTemplate reports whether name matches one of CardTemplates.
func IsKnownTemplate(name string) bool {
	for _, template := range CardTemplates {
		if template.Name == name {
			return true
		}
	}
	return false
}

// School is a tenant of the portal.
type School struct {
	ID               string    `gorm:"size:36;primaryKey" json:"id"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	Address          string    `gorm:"size:512" json:"address"`
	Pincode          string    `gorm:"size:16" json:"pincode"`
	State            string    `gorm:"size:128" json:"state"`
	LogoURL          string    `gorm:"size:1024" json:"logo_url"`
	SignatureURL     string    `gorm:"size:1024" json:"signature_url"`
	SelectedTemplate string    `gorm:"size:32;not null;default:template1" json:"selected_template"`
	OwnerUserID      string    `gorm:"size:36;not null;index" json:"owner_user_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate assigns the identifier and default template.
func (s *School) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.SelectedTemplate == "" {
		s.SelectedTemplate = DefaultTemplate
	}
	return nil
}
