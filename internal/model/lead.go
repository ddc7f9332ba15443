package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Lead statuses and sources as stored.
const (
	StatusNew = "new"

	SourceWebsite      = "website"
	SourcePilotProgram = "pilot_program"

	EnquiryTypeGeneral = "general"
)

// EnquiryRequest is the contact form body.
type EnquiryRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Company     string `json:"company"`
	Phone       string `json:"phone"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	EnquiryType string `json:"enquiry_type"`
}

// Enquiry is a stored contact-form submission.
type Enquiry struct {
	bun.BaseModel `bun:"table:enquiries,alias:e"`

	ID          string    `bun:"id,pk" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Email       string    `bun:"email,notnull" json:"email"`
	Company     *string   `bun:"company" json:"company"`
	Phone       *string   `bun:"phone" json:"phone"`
	Subject     string    `bun:"subject,notnull" json:"subject"`
	Message     string    `bun:"message,notnull" json:"message"`
	EnquiryType string    `bun:"enquiry_type,notnull" json:"enquiry_type"`
	Source      string    `bun:"source,notnull" json:"source"`
	Status      string    `bun:"status,notnull" json:"status"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"created_at"`
}

// PilotRequest is the pilot/beta signup body.
type PilotRequest struct {
	WebsiteURL   string `json:"website_url"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	BusinessType string `json:"business_type"`
}

// PilotLead is a stored pilot/beta signup.
type PilotLead struct {
	bun.BaseModel `bun:"table:yuno_leads,alias:l"`

	ID           string    `bun:"id,pk" json:"id"`
	WebsiteURL   string    `bun:"website_url,notnull" json:"website_url"`
	Email        string    `bun:"email,notnull,unique" json:"email"`
	FirstName    string    `bun:"first_name,notnull" json:"first_name"`
	BusinessType *string   `bun:"business_type" json:"business_type"`
	Source       string    `bun:"source,notnull" json:"source"`
	Status       string    `bun:"status,notnull" json:"status"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`
}
