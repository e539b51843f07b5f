package request

import "time"

// ContactRequest represents a public contact form submission
type ContactRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=255"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// ApplicationRequest represents a public courier application submission
type ApplicationRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=255"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Motivation   string `json:"motivation"`
	Experience   string `json:"experience"`
	Availability string `json:"availability"`
}

// ReviewApplicationRequest sets an application's review status
type ReviewApplicationRequest struct {
	Status string `json:"status" binding:"required,oneof=pendiente aprobada rechazada"`
}

// CampaignRequest represents campaign create/update input
type CampaignRequest struct {
	Title       string     `json:"title" binding:"required,min=2,max=255"`
	Description string     `json:"description"`
	Zone        string     `json:"zone"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Active      bool       `json:"active"`
}
