// Package models holds the client-side data types exchanged with the
// analysis service and shared by the session and analysis layers.
package models

import "github.com/dmitrijs2005/resumefit/internal/timex"

// Identity is the signed-in user's profile as returned by the service.
type Identity struct {
	ID        string          `json:"_id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	IsActive  bool            `json:"is_active"`
	CreatedAt timex.Timestamp `json:"created_at"`
	UpdatedAt timex.Timestamp `json:"updated_at"`
}

// LoginResult is the payload of a successful credential exchange.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	User         Identity
}
