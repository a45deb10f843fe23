package model

import (
	"time"

	"github.com/google/uuid"
)

type AccountKind string

const (
	AccountLocal  AccountKind = "local"
	AccountGoogle AccountKind = "google"
)

type Author struct {
	ID            uuid.UUID   `json:"id"`
	Nome          string      `json:"nome"`
	Cognome       string      `json:"cognome"`
	Email         string      `json:"email"`
	DataDiNascita string      `json:"dataDiNascita"`
	Avatar        string      `json:"avatar"`
	AccountKind   AccountKind `json:"accountKind"`
	PasswordHash  string      `json:"-"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// HasLocalCredential reports whether the author can sign in with a password.
// Federated accounts are created without one.
func (a *Author) HasLocalCredential() bool {
	return a.AccountKind == AccountLocal && a.PasswordHash != ""
}

type UserAuthor struct {
	ID      uuid.UUID `json:"id"`
	Nome    string    `json:"nome"`
	Cognome string    `json:"cognome"`
	Email   string    `json:"email"`
	Avatar  string    `json:"avatar"`
}

// Subject is the verified identity attached to an authenticated request.
type Subject struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}
