package dto

import "time"

// ClientRequest alta/edición de cliente. Solo Nome es obligatorio.
type ClientRequest struct {
	Nome     string `json:"nome"`
	NIF      string `json:"nif,omitempty"`
	Email    string `json:"email,omitempty"`
	Telefone string `json:"telefone,omitempty"`
	Morada   string `json:"morada,omitempty"`
}

// ClientResponse cliente.
type ClientResponse struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	NIF       string    `json:"nif,omitempty"`
	Email     string    `json:"email,omitempty"`
	Telefone  string    `json:"telefone,omitempty"`
	Morada    string    `json:"morada,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
