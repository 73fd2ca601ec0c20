package entity

import "time"

// Client representa un cliente final del comercial. Solo el nombre es
// obligatorio; NIF, email, teléfono y dirección son opcionales.
type Client struct {
	ID        string
	UserID    string
	Nome      string
	NIF       string
	Email     string
	Telefone  string
	Morada    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
