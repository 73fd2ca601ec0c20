package entity

import "time"

// User representa un comercial (vendedor) del sistema. Todos los datos de
// negocio están aislados por usuario: ningún registro se comparte entre cuentas.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
