package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// ErrSaleNotPaid: solo las ventas en "boa cobrança" (estado pago) pueden
	// liquidar comisión. La precondición se verifica en el engine, no en la UI.
	ErrSaleNotPaid = errors.New("la venta no está pagada por el cliente")

	// ErrClientInUse: un cliente con ventas asociadas no puede eliminarse.
	ErrClientInUse = errors.New("el cliente tiene ventas asociadas")
)
