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
)

// Errores de secuencias fiscales (NCF). Cada precondición del asignador
// produce un error distinto para que el caller decida el mensaje al usuario.
var (
	// ErrRangeInactive la secuencia fue desactivada administrativamente.
	ErrRangeInactive = errors.New("secuencia fiscal inactiva")
	// ErrRangeExpired la vigencia autorizada por la DGII ya venció.
	ErrRangeExpired = errors.New("secuencia fiscal vencida")
	// ErrRangeExhausted el contador llegó al final del rango; no quedan NCF.
	ErrRangeExhausted = errors.New("secuencia fiscal agotada")
)
