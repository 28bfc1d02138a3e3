package entity

import "time"

// Company representa una empresa/tenant del sistema (multi-tenant, enfoque
// República Dominicana). Todos los registros de negocio pertenecen a
// exactamente una Company.
type Company struct {
	ID        string
	Name      string
	RNC       string // Registro Nacional del Contribuyente (DGII)
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
