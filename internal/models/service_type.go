package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ServiceType is a catalog entry stations can offer and appointments book.
type ServiceType struct {
	bun.BaseModel `bun:"table:service_types,alias:st"`

	ID          uuid.UUID `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `bun:",nullzero,default:now()" json:"created_at"`
	UpdatedAt   time.Time `bun:",nullzero,default:now()" json:"updated_at"`
}
