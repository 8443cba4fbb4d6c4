package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	model "stationbook/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ServiceTypeService struct {
	db *bun.DB
}

func NewServiceTypeService(db *bun.DB) *ServiceTypeService {
	return &ServiceTypeService{db: db}
}

type ServiceTypeInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// ServiceTypeUpdate carries optional fields for a partial update. Nil means
// leave the column untouched.
type ServiceTypeUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

func (s *ServiceTypeService) List(ctx context.Context) ([]model.ServiceType, error) {
	var types []model.ServiceType
	err := s.db.NewSelect().Model(&types).OrderExpr("name ASC").Scan(ctx)
	return types, err
}

func (s *ServiceTypeService) Get(ctx context.Context, id uuid.UUID) (*model.ServiceType, error) {
	var st model.ServiceType
	err := s.db.NewSelect().Model(&st).Where("st.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("service type")
		}
		return nil, err
	}
	return &st, nil
}

func (s *ServiceTypeService) Create(ctx context.Context, in ServiceTypeInput) (*model.ServiceType, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, model.NewValidationError("name", "name is required")
	}
	if in.Price < 0 {
		return nil, model.NewValidationError("price", "price must not be negative")
	}

	st := model.ServiceType{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
	}
	if _, err := s.db.NewInsert().Model(&st).Exec(ctx); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *ServiceTypeService) Update(ctx context.Context, id uuid.UUID, in ServiceTypeUpdate) (*model.ServiceType, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, model.NewValidationError("name", "name must not be empty")
		}
		st.Name = *in.Name
	}
	if in.Description != nil {
		st.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, model.NewValidationError("price", "price must not be negative")
		}
		st.Price = *in.Price
	}

	_, err = s.db.NewUpdate().Model(st).
		Column("name", "description", "price").
		Set("updated_at = now()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *ServiceTypeService) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.NewDelete().Model((*model.ServiceType)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.NewNotFoundError("service type")
	}
	return nil
}
