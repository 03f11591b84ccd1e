package service

import (
	"context"

	"blogmesh/internal/dto"
	"blogmesh/internal/models"
	"blogmesh/internal/pagination"
	"blogmesh/internal/repository"
	"blogmesh/internal/validation"
)

// AddressService backs the address service's HTTP API.
type AddressService struct {
	addresses repository.AddressRepository
}

func NewAddressService(addresses repository.AddressRepository) *AddressService {
	return &AddressService{addresses: addresses}
}

// Create stores the address of userID. A user has at most one address.
func (s *AddressService) Create(ctx context.Context, userID uint, req dto.AddressRequest) (*dto.Address, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if userID == 0 {
		return nil, models.NewFieldValidationError(map[string]string{"userId": "userId must be positive"})
	}
	address := req.ToModel(userID)
	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, err
	}
	return dto.AddressFromModel(address), nil
}

func (s *AddressService) Get(ctx context.Context, id uint) (*dto.Address, error) {
	address, err := s.addresses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.AddressFromModel(address), nil
}

func (s *AddressService) GetByUserID(ctx context.Context, userID uint) (*dto.Address, error) {
	address, err := s.addresses.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.AddressFromModel(address), nil
}

func (s *AddressService) Update(ctx context.Context, id uint, req dto.AddressRequest) (*dto.Address, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	address, err := s.addresses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(address)
	if err := s.addresses.Update(ctx, address); err != nil {
		return nil, err
	}
	return dto.AddressFromModel(address), nil
}

func (s *AddressService) Delete(ctx context.Context, id uint) error {
	return s.addresses.Delete(ctx, id)
}

func (s *AddressService) DeleteByUserID(ctx context.Context, userID uint) error {
	return s.addresses.DeleteByUserID(ctx, userID)
}

func (s *AddressService) List(ctx context.Context, req pagination.Request) (*pagination.Page[dto.Address], error) {
	page, err := s.addresses.List(ctx, req)
	if err != nil {
		return nil, err
	}
	return pagination.Map(page, func(a models.Address) dto.Address {
		return *dto.AddressFromModel(&a)
	}), nil
}
