package addressserver

import (
	"blogmesh/internal/dto"
	"blogmesh/internal/httputil"

	"github.com/gofiber/fiber/v2"
)

// CreateAddress handles POST /address/api/userId/:userId
func (s *Server) CreateAddress(c *fiber.Ctx) error {
	userID, err := httputil.ParseID(c, "userId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}
	var req dto.AddressRequest
	if err := httputil.ParseBody(c, &req); err != nil {
		return httputil.IgnoreWritten(err)
	}

	address, err := s.addressService.Create(c.UserContext(), userID, req)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(address)
}

// GetAddressByUser handles GET /address/api/userId/:userId
func (s *Server) GetAddressByUser(c *fiber.Ctx) error {
	userID, err := httputil.ParseID(c, "userId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}

	address, err := s.addressService.GetByUserID(c.UserContext(), userID)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(address)
}

// GetAddress handles GET /address/api/:id
func (s *Server) GetAddress(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}

	address, err := s.addressService.Get(c.UserContext(), id)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(address)
}

// GetAddresses handles GET /address/api/
func (s *Server) GetAddresses(c *fiber.Ctx) error {
	page, err := s.addressService.List(c.UserContext(), httputil.PageRequest(c))
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(page)
}

// UpdateAddress handles PUT /address/api/:id
func (s *Server) UpdateAddress(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}
	var req dto.AddressRequest
	if err := httputil.ParseBody(c, &req); err != nil {
		return httputil.IgnoreWritten(err)
	}

	address, err := s.addressService.Update(c.UserContext(), id, req)
	if err != nil {
		return httputil.ServiceError(c, err)
	}
	return c.JSON(address)
}

// DeleteAddress handles DELETE /address/api/:id
func (s *Server) DeleteAddress(c *fiber.Ctx) error {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}

	if err := s.addressService.Delete(c.UserContext(), id); err != nil {
		return httputil.ServiceError(c, err)
	}
	return httputil.Deleted(c, "Address deleted successfully")
}

// DeleteAddressByUser handles DELETE /address/api/userId/:userId
func (s *Server) DeleteAddressByUser(c *fiber.Ctx) error {
	userID, err := httputil.ParseID(c, "userId")
	if err != nil {
		return httputil.IgnoreWritten(err)
	}

	if err := s.addressService.DeleteByUserID(c.UserContext(), userID); err != nil {
		return httputil.ServiceError(c, err)
	}
	return httputil.Deleted(c, "Address deleted successfully")
}
