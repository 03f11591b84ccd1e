// Package dto holds the JSON transfer objects of both services and the
// mappers between them and the persisted models.
package dto

import "blogmesh/internal/models"

// Address is the address representation shared by both services.
type Address struct {
	ID     uint   `json:"id"`
	Lane1  string `json:"lane1"`
	Lane2  string `json:"lane2"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    int    `json:"zip"`
	UserID uint   `json:"userId,omitempty"`
}

// AddressRequest is the body accepted when creating or updating an address.
type AddressRequest struct {
	Lane1 string `json:"lane1" validate:"notblank,max=255"`
	Lane2 string `json:"lane2" validate:"max=255"`
	City  string `json:"city" validate:"notblank,max=100"`
	State string `json:"state" validate:"notblank,max=100"`
	Zip   int    `json:"zip" validate:"gte=10000,lte=99999"`
}

var addressRequestMessages = map[string]string{
	"lane1.notblank": "Lane1 cannot be blank",
	"lane1.max":      "Lane1 cannot exceed 255 characters",
	"lane2.max":      "Lane2 cannot exceed 255 characters",
	"city.notblank":  "City cannot be blank",
	"city.max":       "City cannot exceed 100 characters",
	"state.notblank": "State cannot be blank",
	"state.max":      "State cannot exceed 100 characters",
	"zip.gte":        "Zip code must be at least 5 digits",
	"zip.lte":        "Zip code cannot exceed 5 digits",
}

func (AddressRequest) ValidationMessages() map[string]string { return addressRequestMessages }

func AddressFromModel(a *models.Address) *Address {
	if a == nil {
		return nil
	}
	return &Address{
		ID:     a.ID,
		Lane1:  a.Lane1,
		Lane2:  a.Lane2,
		City:   a.City,
		State:  a.State,
		Zip:    a.Zip,
		UserID: a.UserID,
	}
}

// ToModel builds a new address owned by userID.
func (r AddressRequest) ToModel(userID uint) *models.Address {
	a := &models.Address{UserID: userID}
	r.Apply(a)
	return a
}

// Apply copies the mutable fields onto a.
func (r AddressRequest) Apply(a *models.Address) {
	a.Lane1 = r.Lane1
	a.Lane2 = r.Lane2
	a.City = r.City
	a.State = r.State
	a.Zip = r.Zip
}
