package dto

import (
	"stockyard/internal/domain/catalogs/client"
)

// --- Request DTOs ---

// CreateClientRequest is the request body for creating a client.
type CreateClientRequest struct {
	Code          string  `json:"code"`
	Name          string  `json:"name" binding:"required"`
	ContactPerson *string `json:"contactPerson"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateClientRequest) ToEntity() *client.Client {
	cl := client.NewClient(r.Code, r.Name)
	cl.ContactPerson = r.ContactPerson
	cl.Phone = r.Phone
	cl.Email = r.Email
	cl.Address = r.Address
	return cl
}

// UpdateClientRequest is the request body for updating a client.
type UpdateClientRequest struct {
	Code          string  `json:"code"`
	Name          string  `json:"name" binding:"required"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	Address       *string `json:"address,omitempty"`
	Version       int     `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateClientRequest) ApplyTo(cl *client.Client) {
	cl.Code = r.Code
	cl.Name = r.Name
	cl.ContactPerson = r.ContactPerson
	cl.Phone = r.Phone
	cl.Email = r.Email
	cl.Address = r.Address
	cl.Version = r.Version
}

// --- Response DTOs ---

// ClientResponse is the response body for a client.
type ClientResponse struct {
	ID            string  `json:"id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	Address       *string `json:"address,omitempty"`
	DeletionMark  bool    `json:"deletionMark"`
	Version       int     `json:"version"`
}

// FromClient creates response DTO from domain entity.
func FromClient(cl *client.Client) *ClientResponse {
	return &ClientResponse{
		ID:            cl.ID.String(),
		Code:          cl.Code,
		Name:          cl.Name,
		ContactPerson: cl.ContactPerson,
		Phone:         cl.Phone,
		Email:         cl.Email,
		Address:       cl.Address,
		DeletionMark:  cl.DeletionMark,
		Version:       cl.Version,
	}
}
