// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	customValidation "github.com/cuacalab/forecast-api/internal/validation"
)

// IssueTokenRequest contains the parameters for issuing a new API token.
type IssueTokenRequest struct {
	Organization string  `json:"organization"`
	Email        *string `json:"email,omitempty"`
	Capabilities []int   `json:"capabilities"`
	Activated    bool    `json:"activated"`
}

// Validate checks if the issue token request is valid.
func (r *IssueTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Organization,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Email,
			customValidation.Email,
		),
		validation.Field(&r.Capabilities,
			validation.Required,
			validation.Length(1, 0),
		),
	)
}

// CapabilityIDs converts the raw capability ids to their domain type.
func (r *IssueTokenRequest) CapabilityIDs() []authDomain.CapabilityID {
	ids := make([]authDomain.CapabilityID, 0, len(r.Capabilities))
	for _, id := range r.Capabilities {
		ids = append(ids, authDomain.CapabilityID(id))
	}
	return ids
}

// ActivateTokenRequest contains the parameters for activating an issued token.
type ActivateTokenRequest struct {
	Token string `json:"token"`
}

// Validate checks if the activate token request is valid.
func (r *ActivateTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}
