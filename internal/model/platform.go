package model

import "github.com/jellydator/validation"

type InitPlatformRequest struct {
	FeeBps uint16 `json:"fee_bps"`
}

type InitPlatformResponse struct {
	Platform Platform `json:"platform"`
}

type InitSecurityConfigRequest struct{}

type InitSecurityConfigResponse struct {
	SecurityConfig SecurityConfig `json:"security_config"`
}

type GetPlatformRequest struct{}

type GetPlatformResponse struct {
	Platform       Platform       `json:"platform"`
	SecurityConfig SecurityConfig `json:"security_config"`
}

type PausePlatformRequest struct{}

type PausePlatformResponse struct{}

type UnpausePlatformRequest struct{}

type UnpausePlatformResponse struct{}

type InitiateAdminTransferRequest struct {
	NewAdmin string `json:"new_admin"`
}

func (r InitiateAdminTransferRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NewAdmin, validation.Required),
	)
}

type InitiateAdminTransferResponse struct{}

type CompleteAdminTransferRequest struct{}

type CompleteAdminTransferResponse struct {
	Admin string `json:"admin"`
}

type CancelAdminTransferRequest struct{}

type CancelAdminTransferResponse struct{}

type UpdatePlatformFeeRequest struct {
	FeeBps uint16 `json:"fee_bps"`
}

type UpdatePlatformFeeResponse struct{}

type AddToBlacklistRequest struct {
	Wallet string `json:"wallet"`
	Reason string `json:"reason"`
}

func (r AddToBlacklistRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Wallet, validation.Required),
		validation.Field(&r.Reason, validation.Required),
	)
}

type AddToBlacklistResponse struct{}

type RemoveFromBlacklistRequest struct {
	Wallet string `json:"wallet"`
}

func (r RemoveFromBlacklistRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Wallet, validation.Required),
	)
}

type RemoveFromBlacklistResponse struct{}

// UpdateSecurityConfigRequest patches only the fields the caller sends.
type UpdateSecurityConfigRequest struct {
	RateLimitSeconds      *int64  `json:"rate_limit_seconds"`
	RateLimitingEnabled   *bool   `json:"rate_limiting_enabled"`
	BlacklistEnabled      *bool   `json:"blacklist_enabled"`
	VrfRequired           *bool   `json:"vrf_required"`
	MinBlockConfirmations *uint64 `json:"min_block_confirmations"`
	MaxTicketsPerWallet   *uint64 `json:"max_tickets_per_wallet"`
}

func (r UpdateSecurityConfigRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RateLimitSeconds, validation.Min(int64(0))),
	)
}

type UpdateSecurityConfigResponse struct {
	SecurityConfig SecurityConfig `json:"security_config"`
}
