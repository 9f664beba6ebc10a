package utils

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/vitwit/paysession/types"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("uistate", validateUIStateTag)
}

func validateUIStateTag(fl validator.FieldLevel) bool {
	return types.UIState(fl.Field().String()).IsKnown()
}

// ParseStateEnvelope parses and validates the bootstrap state response.
func ParseStateEnvelope(data []byte) (*types.SessionSnapshot, error) {
	var env types.StateEnvelope

	if err := json.Unmarshal(data, &env); err != nil {
		return nil, types.NewError(types.ErrInvalidPayload, "failed to parse session state", err)
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "session not found"
		}
		return nil, types.NewError(types.ErrSessionNotFound, msg, nil)
	}

	if env.Data == nil {
		return nil, types.NewError(types.ErrInvalidPayload, "session state has no data", nil)
	}

	if err := ValidateSnapshot(env.Data); err != nil {
		return nil, err
	}

	return env.Data, nil
}

// ValidateSnapshot checks a snapshot received from the backend.
func ValidateSnapshot(s *types.SessionSnapshot) error {
	if err := validate.Struct(s); err != nil {
		return types.NewError(types.ErrInvalidPayload, "validation failed", err)
	}

	if err := validate.Var(string(s.UIState), "uistate"); err != nil {
		return types.NewError(types.ErrInvalidPayload, fmt.Sprintf("unknown uiState %q", s.UIState), nil)
	}

	if (s.UIState == types.StateChoose || s.UIState == types.StatePayment) && s.Payment == nil {
		return types.NewError(types.ErrInvalidPayload, fmt.Sprintf("uiState %q requires a payment", s.UIState), nil)
	}

	if s.Payment != nil {
		if err := ValidateAmount(s.Payment.AmountUSD); err != nil {
			return types.NewError(types.ErrInvalidPayload, "invalid payment amount", err)
		}
	}

	return nil
}

// ParseServerMessage decodes a WebSocket frame.
func ParseServerMessage(data []byte) (*types.ServerMessage, error) {
	var msg types.ServerMessage

	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, types.NewError(types.ErrInvalidPayload, "failed to parse socket message", err)
	}

	if msg.Type == "" {
		return nil, types.NewError(types.ErrInvalidPayload, "socket message has no type", nil)
	}

	return &msg, nil
}

// ValidateConfig checks a client configuration using its struct tags.
func ValidateConfig(cfg *types.Config) error {
	if cfg == nil {
		return types.NewError(types.ErrConfigError, "config is required", nil)
	}

	if err := validate.Struct(cfg); err != nil {
		return types.NewError(types.ErrConfigError, "validation failed", err)
	}

	return nil
}
