package server

import (
	"encoding/json"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis"
	apperrors "github.com/GriffinCanCode/ratiolens/backend/platform/internal/errors"
)

// Message is the envelope shared by all JSON messages.
type Message struct {
	Type    string `json:"type"`
	TraceID string `json:"trace_id,omitempty"`
}

// SettingsRequest overlays the given fields on the current settings.
type SettingsRequest struct {
	Type     string          `json:"type"`
	Settings json.RawMessage `json:"settings"`
}

type SettingsMessage struct {
	Type     string            `json:"type"`
	Settings analysis.Settings `json:"settings"`
}

type ResultMessage struct {
	Type    string          `json:"type"`
	Session string          `json:"session"`
	Result  analysis.Result `json:"result"`
}

type ErrorMessage struct {
	Type     string            `json:"type"`
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// errorMessage converts err for the wire; unknown errors become INTERNAL.
func errorMessage(err error) ErrorMessage {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Wrap(err, apperrors.Internal, "internal error")
	}
	return ErrorMessage{
		Type:     TypeError,
		Code:     appErr.Code.String(),
		Message:  appErr.Message,
		Metadata: appErr.Metadata,
	}
}

// overlay applies the JSON fields in raw on top of the settings it is given.
func overlay(raw json.RawMessage) func(*analysis.Settings) error {
	return func(v *analysis.Settings) error {
		if len(raw) == 0 {
			return apperrors.New(apperrors.InvalidArgument, "missing settings")
		}
		if err := json.Unmarshal(raw, v); err != nil {
			return apperrors.Wrap(err, apperrors.InvalidArgument, "malformed settings")
		}
		return nil
	}
}
