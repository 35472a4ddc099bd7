package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/newsdesk/newsroom/internal/api/dto"
	"github.com/newsdesk/newsroom/internal/envelope"
	apperrors "github.com/newsdesk/newsroom/pkg/util"
)

// PayloadReader opens sealed request bodies.
type PayloadReader struct {
	envelope *envelope.Envelope
	replay   envelope.ReplayGuard
}

// NewPayloadReader builds a reader. A nil replay guard, or an envelope with
// no max age, disables replay rejection.
func NewPayloadReader(env *envelope.Envelope, replay envelope.ReplayGuard) *PayloadReader {
	if env.MaxAge() <= 0 {
		replay = nil
	}
	return &PayloadReader{envelope: env, replay: replay}
}

// Read decodes {"payload": "..."} into dst.
func (r *PayloadReader) Read(c *fiber.Ctx, dst any) error {
	var req dto.EncryptedRequest
	if err := c.BodyParser(&req); err != nil || req.Payload == "" {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	opened, ok := r.envelope.Unseal(req.Payload)
	if !ok || json.Unmarshal(opened.Data, dst) != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if r.replay != nil {
		fresh, err := r.replay.Claim(c.UserContext(), opened.ID, r.envelope.MaxAge())
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		if !fresh {
			return apperrors.NewValidationError("payload already used", nil)
		}
	}
	return nil
}
