package httpx

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"rentpos-backend/internal/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const DateLayout = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseBody decodes the request body into dst and runs its validate tags.
func ParseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fiber.NewError(fiber.StatusBadRequest, strings.ToLower(fe.Field())+" failed '"+fe.Tag()+"' validation")
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// ParamID reads a positive numeric route parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || v == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(v), nil
}

// ParseDate reads a YYYY-MM-DD value.
func ParseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, field+" must be formatted as 'YYYY-MM-DD'")
	}
	return d, nil
}

func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindConflict:
		return fiber.StatusConflict
	case apperr.KindInvalidAmount:
		return fiber.StatusBadRequest
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindStoreUnavailable:
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler renders fiber errors and typed service errors as JSON. Store
// failures are logged; their internals are not sent to the client.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		var ae *apperr.Error
		if errors.As(err, &ae) {
			msg := ae.Msg
			if ae.Kind == apperr.KindStoreUnavailable {
				log.Error("store call failed", zap.String("path", c.Path()), zap.Error(err))
				msg = "store unavailable, try again"
			}
			return c.Status(StatusOf(ae.Kind)).JSON(fiber.Map{
				"error": msg,
				"code":  string(ae.Kind),
			})
		}

		log.Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unexpected server error",
		})
	}
}
