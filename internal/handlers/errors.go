package handlers

import (
	"errors"
	"net/http"
	"strings"

	"pasar/internal/errs"
	"pasar/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ErrorHandler is the application's fiber.ErrorHandler. Every failure is
// answered with an *errs.Error body; unexpected errors are logged and hidden
// behind a generic 500.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		e, ok := errs.As(err)
		if !ok {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				e = fromFiberError(fiberErr)
			} else {
				logger.Error().Err(err).
					Str("method", c.Method()).
					Str("path", c.Path()).
					Msg("unhandled error")
				e = errs.Internal()
			}
		}
		return c.Status(e.Status).JSON(e)
	}
}

func fromFiberError(fe *fiber.Error) *errs.Error {
	switch {
	case fe.Code == fiber.StatusNotFound:
		return errs.New(errs.KindRouteNotFound, "Route not found")
	case fe.Code >= fiber.StatusInternalServerError:
		return errs.Internal()
	}
	e := errs.New(errs.KindValidation, fe.Message)
	e.Status = fe.Code
	e.Code = strings.ToUpper(strings.ReplaceAll(http.StatusText(fe.Code), " ", "_")) + "_ERROR"
	e.Description = http.StatusText(fe.Code)
	return e
}

// serviceError maps service sentinels to response errors. fallback is the
// message used when a write fails for reasons the service did not classify.
func serviceError(err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return errs.New(errs.KindNotFound, "Unknown user")
	case errors.Is(err, services.ErrProductNotFound):
		return errs.New(errs.KindNotFound, "produk tidak diketahui")
	case errors.Is(err, services.ErrEmailTaken):
		return errs.New(errs.KindConflict, "Email is already registered")
	case errors.Is(err, services.ErrInvalidCredentials):
		return errs.New(errs.KindInvalidCredentials, "Wrong email or password")
	case errors.Is(err, services.ErrInvalidQuery):
		return errs.Validation(err.Error(), nil)
	case errors.Is(err, services.ErrWriteFailed):
		return errs.New(errs.KindUnprocessable, fallback)
	default:
		return err
	}
}
