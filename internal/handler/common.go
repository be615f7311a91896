package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotelhub-pms/internal/apperr"
	"github.com/iliyamo/hotelhub-pms/internal/repository"
)

// dbTimeout bounds every repository call made on behalf of a request.
const dbTimeout = 5 * time.Second

var validate = validator.New()

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// fail answers with {"error": msg} and the given status.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}

// failRepo maps repository sentinels to HTTP statuses.  what names the
// resource in the 404 message ("room not found").
func failRepo(c echo.Context, err error, what string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, what+" not found")
	case errors.Is(err, repository.ErrConflict):
		return fail(c, http.StatusConflict, what+" conflicts with existing data")
	case errors.Is(err, context.DeadlineExceeded):
		return fail(c, http.StatusServiceUnavailable, "database timeout")
	}
	c.Logger().Errorf("%s: %v", what, err)
	return fail(c, http.StatusInternalServerError, "database error")
}

// failApp answers with the status and message carried by an apperr error.
func failApp(c echo.Context, err error, fallback string) error {
	return fail(c, apperr.Status(err), apperr.Message(err, fallback))
}

// validationMessage turns validator errors into "field: rule" text.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}
	fe := verrs[0]
	return "invalid " + fe.Field() + ": " + fe.Tag()
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
