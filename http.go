package authgate

import (
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// LoginResponse is the login endpoint payload on success.
type LoginResponse struct {
	Token string `json:"token"`
}

// genericAuthFailure is the single body returned for every authentication
// failure; it deliberately carries no detail a caller could use to tell
// "no such user" from "wrong password".
var genericAuthFailure = map[string]string{"error": "invalid credentials"}

func defaultErrHandler(logger Logger) router.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c router.Context, err error) error {
		var richErr *errors.Error
		if !errors.As(err, &richErr) {
			richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
				WithCode(errors.CodeInternal)
		}

		logger.Info(
			"auth error handler: %s category=%s details=%s",
			richErr.Message,
			richErr.Category,
			print.MaybePrettyJSON(richErr.Metadata),
		)

		switch richErr.Category {
		case errors.CategoryAuth, errors.CategoryAuthz:
			return c.JSON(router.StatusUnauthorized, genericAuthFailure)
		default:
			return c.JSON(router.StatusInternalServerError, map[string]string{
				"error": "internal server error",
			})
		}
	}
}
