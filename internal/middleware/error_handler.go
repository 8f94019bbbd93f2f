package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/errs"
)

// ErrorHandler is the final funnel for every error returned by a handler
// or middleware. Every response body has the {"detail": ...} shape. Errors
// that map to 5xx are logged with their original cause; client errors are
// already covered by the request log.
func ErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		httpErr := toHTTPError(err)
		if httpErr.Status >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("request_id", GetRequestID(c)).
				Int("status", httpErr.Status).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(httpErr.Status)
		} else {
			err = c.JSON(httpErr.Status, httpErr.Body())
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}

func toHTTPError(err error) *errs.HTTPError {
	var he *errs.HTTPError
	if errors.As(err, &he) {
		return he
	}
	var ee *echo.HTTPError
	if errors.As(err, &ee) {
		if ee.Code >= http.StatusInternalServerError {
			return errs.NewInternalServerError(err)
		}
		out := errs.FromStatus(ee.Code)
		if msg, ok := ee.Message.(string); ok && msg != "" {
			out.Detail = msg
		}
		return out
	}
	return errs.NewInternalServerError(err)
}
