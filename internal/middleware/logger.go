package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger writes one line per request. The level follows the final
// status: error for 5xx, warn for 4xx, info otherwise.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		HandleError: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			// with HandleError the error handler has already written the
			// response, so v.Status is final; it also logs 5xx causes
			var e *zerolog.Event
			switch {
			case v.Status >= 500:
				e = log.Error()
			case v.Status >= 400:
				e = log.Warn()
			default:
				e = log.Info()
			}
			if id := GetRequestID(c); id != "" {
				e = e.Str("request_id", id)
			}
			e.Dur("latency", v.Latency).
				Int("status", v.Status).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("ip", c.RealIP()).
				Msg("API")
			return nil
		},
	})
}
