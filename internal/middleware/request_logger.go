package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// リクエストを1行で記録する
// request_idを発番してレスポンスヘッダにも返す
func RequestLogger(logger *zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := uuid.NewString()
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			start := time.Now()

			err := next(c)
			if err != nil {
				//echoのエラーハンドラに書かせてからstatusを読む
				c.Error(err)
			}

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Str("error", err.Error())
			}

			evt.
				Str("request_id", requestID).
				Str("method", c.Request().Method).
				Str("url", c.Request().URL.String()).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Msg("request completed")

			return nil
		}
	}
}
