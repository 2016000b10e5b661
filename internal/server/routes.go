package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

func registerRoutes(
	e *echo.Echo,
	cfg config.Config,
	authH *handler.AuthHandler,
	orderH *handler.OrderHandler,
	txnH *handler.TransactionHandler,
) {
	authH.RegisterRoutes(e)
	orderH.RegisterRoutes(e, cfg)
	txnH.RegisterRoutes(e)
}
