package handler

import (
	"errors"
	"net/http"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// usecaseの閉じたエラー集合をHTTPステータスへ変換する
// 文字列での判定はしない
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	var invalid *usecase.InvalidRequestError
	if errors.As(err, &invalid) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: invalid.Reason})
	}

	var notFound *usecase.NotFoundError
	if errors.As(err, &notFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: notFound.Error()})
	}

	var insufficient *usecase.InsufficientStockError
	if errors.As(err, &insufficient) {
		//在庫競合はconflict扱い
		return c.JSON(http.StatusConflict, ErrorResponse{Error: insufficient.Error()})
	}

	//StorageErrorと未知のエラーは500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	id, ok := v.(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}
