package fail

import (
	"fmt"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Fail logs the message and sends it back to the requester as a plain text body.
func Fail(c echo.Context, status int, format string, args ...interface{}) error {
	message := fmt.Sprintf(format, args...)

	zap.S().With(
		"method", c.Request().Method,
		"key", c.Param("key"),
		"status_code", status,
	).Error(message)

	return c.String(status, message)
}
