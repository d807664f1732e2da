package serverutils

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors bubbling out of controllers into
// JSON responses: AppError keeps its status and code, fiber errors keep
// their status, everything else becomes a 500 with the message hidden.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if appErr, ok := AsAppError(err); ok {
			if appErr.Err != nil {
				log.Printf("[ERROR] %s %s: %v", ctx.Method(), ctx.Path(), appErr)
			}
			return ctx.Status(appErr.Status).JSON(ErrorResponse(appErr.Code, appErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse("HTTP_ERROR", fiberErr.Message))
		}

		log.Printf("[ERROR] %s %s: %v", ctx.Method(), ctx.Path(), err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("INTERNAL", "internal server error"))
	}
}
