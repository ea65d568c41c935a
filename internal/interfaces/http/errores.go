package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/consola-admin/internal/application/dto"
	"github.com/jhoicas/consola-admin/internal/application/panel"
	"github.com/jhoicas/consola-admin/internal/application/ports"
	"github.com/jhoicas/consola-admin/internal/application/sesion"
	"github.com/jhoicas/consola-admin/internal/domain"
)

// Códigos de error de la consola.
const (
	CodeInvalidBody          = "INVALID_BODY"
	CodeValidation           = "VALIDATION"
	CodeDuplicate            = "DUPLICATE"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodeBusy                 = "BUSY"
	CodeInvalidState         = "INVALID_STATE"
	CodeNotFound             = "NOT_FOUND"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeConflict             = "CONFLICT"
	CodeBackend              = "BACKEND_ERROR"
	CodeInternal             = "INTERNAL"
	CodeSinSesion            = "SIN_SESION"
)

// responderError traduce errores de dominio y de backend a dto.ErrorResponse.
func responderError(c *fiber.Ctx, err error) error {
	var verr *domain.ErrorValidacion
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeValidation, Message: "formulario con errores", Campos: verr.Campos})
	}

	var loginErr *sesion.ErrorLogin
	if errors.As(err, &loginErr) {
		status := fiber.StatusBadGateway
		if errors.Is(err, domain.ErrUnauthorized) {
			status = fiber.StatusUnauthorized
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: codigoBackend(err), Message: loginErr.Mensaje})
	}

	var opErr *panel.ErrorOperacion
	if errors.As(err, &opErr) {
		return c.Status(statusBackend(err)).JSON(dto.ErrorResponse{Code: codigoBackend(err), Message: opErr.Mensaje})
	}

	var httpErr ports.ErrorHTTP
	if errors.As(err, &httpErr) {
		return c.Status(statusBackend(err)).JSON(dto.ErrorResponse{Code: codigoBackend(err), Message: err.Error()})
	}

	switch {
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: CodeDuplicate, Message: err.Error()})
	case errors.Is(err, domain.ErrNoConfirmado):
		return c.Status(fiber.StatusPreconditionRequired).JSON(dto.ErrorResponse{Code: CodeConfirmationRequired, Message: err.Error()})
	case errors.Is(err, domain.ErrOcupado):
		return c.Status(fiber.StatusLocked).JSON(dto.ErrorResponse{Code: CodeBusy, Message: err.Error()})
	case errors.Is(err, domain.ErrSinFormulario), errors.Is(err, domain.ErrSinDuplicado):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: CodeInvalidState, Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: CodeNotFound, Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: CodeUnauthorized, Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: CodeForbidden, Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: CodeConflict, Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: CodeInternal, Message: err.Error()})
}

func statusBackend(err error) int {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusBadGateway
}

func codigoBackend(err error) string {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return CodeConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return CodeForbidden
	case errors.Is(err, domain.ErrNotFound):
		return CodeNotFound
	}
	return CodeBackend
}
