package handlers

import (
	"errors"
	"log"

	"goalgg/pkg/response"
	"goalgg/pkg/services"

	"github.com/gofiber/fiber/v2"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrClubNotFound),
		errors.Is(err, services.ErrNotMember),
		errors.Is(err, services.ErrNoPendingRequest):
		return 404
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrPhoneTaken),
		errors.Is(err, services.ErrAlreadyMember):
		return 409
	case errors.Is(err, services.ErrInvalidPassword):
		return 401
	case errors.Is(err, services.ErrMaxClubsReached),
		errors.Is(err, services.ErrClubFull),
		errors.Is(err, services.ErrNotAdmin),
		errors.Is(err, services.ErrAdminCannotLeave),
		errors.Is(err, services.ErrRoleChangeDenied):
		return 403
	case errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrLocationRequired):
		return 400
	}
	return 500
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == 500 {
		log.Printf("[HTTP] %s %s failed: %v", c.Method(), c.Path(), err)
		msg = "internal server error"
	}
	return response.Error(c, status, msg)
}
