package handlers

import (
	"goalgg/pkg/middleware"
	"goalgg/pkg/models"
	"goalgg/pkg/response"
	"goalgg/pkg/services"

	"github.com/gofiber/fiber/v2"
)

type UsersHandler struct {
	svc services.UserService
}

func NewUsers(svc services.UserService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

// POST /users/register
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, 400, "invalid JSON body")
	}

	user, err := h.svc.Register(req)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, 201, "User registered successfully", user)
}

// POST /users/login
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, 400, "invalid JSON body")
	}

	user, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	token, err := middleware.CreateToken(user.ID)
	if err != nil {
		return fail(c, err)
	}

	return response.Success(c, 200, "Login successful", models.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// GET /users?skip=0&limit=100
func (h *UsersHandler) List(c *fiber.Ctx) error {
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)

	users, err := h.svc.List(skip, limit)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, 200, "Users retrieved successfully", users)
}

// GET /users/:id
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.Error(c, 400, "invalid user id")
	}

	user, err := h.svc.Get(id)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, 200, "User retrieved successfully", user)
}

// PUT /users/role?user_id=&new_role_id=
func (h *UsersHandler) ChangeRole(c *fiber.Ctx) error {
	currentID, _ := c.Locals("user_id").(int)
	userID := c.QueryInt("user_id")
	newRoleID := c.QueryInt("new_role_id")
	if userID <= 0 || newRoleID <= 0 {
		return response.Error(c, 400, "user_id and new_role_id are required")
	}

	// changing someone else's role takes super admin
	if userID != currentID {
		current, err := h.svc.Get(currentID)
		if err != nil {
			return fail(c, err)
		}
		if current.RoleID != models.RoleSuperAdmin {
			return response.Error(c, 403, "Unauthorized to change role")
		}
	}

	user, err := h.svc.ChangeRole(userID, newRoleID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, 200, "Role changed successfully", user)
}
