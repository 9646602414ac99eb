package handlers

import (
	"goalgg/pkg/models"
	"goalgg/pkg/response"
	"goalgg/pkg/services"

	"github.com/gofiber/fiber/v2"
)

type ClubsHandler struct {
	svc services.ClubService
}

func NewClubs(svc services.ClubService) *ClubsHandler {
	return &ClubsHandler{svc: svc}
}

// POST /clubs
func (h *ClubsHandler) Create(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(int)

	var req models.CreateClubRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, 400, "invalid JSON body")
	}
	if req.Name == "" || req.Description == "" || req.SportCategory == "" {
		return response.Error(c, 400, "name, description and sport_category are required")
	}

	club, err := h.svc.Create(userID, req)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, 201, "Club created successfully", club)
}

// GET /clubs/search?name=&sort_by=&sport_category=&is_private=&skip=&limit=
func (h *ClubsHandler) Search(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(int)

	f := models.ClubSearch{
		Name:          c.Query("name"),
		SportCategory: c.Query("sport_category"),
		SortBy:        c.Query("sort_by", "name"),
		Skip:          c.QueryInt("skip", 0),
		Limit:         c.QueryInt("limit", 100),
	}
	if v := c.Query("is_private"); v != "" {
		private := v == "true" || v == "1"
		f.IsPrivate = &private
	}

	clubs, err := h.svc.Search(userID, f)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, 200, "Clubs retrieved successfully", clubs)
}

// GET /clubs/my-clubs
func (h *ClubsHandler) MyClubs(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(int)

	result, err := h.svc.MyClubs(userID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, 200, "User clubs retrieved successfully", result)
}

// GET /clubs/:id
func (h *ClubsHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.Error(c, 400, "invalid club id")
	}

	club, err := h.svc.Get(id)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, 200, "Club retrieved successfully", club)
}

// POST /clubs/:id/join
func (h *ClubsHandler) Join(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(int)
	clubID, err := c.ParamsInt("id")
	if err != nil {
		return response.Error(c, 400, "invalid club id")
	}

	result, err := h.svc.Join(clubID, userID)
	if err != nil {
		return fail(c, err)
	}

	var msg string
	status := 201
	switch result.RequestStatus {
	case "pending":
		msg, status = "Join request sent successfully", 200
	case "already_pending":
		msg, status = "Join request already pending", 200
	default:
		msg = "Successfully joined the club"
	}
	return response.Success(c, status, msg, result)
}

// POST /clubs/:id/accept-request/:user_id
func (h *ClubsHandler) AcceptRequest(c *fiber.Ctx) error {
	adminID, _ := c.Locals("user_id").(int)
	clubID, err := c.ParamsInt("id")
	if err != nil {
		return response.Error(c, 400, "invalid club id")
	}
	requestUserID, err := c.ParamsInt("user_id")
	if err != nil {
		return response.Error(c, 400, "invalid user id")
	}

	club, err := h.svc.AcceptRequest(clubID, adminID, requestUserID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, 200, "Request accepted successfully", club)
}

// DELETE /clubs/:id/leave?user_id=
func (h *ClubsHandler) Leave(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(int)
	clubID, err := c.ParamsInt("id")
	if err != nil {
		return response.Error(c, 400, "invalid club id")
	}
	targetUserID := c.QueryInt("user_id", 0)

	if err := h.svc.Leave(clubID, userID, targetUserID); err != nil {
		return fail(c, err)
	}

	msg := "Successfully left the club"
	if targetUserID != 0 && targetUserID != userID {
		msg = "User removed from club successfully"
	}
	return response.Success(c, 200, msg, fiber.Map{"membership_status": "left"})
}
