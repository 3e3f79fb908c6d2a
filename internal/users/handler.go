package users

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/alexbart/Church-management/internal/audit"
	"github.com/alexbart/Church-management/internal/auth"
	"github.com/alexbart/Church-management/internal/sequence"
)

type Handler struct {
	Repo      *Repository
	Allocator *sequence.Allocator
}

func NewHandler(repo *Repository, alloc *sequence.Allocator) *Handler {
	return &Handler{Repo: repo, Allocator: alloc}
}

func (h *Handler) List(c *fiber.Ctx) error {
	f := ListFilter{Role: strings.TrimSpace(c.Query("role"))}
	if v := strings.TrimSpace(c.Query("isActive")); v != "" {
		active := v == "true"
		f.IsActive = &active
	}
	f.Page, f.Limit = parsePageLimit(c)

	users, total, err := h.Repo.List(c.UserContext(), f)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch users")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"pagination": fiber.Map{
			"page":  f.Page,
			"limit": f.Limit,
			"total": total,
			"pages": (total + int64(f.Limit) - 1) / int64(f.Limit),
		},
	})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}

	user, err := h.Repo.GetByID(c.UserContext(), id)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch user")
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	actorID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "firstName, lastName, email and password are required")
	}
	if len(req.Password) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 6 characters")
	}
	if req.Role == "" {
		req.Role = auth.RoleMember
	}
	if !validRole(req.Role) {
		return fiber.NewError(fiber.StatusBadRequest, "role must be admin, pastor or member")
	}

	ctx := c.UserContext()

	exists, err := h.Repo.EmailExists(ctx, req.Email)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to check email")
	}
	if exists {
		return fiber.NewError(fiber.StatusConflict, "user with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	seqID := h.Allocator.Next(ctx, sequence.PrefixUser)
	user, err := h.Repo.Create(ctx, seqID, req.FirstName, req.LastName, req.Email, string(hashed), req.Role, &actorID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create user")
	}

	audit.Write(ctx, h.Repo.DB, audit.Entry{
		Action:      audit.ActionCreate,
		Resource:    "User",
		ResourceID:  user.ID,
		Changes:     fiber.Map{"email": user.Email, "role": user.Role},
		PerformedBy: actorID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "user created successfully",
		"data":    user,
	})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	actorID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id, ok := parseIDParam(c)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	// Role and status changes on your own account are not allowed.
	if id == actorID && (req.Role != nil || req.IsActive != nil) {
		return fiber.NewError(fiber.StatusForbidden, "you cannot change your own role or status")
	}
	if req.Role != nil && !validRole(*req.Role) {
		return fiber.NewError(fiber.StatusBadRequest, "role must be admin, pastor or member")
	}

	ctx := c.UserContext()
	user, err := h.Repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch user")
	}

	if req.FirstName != nil && strings.TrimSpace(*req.FirstName) != "" {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil && strings.TrimSpace(*req.LastName) != "" {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	updated, err := h.Repo.Update(ctx, user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not update user")
	}

	audit.Write(ctx, h.Repo.DB, audit.Entry{
		Action:      audit.ActionUpdate,
		Resource:    "User",
		ResourceID:  updated.ID,
		Changes:     req,
		PerformedBy: actorID,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "user updated successfully",
		"data":    updated,
	})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	actorID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id, ok := parseIDParam(c)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	if id == actorID {
		return fiber.NewError(fiber.StatusForbidden, "you cannot delete your own account")
	}

	ctx := c.UserContext()
	if err := h.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "could not delete user")
	}

	audit.Write(ctx, h.Repo.DB, audit.Entry{
		Action:      audit.ActionDelete,
		Resource:    "User",
		ResourceID:  id,
		PerformedBy: actorID,
	})

	return c.JSON(fiber.Map{"success": true, "message": "user deleted successfully"})
}

func validRole(role string) bool {
	return role == auth.RoleAdmin || role == auth.RolePastor || role == auth.RoleMember
}

func parseIDParam(c *fiber.Ctx) (string, bool) {
	id := strings.TrimSpace(c.Params("id"))
	_, err := uuid.Parse(id)
	return id, err == nil
}

func parsePageLimit(c *fiber.Ctx) (int, int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}
