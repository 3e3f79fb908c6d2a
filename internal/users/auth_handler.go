package users

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/alexbart/Church-management/internal/auth"
	"github.com/alexbart/Church-management/internal/sequence"
)

// AuthHandler serves the public register/login endpoints and the
// authenticated profile lookup.
type AuthHandler struct {
	Repo      *Repository
	Allocator *sequence.Allocator
	Secret    []byte
}

func NewAuthHandler(repo *Repository, alloc *sequence.Allocator, secret []byte) *AuthHandler {
	return &AuthHandler{Repo: repo, Allocator: alloc, Secret: secret}
}

// Register creates a member account. Elevated roles are only assignable
// through the admin user endpoints.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
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
	user, err := h.Repo.Create(ctx, seqID, req.FirstName, req.LastName, req.Email, string(hashed), auth.RoleMember, nil)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create user")
	}

	token, err := auth.GenerateToken(h.Secret, user.ID, user.Role)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "registered successfully",
		"data":    fiber.Map{"token": token, "user": user},
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password are required")
	}

	user, hash, err := h.Repo.GetCredentials(c.UserContext(), req.Email)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch user")
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := auth.GenerateToken(h.Secret, user.ID, user.Role)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "logged in successfully",
		"data":    fiber.Map{"token": token, "user": user},
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actorID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.Repo.GetByID(c.UserContext(), actorID)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch user")
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}
