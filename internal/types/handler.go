package types

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/alexbart/Church-management/internal/audit"
	"github.com/alexbart/Church-management/internal/auth"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) List(c *fiber.Ctx) error {
	f := ListFilter{Category: strings.TrimSpace(c.Query("category"))}
	if v := strings.TrimSpace(c.Query("isActive")); v != "" {
		active := v == "true"
		f.IsActive = &active
	}
	f.Page, f.Limit = parsePageLimit(c)

	items, total, err := h.Repo.List(c.UserContext(), f)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch transaction types")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    items,
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
		return fiber.NewError(fiber.StatusNotFound, "transaction type not found")
	}

	t, err := h.Repo.GetByID(c.UserContext(), id)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "transaction type not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch transaction type")
	}
	return c.JSON(fiber.Map{"success": true, "data": t})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	actorID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req CreateTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if !ValidCategory(req.Category) {
		return fiber.NewError(fiber.StatusBadRequest, "category must be revenue or expense")
	}

	ctx := c.UserContext()

	exists, err := h.Repo.NameExists(ctx, req.Name, req.Category, "")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to check existing types")
	}
	if exists {
		return fiber.NewError(fiber.StatusConflict, "transaction type with this name and category already exists")
	}

	t, err := h.Repo.Create(ctx, req.Name, req.Category, req.Description, actorID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create transaction type")
	}

	audit.Write(ctx, h.Repo.DB, audit.Entry{
		Action:      audit.ActionCreate,
		Resource:    "TransactionType",
		ResourceID:  t.ID,
		Changes:     req,
		PerformedBy: actorID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "transaction type created successfully",
		"data":    t,
	})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	actorID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id, ok := parseIDParam(c)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "transaction type not found")
	}

	var req UpdateTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if req.Category != nil && !ValidCategory(*req.Category) {
		return fiber.NewError(fiber.StatusBadRequest, "category must be revenue or expense")
	}

	ctx := c.UserContext()
	t, err := h.Repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "transaction type not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch transaction type")
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		t.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}

	exists, err := h.Repo.NameExists(ctx, t.Name, t.Category, t.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to check existing types")
	}
	if exists {
		return fiber.NewError(fiber.StatusConflict, "another transaction type with this name and category already exists")
	}

	updated, err := h.Repo.Update(ctx, t)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not update transaction type")
	}

	audit.Write(ctx, h.Repo.DB, audit.Entry{
		Action:      audit.ActionUpdate,
		Resource:    "TransactionType",
		ResourceID:  updated.ID,
		Changes:     req,
		PerformedBy: actorID,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "transaction type updated successfully",
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
		return fiber.NewError(fiber.StatusNotFound, "transaction type not found")
	}

	ctx := c.UserContext()
	if _, err := h.Repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "transaction type not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch transaction type")
	}

	refs, err := h.Repo.ReferenceCount(ctx, id)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to count references")
	}
	if refs > 0 {
		return fiber.NewError(fiber.StatusConflict, "cannot delete transaction type that is being used by revenues or expenses")
	}

	if err := h.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "transaction type not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "could not delete transaction type")
	}

	audit.Write(ctx, h.Repo.DB, audit.Entry{
		Action:      audit.ActionDelete,
		Resource:    "TransactionType",
		ResourceID:  id,
		PerformedBy: actorID,
	})

	return c.JSON(fiber.Map{"success": true, "message": "transaction type deleted successfully"})
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
