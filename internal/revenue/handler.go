package revenue

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/alexbart/Church-management/internal/audit"
	"github.com/alexbart/Church-management/internal/auth"
	"github.com/alexbart/Church-management/internal/money"
	"github.com/alexbart/Church-management/internal/sequence"
	"github.com/alexbart/Church-management/internal/types"
)

type Handler struct {
	Repo      *Repository
	Types     *types.Repository
	Allocator *sequence.Allocator
}

func NewHandler(repo *Repository, typeRepo *types.Repository, alloc *sequence.Allocator) *Handler {
	return &Handler{Repo: repo, Types: typeRepo, Allocator: alloc}
}

func (h *Handler) List(c *fiber.Ctx) error {
	var f ListFilter
	if v := strings.TrimSpace(c.Query("startDate")); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "startDate must be YYYY-MM-DD")
		}
		f.StartDate = &d
	}
	if v := strings.TrimSpace(c.Query("endDate")); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "endDate must be YYYY-MM-DD")
		}
		f.EndDate = &d
	}
	f.TypeID = strings.TrimSpace(c.Query("type"))
	if f.TypeID != "" {
		if _, err := uuid.Parse(f.TypeID); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "type must be a valid id")
		}
	}
	f.Page, f.Limit = parsePageLimit(c)

	revenues, total, totalCents, err := h.Repo.List(c.UserContext(), f)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch revenues")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    revenues,
		"summary": fiber.Map{
			"totalAmount": money.FromCents(totalCents),
			"totalCount":  total,
		},
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
		return fiber.NewError(fiber.StatusNotFound, "revenue not found")
	}

	rev, err := h.Repo.GetByID(c.UserContext(), id)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "revenue not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch revenue")
	}
	return c.JSON(fiber.Map{"success": true, "data": rev})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	actorID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req CreateRevenueRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	req.Type = strings.TrimSpace(req.Type)
	if req.Type == "" {
		return fiber.NewError(fiber.StatusBadRequest, "type is required")
	}
	if _, err := uuid.Parse(req.Type); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid transaction type for revenue")
	}

	cents, err := money.ToCents(req.Amount)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "amount must be a non-negative number")
	}

	date := time.Now()
	if strings.TrimSpace(req.Date) != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
	}

	if req.Member != nil && strings.TrimSpace(*req.Member) != "" {
		if _, err := uuid.Parse(strings.TrimSpace(*req.Member)); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "member must be a valid id")
		}
	}

	ctx := c.UserContext()

	if _, err := h.Types.ValidateForCategory(ctx, req.Type, types.CategoryRevenue); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid transaction type for revenue")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to validate transaction type")
	}

	seqID := h.Allocator.Next(ctx, sequence.PrefixRevenue)
	id, err := h.Repo.Create(ctx, seqID, req.Type, cents, req.Description, date, req.Member, actorID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create revenue")
	}

	created, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch created revenue")
	}

	audit.Write(ctx, h.Repo.DB, audit.Entry{
		Action:      audit.ActionCreate,
		Resource:    "Revenue",
		ResourceID:  id,
		Changes:     req,
		PerformedBy: actorID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "revenue created successfully",
		"data":    created,
	})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	actorID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id, ok := parseIDParam(c)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "revenue not found")
	}

	var req UpdateRevenueRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	ctx := c.UserContext()
	rev, err := h.Repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "revenue not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch revenue")
	}

	typeID := rev.TypeID
	if req.Type != nil {
		typeID = strings.TrimSpace(*req.Type)
		if _, err := uuid.Parse(typeID); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid transaction type for revenue")
		}
		if _, err := h.Types.ValidateForCategory(ctx, typeID, types.CategoryRevenue); err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return fiber.NewError(fiber.StatusBadRequest, "invalid transaction type for revenue")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to validate transaction type")
		}
	}

	cents, err := money.ToCents(rev.Amount)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "stored amount invalid")
	}
	if req.Amount != nil {
		cents, err = money.ToCents(*req.Amount)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "amount must be a non-negative number")
		}
	}

	description := rev.Description
	if req.Description != nil {
		description = req.Description
	}

	date := rev.Date
	if req.Date != nil {
		date, err = time.Parse("2006-01-02", strings.TrimSpace(*req.Date))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
	}

	memberID := rev.MemberID
	if req.Member != nil {
		if strings.TrimSpace(*req.Member) == "" {
			memberID = nil
		} else {
			if _, err := uuid.Parse(strings.TrimSpace(*req.Member)); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "member must be a valid id")
			}
			memberID = req.Member
		}
	}

	if err := h.Repo.Update(ctx, id, typeID, cents, description, date, memberID); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not update revenue")
	}

	updated, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch updated revenue")
	}

	audit.Write(ctx, h.Repo.DB, audit.Entry{
		Action:      audit.ActionUpdate,
		Resource:    "Revenue",
		ResourceID:  id,
		Changes:     req,
		PerformedBy: actorID,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "revenue updated successfully",
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
		return fiber.NewError(fiber.StatusNotFound, "revenue not found")
	}

	ctx := c.UserContext()
	if err := h.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "revenue not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "could not delete revenue")
	}

	audit.Write(ctx, h.Repo.DB, audit.Entry{
		Action:      audit.ActionDelete,
		Resource:    "Revenue",
		ResourceID:  id,
		PerformedBy: actorID,
	})

	return c.JSON(fiber.Map{"success": true, "message": "revenue deleted successfully"})
}

// parseIDParam rejects path ids that are not UUIDs before they reach a
// ::uuid cast in SQL.
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
