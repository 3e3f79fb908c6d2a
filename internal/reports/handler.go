package reports

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/alexbart/Church-management/internal/audit"
	"github.com/alexbart/Church-management/internal/auth"
	"github.com/alexbart/Church-management/internal/database"
	"github.com/alexbart/Church-management/internal/types"
)

type Handler struct {
	Store    *Store
	Importer *Importer
	DB       database.Querier
}

func NewHandler(store *Store, importer *Importer, db database.Querier) *Handler {
	return &Handler{Store: store, Importer: importer, DB: db}
}

func (h *Handler) parseFilter(c *fiber.Ctx) (Filter, error) {
	start, end, err := ParseRange(strings.TrimSpace(c.Query("startDate")), strings.TrimSpace(c.Query("endDate")))
	if err != nil {
		return Filter{}, fiber.NewError(fiber.StatusBadRequest, "dates must be YYYY-MM-DD")
	}
	category := strings.TrimSpace(c.Query("category"))
	if category != "" && !types.ValidCategory(category) {
		return Filter{}, fiber.NewError(fiber.StatusBadRequest, "category must be revenue or expense")
	}
	typeID := strings.TrimSpace(c.Query("type"))
	if typeID != "" {
		if _, err := uuid.Parse(typeID); err != nil {
			return Filter{}, fiber.NewError(fiber.StatusBadRequest, "type must be a valid id")
		}
	}
	return Filter{Start: start, End: end, TypeID: typeID, Category: category}, nil
}

func (h *Handler) fetchReport(c *fiber.Ctx) (Report, error) {
	f, err := h.parseFilter(c)
	if err != nil {
		return Report{}, err
	}
	r, err := h.Store.Fetch(c.UserContext(), f)
	if err != nil {
		return Report{}, fiber.NewError(fiber.StatusInternalServerError, "failed to build report")
	}
	return r, nil
}

func (h *Handler) Summary(c *fiber.Ctx) error {
	r, err := h.fetchReport(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": r.Summary.toJSON()})
}

func (h *Handler) ExportExcel(c *fiber.Ctx) error {
	r, err := h.fetchReport(c)
	if err != nil {
		return err
	}
	out, err := RenderExcel(r)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render workbook")
	}

	filename := "financial-report-" + time.Now().Format("20060102") + ".xlsx"
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(out)
}

func (h *Handler) ExportPDF(c *fiber.Ctx) error {
	r, err := h.fetchReport(c)
	if err != nil {
		return err
	}
	out, err := RenderPDF(r)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render pdf")
	}

	filename := "financial-report-" + time.Now().Format("20060102") + ".pdf"
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(out)
}

func (h *Handler) ImportRevenues(c *fiber.Ctx) error {
	return h.runImport(c, "revenues", h.Importer.ImportRevenues)
}

func (h *Handler) ImportExpenses(c *fiber.Ctx) error {
	return h.runImport(c, "expenses", h.Importer.ImportExpenses)
}

func (h *Handler) runImport(c *fiber.Ctx, resource string, importFn func(ctx context.Context, src io.Reader, createdBy string) (ImportResult, error)) error {
	actorID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "unable to read uploaded file")
	}
	defer src.Close()

	result, err := importFn(c.UserContext(), src, actorID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	audit.Write(c.UserContext(), h.DB, audit.Entry{
		Action:      audit.ActionCreate,
		Resource:    "import:" + resource,
		Changes:     result,
		PerformedBy: actorID,
	})

	return c.JSON(fiber.Map{"success": true, "data": result})
}
