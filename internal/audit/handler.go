package audit

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/alexbart/Church-management/internal/database"
)

type Handler struct {
	DB database.Querier
}

func NewHandler(db database.Querier) *Handler {
	return &Handler{DB: db}
}

type logRow struct {
	ID          string          `json:"id"`
	Action      string          `json:"action"`
	Resource    string          `json:"resource"`
	ResourceID  *string         `json:"resourceId,omitempty"`
	Changes     json.RawMessage `json:"changes,omitempty"`
	PerformedBy string          `json:"performedBy"`
	CreatedAt   string          `json:"createdAt"`
}

// List returns audit entries newest first, paginated via page/limit.
func (h *Handler) List(c *fiber.Ctx) error {
	page, limit := parsePageLimit(c)

	filter := " WHERE 1=1"
	args := []any{}
	if resource := strings.TrimSpace(c.Query("resource")); resource != "" {
		args = append(args, resource)
		filter += " AND resource = $" + strconv.Itoa(len(args))
	}

	ctx := c.UserContext()

	var total int64
	if err := h.DB.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`+filter, args...).Scan(&total); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to count audit logs")
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := h.DB.Query(ctx, `
SELECT id::text, action, resource, resource_id, changes, performed_by::text, created_at::text
FROM audit_logs`+filter+`
ORDER BY created_at DESC
LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)),
		args...)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch audit logs")
	}
	defer rows.Close()

	logs := make([]logRow, 0, limit)
	for rows.Next() {
		var l logRow
		if err := rows.Scan(&l.ID, &l.Action, &l.Resource, &l.ResourceID, &l.Changes, &l.PerformedBy, &l.CreatedAt); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to scan audit logs")
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "audit log rows error")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    logs,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
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
