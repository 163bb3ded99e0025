package audit

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

type AuditLogResponse struct {
	ID          uint           `json:"id"`
	CreatedAt   string         `json:"created_at"`
	EntityType  string         `json:"entity_type"`
	EntityID    uint           `json:"entity_id"`
	Action      string         `json:"action"`
	Actor       string         `json:"actor"`
	Description string         `json:"description"`
	After       datatypes.JSON `json:"after"`
}

// GET /api/audit-logs?entity_type=problem_tag&entity_id=1&limit=100
func ListAuditLogsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entityID := c.QueryInt("entity_id", 0)
		if entityID < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "entity_id must be positive")
		}
		filter := ListFilter{
			EntityType: c.Query("entity_type"),
			EntityID:   uint(entityID),
			Limit:      c.QueryInt("limit", 100),
		}

		logs, err := svc.List(c.UserContext(), filter)
		if err != nil {
			return err
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, AuditLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      string(l.Action),
				Actor:       l.Actor,
				Description: l.Description,
				After:       l.AfterData,
			})
		}
		return c.JSON(resp)
	}
}
