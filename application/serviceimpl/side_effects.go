package serviceimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gofiber-todo/domain/ports"
	"gofiber-todo/pkg/logger"
)

const categoryViewTTL = 10 * time.Minute

// CategoryViewCacheKey key ของหน้า categories (มี tasksCount) ต่อ user
func CategoryViewCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("categories:view:%s", userID.String())
}

// publishEvent ส่ง event แบบ best effort ไม่ทำให้ request fail
func publishEvent(ctx context.Context, publisher ports.EventPublisherPort, eventType string, userID uuid.UUID, entityID uint, message string, data map[string]any) {
	if publisher == nil {
		return
	}

	event := &ports.DomainEvent{
		Type:       eventType,
		UserID:     userID.String(),
		EntityID:   entityID,
		Message:    message,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish domain event", "type", eventType, "user_id", userID, "error", err)
	}
}

// invalidateCategoryView tasksCount เปลี่ยนทุกครั้งที่ task หรือ category เปลี่ยน
func invalidateCategoryView(ctx context.Context, cache ports.CachePort, userID uuid.UUID) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, CategoryViewCacheKey(userID)); err != nil {
		logger.WarnContext(ctx, "Failed to invalidate category view cache", "user_id", userID, "error", err)
	}
}
