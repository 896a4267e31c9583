package storeImp

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"cropcal/entities"
	"cropcal/pkg/apperr"
	"cropcal/pkg/schedule"
)

// newInstance builds a fully formed calendar; both tiers share it so the
// guest and durable paths cannot drift apart.
func newInstance(ownerID string, crop entities.CropDefinition, landSize float64, now time.Time) (*entities.CalendarInstance, error) {
	if crop.ID == "" || crop.DisplayName == "" {
		return nil, apperr.Validation("crop", "is required")
	}
	if crop.GrowthDurationDays <= 0 {
		return nil, apperr.Validation("crop", "has no growth duration")
	}
	if !(landSize > 0) {
		return nil, apperr.Validation("land_size", "must be greater than zero")
	}
	tasks := schedule.Generate(crop)
	if len(tasks) == 0 {
		return nil, fmt.Errorf("schedule for %s is empty", crop.ID)
	}
	return &entities.CalendarInstance{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		CropID:    crop.ID,
		CropName:  crop.DisplayName,
		LandSize:  landSize,
		CreatedAt: now,
		Tasks:     tasks,
	}, nil
}

func checkTaskIndex(c *entities.CalendarInstance, taskIndex int) error {
	if taskIndex < 0 || taskIndex >= len(c.Tasks) {
		return apperr.Validation("task_index", fmt.Sprintf("out of range [0,%d)", len(c.Tasks)))
	}
	return nil
}
