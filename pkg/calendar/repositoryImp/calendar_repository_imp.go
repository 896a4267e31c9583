package repositoryImp

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cropcal/entities"
	"cropcal/pkg/apperr"
	"cropcal/pkg/calendar/repository"
)

type calendarRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.CalendarRepository { return &calendarRepo{db} }

func (r *calendarRepo) CreateCalendar(ctx context.Context, c *entities.CalendarInstance) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *calendarRepo) ListCalendars(ctx context.Context, ownerID string) ([]entities.CalendarInstance, error) {
	var out []entities.CalendarInstance
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *calendarRepo) GetCalendar(ctx context.Context, calendarID string) (*entities.CalendarInstance, error) {
	var c entities.CalendarInstance
	err := r.db.WithContext(ctx).Where("id = ?", calendarID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("calendar", calendarID)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ReplaceTasks writes the full array in one UPDATE so a reader never sees a partial list.
func (r *calendarRepo) ReplaceTasks(ctx context.Context, calendarID string, tasks []entities.Task) error {
	res := r.db.WithContext(ctx).Model(&entities.CalendarInstance{ID: calendarID}).
		Select("Tasks").
		Updates(&entities.CalendarInstance{Tasks: tasks})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("calendar", calendarID)
	}
	return nil
}

func (r *calendarRepo) DeleteCalendar(ctx context.Context, calendarID string) error {
	res := r.db.WithContext(ctx).Where("id = ?", calendarID).Delete(&entities.CalendarInstance{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("calendar", calendarID)
	}
	return nil
}
