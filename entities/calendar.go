package entities

import "time"

type TaskCategory string

const (
	CategoryPlanting    TaskCategory = "planting"
	CategoryIrrigation  TaskCategory = "irrigation"
	CategoryFertilizing TaskCategory = "fertilizing"
	CategoryWeeding     TaskCategory = "weeding"
	CategoryPestCheck   TaskCategory = "pest-check"
	CategoryHarvesting  TaskCategory = "harvesting"
	CategoryOther       TaskCategory = "other"
)

type Task struct {
	DayOffset   int          `json:"day_offset"`
	Description string       `json:"description"`
	Category    TaskCategory `json:"category"`
	IconRef     string       `json:"icon_ref"`
	Done        bool         `json:"done"`
}

// CalendarInstance is one crop plan. An empty OwnerID marks a guest instance.
type CalendarInstance struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID   string    `gorm:"index" json:"owner_id,omitempty"`
	CropID    string    `json:"crop_id"`
	CropName  string    `json:"crop_name"`
	LandSize  float64   `json:"land_size"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	Tasks     []Task    `gorm:"serializer:json" json:"tasks"`
}

func (CalendarInstance) TableName() string { return "calendars" }

func (c *CalendarInstance) IsGuest() bool { return c.OwnerID == "" }

// Clone returns a copy that shares no task storage with c.
func (c *CalendarInstance) Clone() *CalendarInstance {
	out := *c
	out.Tasks = CloneTasks(c.Tasks)
	return &out
}

func CloneTasks(ts []Task) []Task {
	if ts == nil {
		return nil
	}
	out := make([]Task, len(ts))
	copy(out, ts)
	return out
}
