// Package schedule builds the task list a new calendar starts with.
package schedule

import "cropcal/entities"

type step struct {
	day      int
	category entities.TaskCategory
	desc     string
	icon     string
}

// firstMonth is the generic first-month checklist. It does not scale with the
// crop's growth duration.
var firstMonth = []step{
	{1, entities.CategoryPlanting, "Prepare the land and sow seeds or transplant seedlings", "seedling"},
	{5, entities.CategoryIrrigation, "First irrigation; keep the soil moist", "droplet"},
	{10, entities.CategoryFertilizing, "Apply the first dose of fertilizer", "sack"},
	{15, entities.CategoryWeeding, "Remove weeds around the plants", "hoe"},
	{20, entities.CategoryPestCheck, "Inspect leaves and stems for pests and disease", "bug"},
	{25, entities.CategoryIrrigation, "Second irrigation", "droplet"},
	{30, entities.CategoryFertilizing, "Top-dress with fertilizer", "sack"},
}

// Generate returns a fresh task slice for crop, all tasks open.
func Generate(crop entities.CropDefinition) []entities.Task {
	out := make([]entities.Task, 0, len(firstMonth))
	for _, s := range firstMonth {
		out = append(out, entities.Task{
			DayOffset:   s.day,
			Description: s.desc,
			Category:    s.category,
			IconRef:     s.icon,
		})
	}
	return out
}
