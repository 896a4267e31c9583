package entities

// CropDefinition is a catalog entry. Values are copied out of the catalog, never shared by pointer.
type CropDefinition struct {
	ID                 string `json:"id" yaml:"id"`
	DisplayName        string `json:"display_name" yaml:"display_name"`
	Icon               string `json:"icon" yaml:"icon"`
	GrowthDurationDays int    `json:"growth_duration_days" yaml:"growth_duration_days"`
}
