// Package lifecycle derives a crop's age and progress. Nothing here is stored;
// figures are recomputed on every read.
package lifecycle

import (
	"errors"
	"time"
)

var ErrInvalidDuration = errors.New("lifecycle: growth duration must be positive")

const day = 24 * time.Hour

type Figures struct {
	AgeDays         int `json:"age_days"`
	RemainingDays   int `json:"remaining_days"`
	ProgressPercent int `json:"progress_percent"`
}

// Compute returns the figures for a crop planted at createdAt as seen at now.
// Clock skew (now before createdAt) yields age 0.
func Compute(createdAt, now time.Time, growthDurationDays int) (Figures, error) {
	if growthDurationDays <= 0 {
		return Figures{}, ErrInvalidDuration
	}
	age := 0
	if elapsed := now.Sub(createdAt); elapsed > 0 {
		age = int(elapsed / day)
	}
	remaining := growthDurationDays - age
	if remaining < 0 {
		remaining = 0
	}
	progress := age * 100 / growthDurationDays
	if progress > 100 {
		progress = 100
	}
	return Figures{AgeDays: age, RemainingDays: remaining, ProgressPercent: progress}, nil
}
