package domain

import (
	"fmt"
	"time"
)

// Timing is one opening window of a temple. Values are free-form strings.
type Timing struct {
	MorningOpening string `json:"morningOpening" bson:"morning_opening"`
	MorningClosing string `json:"morningClosing" bson:"morning_closing"`
	EveningOpening string `json:"eveningOpening" bson:"evening_opening"`
	EveningClosing string `json:"eveningClosing" bson:"evening_closing"`
}

// Validate checks that all four fields are present.
func (t Timing) Validate() error {
	switch {
	case t.MorningOpening == "":
		return fmt.Errorf("%w: morningOpening is required", ErrValidation)
	case t.MorningClosing == "":
		return fmt.Errorf("%w: morningClosing is required", ErrValidation)
	case t.EveningOpening == "":
		return fmt.Errorf("%w: eveningOpening is required", ErrValidation)
	case t.EveningClosing == "":
		return fmt.Errorf("%w: eveningClosing is required", ErrValidation)
	}
	return nil
}

// Temple is the listed resource. Order of Timings and Images is display order.
type Temple struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Timings     []Timing  `json:"timings"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate enforces the well-formed record rules: required text fields and at
// least one timing and one image.
func (t *Temple) Validate() error {
	if err := t.ValidateDetails(); err != nil {
		return err
	}
	if len(t.Images) == 0 {
		return fmt.Errorf("%w: at least one image is required", ErrValidation)
	}
	return nil
}

// ValidateDetails checks everything except images, which are only known once
// the uploads have been stored.
func (t *Temple) ValidateDetails() error {
	switch {
	case t.Name == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case t.Description == "":
		return fmt.Errorf("%w: description is required", ErrValidation)
	case t.Location == "":
		return fmt.Errorf("%w: location is required", ErrValidation)
	case len(t.Timings) == 0:
		return fmt.Errorf("%w: at least one timing is required", ErrValidation)
	}
	for i, tm := range t.Timings {
		if err := tm.Validate(); err != nil {
			return fmt.Errorf("timings[%d]: %w", i, err)
		}
	}
	return nil
}

// LocationCount is one row of the temples-per-location breakdown.
type LocationCount struct {
	Location string `json:"location"`
	Count    int64  `json:"count"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalTemples      int64           `json:"totalTemples"`
	TotalUsers        int64           `json:"totalUsers"`
	AdminUsers        int64           `json:"adminUsers"`
	TemplesByLocation []LocationCount `json:"templesByLocation"`
}
