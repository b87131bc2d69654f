package views

import "a11yowl/internal/models"

type PlatformOption struct {
	models.Platform
	Selected bool
}

// PlatformOptions lists every platform with the visitor's stored choice
// marked. An unknown selected id marks nothing.
func PlatformOptions(selected string) []PlatformOption {
	opts := make([]PlatformOption, len(models.Platforms))
	for i, p := range models.Platforms {
		opts[i] = PlatformOption{Platform: p, Selected: p.ID == selected}
	}
	return opts
}

func (o PlatformOption) AriaLabel() string {
	return "Select " + o.Name + ": " + o.Description
}
