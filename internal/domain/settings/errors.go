package settings

import "errors"

var (
	ErrSettingsNotFound    = errors.New("settings not found")
	ErrInvalidWorkingHours = errors.New("default working hours must be between 1 and 24")
	ErrInvalidTaxSlabs     = errors.New("tax slabs must be contiguous and ordered")
)
