package settings

import "context"

type SettingsRepository interface {
	// Get returns the settings document or ErrSettingsNotFound.
	Get(ctx context.Context) (Settings, error)
	// Upsert writes the single settings document.
	Upsert(ctx context.Context, s Settings) (Settings, error)
}
