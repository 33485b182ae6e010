package memory

import (
	"context"

	"github.com/officehr/payroll-backend-go/internal/domain/settings"
)

type settingsRepository struct {
	s *Store
}

func NewSettingsRepository(s *Store) settings.SettingsRepository {
	return &settingsRepository{s: s}
}

func (r *settingsRepository) Get(ctx context.Context) (settings.Settings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.settings == nil {
		return settings.Settings{}, settings.ErrSettingsNotFound
	}
	return *r.s.settings, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, cfg settings.Settings) (settings.Settings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	if r.s.settings == nil {
		cfg.ID = newID()
		cfg.CreatedAt = now
	} else {
		cfg.ID = r.s.settings.ID
		cfg.CreatedAt = r.s.settings.CreatedAt
	}
	cfg.UpdatedAt = now
	r.s.settings = &cfg
	return cfg, nil
}
