package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/officehr/payroll-backend-go/internal/domain/settings"
	"github.com/officehr/payroll-backend-go/internal/pkg/database"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	var s settings.Settings
	err := q.QueryRow(ctx, `
		SELECT id, company, payroll, attendance, notifications, customization, created_at, updated_at
		FROM settings
		WHERE singleton
	`).Scan(&s.ID, &s.Company, &s.Payroll, &s.Attendance, &s.Notifications, &s.Customization, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.Settings{}, settings.ErrSettingsNotFound
		}
		return settings.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, nil
}

// Upsert keeps one row through the singleton unique key.
func (r *settingsRepository) Upsert(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, `
		INSERT INTO settings (singleton, company, payroll, attendance, notifications, customization)
		VALUES (TRUE, $1, $2, $3, $4, $5)
		ON CONFLICT (singleton) DO UPDATE SET
			company = EXCLUDED.company,
			payroll = EXCLUDED.payroll,
			attendance = EXCLUDED.attendance,
			notifications = EXCLUDED.notifications,
			customization = EXCLUDED.customization,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, s.Company, s.Payroll, s.Attendance, s.Notifications, s.Customization).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("failed to upsert settings: %w", err)
	}
	return s, nil
}
