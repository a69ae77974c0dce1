package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"giftyy-backend/internal/models"
)

type SettingsQueries struct {
	db *sql.DB
}

func NewSettingsQueries(db *sql.DB) *SettingsQueries {
	return &SettingsQueries{db: db}
}

func (q *SettingsQueries) GetAllSettings(ctx context.Context) ([]models.SiteSetting, error) {
	query := `
		SELECT key, value, description, created_at, updated_at
		FROM site_settings
		ORDER BY key
	`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	defer rows.Close()

	var settings []models.SiteSetting
	for rows.Next() {
		var setting models.SiteSetting
		if err := rows.Scan(&setting.Key, &setting.Value, &setting.Description,
			&setting.CreatedAt, &setting.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, setting)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settings: %w", err)
	}

	return settings, nil
}

func (q *SettingsQueries) GetSettingByKey(ctx context.Context, key string) (*models.SiteSetting, error) {
	query := `
		SELECT key, value, description, created_at, updated_at
		FROM site_settings
		WHERE key = $1
	`
	setting := &models.SiteSetting{}
	err := q.db.QueryRowContext(ctx, query, key).Scan(
		&setting.Key,
		&setting.Value,
		&setting.Description,
		&setting.CreatedAt,
		&setting.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return setting, nil
}

func (q *SettingsQueries) UpdateSetting(ctx context.Context, key, value string) error {
	query := `
		UPDATE site_settings
		SET value = $1
		WHERE key = $2
	`
	result, err := q.db.ExecContext(ctx, query, value, key)
	if err != nil {
		return fmt.Errorf("failed to update setting %s: %w", key, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetMaintenanceMode reports whether buyer routes are switched off. A missing
// setting means they are not.
func (q *SettingsQueries) GetMaintenanceMode(ctx context.Context) (bool, error) {
	setting, err := q.GetSettingByKey(ctx, models.SettingMaintenanceMode)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return setting.Value == "true", nil
}

func (q *SettingsQueries) SetMaintenanceMode(ctx context.Context, enabled bool) error {
	return q.UpdateSetting(ctx, models.SettingMaintenanceMode, strconv.FormatBool(enabled))
}
