package models

import "time"

// SettingMaintenanceMode switches buyer routes off while "true"
const SettingMaintenanceMode = "maintenance_mode"

type SiteSetting struct {
	Key         string    `json:"key" db:"key"`
	Value       string    `json:"value" db:"value"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type MaintenanceStatusResponse struct {
	MaintenanceMode bool `json:"maintenance_mode"`
}

type MaintenanceModeRequest struct {
	MaintenanceMode *bool `json:"maintenance_mode" binding:"required"`
}

type SiteSettingsResponse struct {
	Settings []SiteSetting `json:"settings"`
}
