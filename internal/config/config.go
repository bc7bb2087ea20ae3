// Package config provides environment configuration helpers for go-sortarm commands.
package config

import (
	"os"
	"strconv"
)

// Defaults for the command-line entrypoints.
const (
	DefaultDashboardPort = "8090"
	DefaultCameraID      = 0
	DefaultDatasetPath   = "data/colors.csv"
	DefaultLogLevel      = "info"
)

// DashboardPort returns the dashboard listen port from DASHBOARD_PORT.
func DashboardPort() string {
	if port := os.Getenv("DASHBOARD_PORT"); port != "" {
		return port
	}
	return DefaultDashboardPort
}

// CameraID returns the capture device index from CAMERA_ID.
// Falls back to the default device if unset or unparsable.
func CameraID() int {
	if raw := os.Getenv("CAMERA_ID"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil && id >= 0 {
			return id
		}
	}
	return DefaultCameraID
}

// DatasetPath returns the color dataset CSV path from DATASET_PATH.
func DatasetPath() string {
	if path := os.Getenv("DATASET_PATH"); path != "" {
		return path
	}
	return DefaultDatasetPath
}

// LogLevel returns the log level from LOG_LEVEL.
func LogLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return DefaultLogLevel
}
