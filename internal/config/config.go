// Package config reads process configuration from OMS_-prefixed
// environment variables.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Dashboard configures the oms-dashboard binary.
type Dashboard struct {
	// BackendURL is the base URL of the order backend.
	BackendURL string `envconfig:"BACKEND_URL" default:"http://localhost:8080"`

	// ActionLogPath is the SQLite file for the audit log. Empty disables
	// auditing.
	ActionLogPath string `envconfig:"ACTION_LOG_PATH" default:"./data/actions.db"`

	// HTTPTimeout bounds every backend call.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
}

// ShopServer configures the shop-server binary.
type ShopServer struct {
	// Addr is the HTTP listen address.
	Addr string `envconfig:"ADDR" default:":8080"`

	// RedisAddr enables the single-order response cache. Empty disables it.
	RedisAddr string `envconfig:"REDIS_ADDR" default:""`

	// Seed loads the sample orders on startup.
	Seed bool `envconfig:"SEED" default:"true"`
}

// LoadDashboard reads the dashboard settings from the environment.
func LoadDashboard() (Dashboard, error) {
	var c Dashboard
	err := envconfig.Process("OMS", &c)
	return c, err
}

// LoadShopServer reads the shop server settings from the environment.
func LoadShopServer() (ShopServer, error) {
	var c ShopServer
	err := envconfig.Process("OMS", &c)
	return c, err
}
