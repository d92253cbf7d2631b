package commands

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/datakit-io/cdcexcludes/internal/warehouse"
)

// EnvError lists the required warehouse environment variables that are unset.
type EnvError struct {
	Missing []string
}

// Error implements the error interface.
func (e *EnvError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Missing, ", ")
}

// warehouseConfigFromEnv reads the Databricks connection parameters from the
// environment via viper. All three variables are required; there are no
// defaults.
func warehouseConfigFromEnv() (warehouse.Config, error) {
	for _, name := range []string{warehouse.EnvHostname, warehouse.EnvHTTPPath, warehouse.EnvToken} {
		if err := viper.BindEnv(name); err != nil {
			return warehouse.Config{}, err
		}
	}

	cfg := warehouse.Config{
		Hostname:    viper.GetString(warehouse.EnvHostname),
		HTTPPath:    viper.GetString(warehouse.EnvHTTPPath),
		AccessToken: viper.GetString(warehouse.EnvToken),
	}

	var missing []string
	if cfg.Hostname == "" {
		missing = append(missing, warehouse.EnvHostname)
	}
	if cfg.HTTPPath == "" {
		missing = append(missing, warehouse.EnvHTTPPath)
	}
	if cfg.AccessToken == "" {
		missing = append(missing, warehouse.EnvToken)
	}
	if len(missing) > 0 {
		return warehouse.Config{}, &EnvError{Missing: missing}
	}

	return cfg, nil
}
