// Copyright 2023 Hedgehog
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.githedgehog.com/catalystwan/pkg/manager"
	"sigs.k8s.io/yaml"
)

const (
	DefaultTimeoutSeconds = 60
	DefaultMaxConcurrency = 4
	MaxConcurrencyLimit   = 32
)

// Manager describes the connection to the SD-WAN Manager and the migration settings
type Manager struct {
	URL                string `json:"url,omitempty"`
	Username           string `json:"username,omitempty"`
	Password           string `json:"password,omitempty"`
	PasswordEnv        string `json:"passwordEnv,omitempty"`
	InsecureSkipVerify bool   `json:"insecureSkipVerify,omitempty"`
	TimeoutSeconds     int    `json:"timeoutSeconds,omitempty"`
	MaxConcurrency     int    `json:"maxConcurrency,omitempty"`
	ProfilePrefix      string `json:"profilePrefix,omitempty"`
}

// Load reads the config file, empty path means no file and only defaults are applied
func Load(path string) (*Manager, error) {
	cfg := &Manager{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "error reading config %s", path)
		}

		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "error unmarshalling config %s", path)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}

	redacted := *cfg
	if redacted.Password != "" {
		redacted.Password = "<redacted>"
	}
	slog.Debug("Loaded config", "data", spew.Sdump(redacted))

	return cfg, nil
}

// Finalize applies defaults and resolves the password from the environment, it should be called again if fields
// are overridden after Load
func (cfg *Manager) Finalize() error {
	if cfg.Password == "" && cfg.PasswordEnv != "" {
		cfg.Password = os.Getenv(cfg.PasswordEnv)
	}
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = DefaultMaxConcurrency
	}

	if cfg.TimeoutSeconds < 0 {
		return errors.Errorf("config: timeoutSeconds should be positive")
	}
	if cfg.MaxConcurrency < 0 || cfg.MaxConcurrency > MaxConcurrencyLimit {
		return errors.Errorf("config: maxConcurrency should be between 1 and %d", MaxConcurrencyLimit)
	}
	if cfg.URL != "" {
		u, err := url.Parse(cfg.URL)
		if err != nil {
			return errors.Wrapf(err, "config: url is invalid")
		}
		if u.Scheme != "https" && u.Scheme != "http" {
			return errors.Errorf("config: url should be http or https")
		}
	}

	return nil
}

// Validate checks that everything needed for connecting to the Manager is set
func (cfg *Manager) Validate() error {
	if cfg.URL == "" {
		return errors.Errorf("config: url is required")
	}
	if cfg.Username == "" {
		return errors.Errorf("config: username is required")
	}
	if cfg.Password == "" {
		if cfg.PasswordEnv != "" {
			return errors.Errorf("config: password is required (env %s is empty)", cfg.PasswordEnv)
		}

		return errors.Errorf("config: password is required")
	}

	return nil
}

func (cfg *Manager) SessionOptions(reg prometheus.Registerer) manager.Options {
	return manager.Options{
		URL:                cfg.URL,
		Username:           cfg.Username,
		Password:           cfg.Password,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		Timeout:            time.Duration(cfg.TimeoutSeconds) * time.Second,
		Registerer:         reg,
	}
}
