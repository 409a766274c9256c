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

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.githedgehog.com/catalystwan/pkg/manager/config"
)

func TestLoad(t *testing.T) {
	for _, tt := range []struct {
		name     string
		data     string
		env      map[string]string
		expected *config.Manager
		err      bool
	}{
		{
			name: "defaults",
			data: "url: https://manager:8443\nusername: admin\npassword: secret\n",
			expected: &config.Manager{
				URL:            "https://manager:8443",
				Username:       "admin",
				Password:       "secret",
				TimeoutSeconds: config.DefaultTimeoutSeconds,
				MaxConcurrency: config.DefaultMaxConcurrency,
			},
		},
		{
			name: "password-env",
			data: "url: https://manager\nusername: admin\npasswordEnv: TEST_MANAGER_PASSWORD\nmaxConcurrency: 8\nprofilePrefix: mig-\n",
			env:  map[string]string{"TEST_MANAGER_PASSWORD": "from-env"},
			expected: &config.Manager{
				URL:            "https://manager",
				Username:       "admin",
				Password:       "from-env",
				PasswordEnv:    "TEST_MANAGER_PASSWORD",
				TimeoutSeconds: config.DefaultTimeoutSeconds,
				MaxConcurrency: 8,
				ProfilePrefix:  "mig-",
			},
		},
		{
			name: "unknown-field",
			data: "url: https://manager\nuser: admin\n",
			err:  true,
		},
		{
			name: "bad-scheme",
			data: "url: ftp://manager\n",
			err:  true,
		},
		{
			name: "too-concurrent",
			data: "maxConcurrency: 100\n",
			err:  true,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o600))

			cfg, err := config.Load(path)
			if tt.err {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.expected, cfg)
			require.NoError(t, cfg.Validate())
		})
	}
}

func TestLoadNoFile(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Error(t, cfg.Validate())

	cfg.URL = "https://manager"
	cfg.Username = "admin"
	cfg.PasswordEnv = "TEST_MANAGER_PASSWORD_EMPTY"
	require.ErrorContains(t, cfg.Validate(), "TEST_MANAGER_PASSWORD_EMPTY")

	cfg.Password = "secret"
	require.NoError(t, cfg.Validate())

	opts := cfg.SessionOptions(nil)
	require.Equal(t, 60*time.Second, opts.Timeout)
	require.Equal(t, "admin", opts.Username)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
