/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	config := &Config{
		Level:  "debug",
		Debug:  true,
		Output: "stdout",
	}

	err := Init(config)
	require.NoError(t, err)

	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel())
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	err := Init(&Config{Level: "chatty"})
	require.Error(t, err)
}

func TestSetDebug(t *testing.T) {
	SetDebug(true)
	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel())

	SetDebug(false)
	assert.Equal(t, zerolog.InfoLevel, GetLogger().GetLevel())
}

func TestWithComponent(t *testing.T) {
	componentLogger := WithComponent("test-component")

	assert.NotEqual(t, zerolog.Disabled, componentLogger.GetLevel())
}

func TestWithFieldsCarriesMetadata(t *testing.T) {
	var buf bytes.Buffer

	log := New(zerolog.New(&buf))
	zl := log.WithFields(map[string]interface{}{"endpoint": "udp-1", "attempt": 2})
	zl.Info().Msg("probe")

	assert.Contains(t, buf.String(), `"endpoint":"udp-1"`)
	assert.Contains(t, buf.String(), `"attempt":2`)
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_OUTPUT", "stderr")

	config := DefaultConfig()

	assert.Equal(t, "info", config.Level)
	assert.Equal(t, "stderr", config.Output)
}

func TestTestLoggerDiscards(t *testing.T) {
	log := NewTestLogger()
	log.Error().Str("k", "v").Msg("dropped")
	log.SetDebug(true)
}
