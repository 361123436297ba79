// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/springfield/internal/platform/logging"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buffer bytes.Buffer
	logger := logging.New(logging.Options{Writer: &buffer})

	logger.Info("character_created", "character_id", "c1")
	logger.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	assert.Equal(t, "character_created", entry["msg"])
	assert.Equal(t, "springfield-api", entry["app"])
	assert.Equal(t, "c1", entry["character_id"])
}

func TestNew_DevelopmentIsHumanReadable(t *testing.T) {
	var buffer bytes.Buffer
	logger := logging.New(logging.Options{Development: true, Debug: true, Writer: &buffer})

	logger.Debug("episode_viewed", "episode_id", "e1")

	assert.Contains(t, buffer.String(), "episode_viewed")
	assert.Contains(t, buffer.String(), "episode_id")
}
