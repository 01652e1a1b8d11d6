package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("prod writes JSON and drops debug", func(t *testing.T) {
		var buf bytes.Buffer
		log := New("prod", &buf)

		log.Debug("hidden")
		log.Info("visible", Err(errors.New("boom")))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "visible", entry["msg"])
		assert.Equal(t, "boom", entry["error"])
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("staging writes JSON debug", func(t *testing.T) {
		var buf bytes.Buffer
		New("staging", &buf).Debug("details")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "DEBUG", entry["level"])
	})

	t.Run("dev writes text", func(t *testing.T) {
		var buf bytes.Buffer
		New("dev", &buf).Debug("details")

		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.Contains(t, buf.String(), "msg=details")
	})
}
