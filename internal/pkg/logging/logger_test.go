//go:build unit

package logging

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactFormatter_Format(t *testing.T) {
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Level:   logrus.DebugLevel,
		Time:    time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC),
		Message: "Created definition",
		Data: logrus.Fields{
			"component": "netdef",
			"interface": "eth0",
			"kind":      "ethernet",
			"document":  "a.yaml",
		},
	}

	t.Run("WithoutTime", func(t *testing.T) {
		out, err := (&CompactFormatter{}).Format(entry)
		require.NoError(t, err)
		assert.Equal(t, "[DEBUG][netdef][a.yaml][eth0] Created definition (kind=ethernet)\n", string(out))
	})

	t.Run("WithTime", func(t *testing.T) {
		out, err := (&CompactFormatter{ShowTime: true}).Format(entry)
		require.NoError(t, err)
		assert.Equal(t, "[15:04:05][DEBUG][netdef][a.yaml][eth0] Created definition (kind=ethernet)\n", string(out))
	})
}

func TestIsValidFormat(t *testing.T) {
	for _, format := range []string{"json", "text", "simple", "compact", "JSON", ""} {
		assert.True(t, IsValidFormat(format), format)
	}
	assert.False(t, IsValidFormat("xml"))
}

func TestInitLogger(t *testing.T) {
	t.Run("Level", func(t *testing.T) {
		InitLogger(LogConfig{Level: "debug", Format: "json"})
		assert.Equal(t, logrus.DebugLevel, GetLogger().GetLevel())
		_, ok := GetLogger().Formatter.(*logrus.JSONFormatter)
		assert.True(t, ok)
	})

	t.Run("InvalidLevelDefaultsToInfo", func(t *testing.T) {
		InitLogger(LogConfig{Level: "loud", Format: "simple"})
		assert.Equal(t, logrus.InfoLevel, GetLogger().GetLevel())
		_, ok := GetLogger().Formatter.(*CompactFormatter)
		assert.True(t, ok)
	})

	t.Run("Helpers", func(t *testing.T) {
		InitLogger(LogConfig{Level: "info", Format: "simple"})
		var buf bytes.Buffer
		GetLogger().SetOutput(&buf)

		WithComponentAndInterface("netdef", "br0").Info("Bound bridge member")
		WithError(errors.New("boom")).Warn("Failed")
		WithDocument("loader", "a.yaml").Info("Read")
		assert.Contains(t, buf.String(), "[INFO][netdef][br0] Bound bridge member")
		assert.Contains(t, buf.String(), "[WARNING] Failed (error=boom)")
		assert.Contains(t, buf.String(), "[INFO][loader][a.yaml] Read")
	})
}
