package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/config"
)

func TestSetupModes(t *testing.T) {
	c := config.Default()

	log := Discard()
	require.NoError(t, Setup(log, *c))
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)

	c.Mode = "production"
	log = Discard()
	require.NoError(t, Setup(log, *c))
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}

func TestSetupFileHook(t *testing.T) {
	c := config.Default()
	c.Mode = "production"
	c.Log.File = filepath.Join(t.TempDir(), "sweeper.log")

	log := Discard()
	require.NoError(t, Setup(log, *c))
	log.WithField("game", "abc").Info("hello")

	b, err := os.ReadFile(c.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"game":"abc"`)
	assert.Contains(t, string(b), `"msg":"hello"`)
}
