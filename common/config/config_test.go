package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRawSetting(key, value string) {
	envMapMutex.Lock()
	strEnvMap[key] = value
	envMapMutex.Unlock()
}

func TestGetDuration(t *testing.T) {
	setRawSetting("TEST_WRITE_TIMEOUT", "45s")

	require.Equal(t, 45*time.Second, GetDuration("TEST_WRITE_TIMEOUT"))
	// second read comes from the parse cache
	require.Equal(t, 45*time.Second, GetDuration("TEST_WRITE_TIMEOUT"))

	require.Equal(t, 25*time.Second,
		GetDuration("TEST_MISSING_TIMEOUT", 25*time.Second))
	require.Panics(t, func() { GetDuration("TEST_MISSING_TIMEOUT") })
}

func TestGetDurationBadValue(t *testing.T) {
	setRawSetting("TEST_BAD_TIMEOUT", "yesterday")
	require.Panics(t, func() { GetDuration("TEST_BAD_TIMEOUT") })
}
