package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Read-only maps containing all environment variables
var strEnvMap = make(map[string]string)
var boolEnvMap = make(map[string]bool)
var intEnvMap = make(map[string]int)
var int64EnvMap = make(map[string]int64)
var durationEnvMap = make(map[string]time.Duration)

// Mutex protecting one-time map store operation
var envMapMutex sync.RWMutex

func init() {
	for _, entry := range os.Environ() {
		pair := strings.SplitN(entry, "=", 2)
		if len(pair) == 2 {
			strEnvMap[pair[0]] = pair[1]
		}
	}
}

// GetString returns a setting in string.
func GetString(key string, defaultValue ...string) string {
	envMapMutex.RLock()
	defer envMapMutex.RUnlock()

	val, exists := strEnvMap[key]
	if !exists {
		if len(defaultValue) == 0 {
			panic(fmt.Errorf("setting %s does not exist", key))
		}
		val = defaultValue[0]
	}

	return val
}

// GetBool returns a setting in bool.
func GetBool(key string, def ...bool) bool {
	envMapMutex.RLock()
	if boolVal, exists := boolEnvMap[key]; exists {
		envMapMutex.RUnlock()
		return boolVal
	}

	strVal, strExists := strEnvMap[key]
	if !strExists {
		envMapMutex.RUnlock()
		if len(def) == 0 {
			panic(fmt.Errorf("setting %s does not exist", key))
		}
		return def[0]
	}
	envMapMutex.RUnlock()

	result, err := strconv.ParseBool(strVal)
	if err != nil {
		panic(fmt.Errorf("failed to parse bool for setting %s, err=%w", key, err))
	}
	envMapMutex.Lock()
	boolEnvMap[key] = result
	envMapMutex.Unlock()

	return result
}

// GetInt returns a setting in integer.
func GetInt(key string, def ...int) int {
	envMapMutex.RLock()
	if intVal, exists := intEnvMap[key]; exists {
		envMapMutex.RUnlock()
		return intVal
	}

	strVal, strExists := strEnvMap[key]
	if !strExists {
		envMapMutex.RUnlock()
		if len(def) == 0 {
			panic(fmt.Errorf("setting %s does not exist", key))
		}
		return def[0]
	}
	envMapMutex.RUnlock()

	result, err := strconv.ParseInt(strVal, 0, 32)
	if err != nil {
		panic(fmt.Errorf("failed to parse int for setting %s, err=%w", key, err))
	}
	envMapMutex.Lock()
	intEnvMap[key] = int(result)
	envMapMutex.Unlock()

	return int(result)
}

// GetInt64 returns a setting in 64-bit integer.
func GetInt64(key string, def ...int64) int64 {
	envMapMutex.RLock()
	if int64Val, exists := int64EnvMap[key]; exists {
		envMapMutex.RUnlock()
		return int64Val
	}

	strVal, strExists := strEnvMap[key]
	if !strExists {
		envMapMutex.RUnlock()
		if len(def) == 0 {
			panic(fmt.Errorf("setting %s does not exist", key))
		}
		return def[0]
	}
	envMapMutex.RUnlock()

	result, err := strconv.ParseInt(strVal, 0, 64)
	if err != nil {
		panic(fmt.Errorf("failed to parse int64 for setting %s, err=%w", key, err))
	}
	envMapMutex.Lock()
	int64EnvMap[key] = result
	envMapMutex.Unlock()

	return result
}

// GetDuration returns a setting in time.Duration, parsed with time.ParseDuration.
func GetDuration(key string, def ...time.Duration) time.Duration {
	envMapMutex.RLock()
	if durVal, exists := durationEnvMap[key]; exists {
		envMapMutex.RUnlock()
		return durVal
	}

	strVal, strExists := strEnvMap[key]
	if !strExists {
		envMapMutex.RUnlock()
		if len(def) == 0 {
			panic(fmt.Errorf("setting %s does not exist", key))
		}
		return def[0]
	}
	envMapMutex.RUnlock()

	result, err := time.ParseDuration(strVal)
	if err != nil {
		panic(fmt.Errorf("failed to parse duration for setting %s, err=%w", key, err))
	}
	envMapMutex.Lock()
	durationEnvMap[key] = result
	envMapMutex.Unlock()

	return result
}
