package util

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vpatov/justpoker-sub000/logging"
)

var environmentLogger = logging.GetZeroLogger("util::environment", nil)

type tableServerEnvironment struct {
	RedisHost   string
	RedisPort   string
	RedisPW     string
	RedisDB     string
	NatsURL     string
	RestPort    string
	PersistMode string
	LogLevel    string
	SnapshotLRU string
}

// Env is a helper object for accessing environment variables.
var Env = &tableServerEnvironment{
	RedisHost:   "REDIS_HOST",
	RedisPort:   "REDIS_PORT",
	RedisPW:     "REDIS_PW",
	RedisDB:     "REDIS_DB",
	NatsURL:     "NATS_URL",
	RestPort:    "REST_PORT",
	PersistMode: "PERSIST",
	LogLevel:    "LOG_LEVEL",
	SnapshotLRU: "SNAPSHOT_LRU_SIZE",
}

func (e *tableServerEnvironment) GetRedisHost() string {
	host := os.Getenv(e.RedisHost)
	if host == "" {
		msg := fmt.Sprintf("%s is not defined", e.RedisHost)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return host
}

func (e *tableServerEnvironment) GetRedisPort() int {
	return e.mustInt(e.RedisPort)
}

func (e *tableServerEnvironment) GetRedisPW() string {
	return os.Getenv(e.RedisPW)
}

func (e *tableServerEnvironment) GetRedisDB() int {
	return e.mustInt(e.RedisDB)
}

// GetNatsURL returns an empty string when the NATS adapter is disabled.
func (e *tableServerEnvironment) GetNatsURL() string {
	return os.Getenv(e.NatsURL)
}

func (e *tableServerEnvironment) GetRestPort() int {
	if os.Getenv(e.RestPort) == "" {
		return 8080
	}
	return e.mustInt(e.RestPort)
}

// GetPersistMode returns "memory" or "redis".
func (e *tableServerEnvironment) GetPersistMode() string {
	mode := os.Getenv(e.PersistMode)
	if mode == "" {
		return "memory"
	}
	if mode != "memory" && mode != "redis" {
		msg := fmt.Sprintf("Invalid %s value %s", e.PersistMode, mode)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return mode
}

func (e *tableServerEnvironment) GetLogLevel() string {
	return os.Getenv(e.LogLevel)
}

func (e *tableServerEnvironment) GetSnapshotLRUSize() int {
	if os.Getenv(e.SnapshotLRU) == "" {
		return 1000
	}
	return e.mustInt(e.SnapshotLRU)
}

func (e *tableServerEnvironment) mustInt(key string) int {
	str := os.Getenv(key)
	if str == "" {
		msg := fmt.Sprintf("%s is not defined", key)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	num, err := strconv.Atoi(str)
	if err != nil {
		msg := fmt.Sprintf("Invalid %s value %s", key, str)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return num
}
