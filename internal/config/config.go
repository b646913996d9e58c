// SPDX-License-Identifier: EPL-2.0

// Package config loads audmix runtime settings from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audmix/device"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Output device
	SampleRate int
	Channels   int
	Period     int    // frames per mixing pass
	Kernel     string // scalar, lanes2, lanes4 or auto
	QueueSize  int
	MaxVoices  int

	// WAV output
	BitDepth int

	LogLevel string
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	def := device.DefaultConfig()

	return Config{
		SampleRate: envInt("AUDMIX_SAMPLE_RATE", def.SampleRate),
		Channels:   envInt("AUDMIX_CHANNELS", def.Channels),
		Period:     envInt("AUDMIX_PERIOD", def.Period),
		Kernel:     envStr("AUDMIX_KERNEL", def.Kernel),
		QueueSize:  envInt("AUDMIX_QUEUE_SIZE", def.QueueSize),
		MaxVoices:  envInt("AUDMIX_MAX_VOICES", def.MaxVoices),

		BitDepth: envInt("AUDMIX_BIT_DEPTH", 16),

		LogLevel: envStr("AUDMIX_LOG_LEVEL", "info"),
	}
}

// Device converts the output settings into a device configuration.
func (c Config) Device() device.Config {
	return device.Config{
		SampleRate: c.SampleRate,
		Channels:   c.Channels,
		Period:     c.Period,
		Kernel:     c.Kernel,
		QueueSize:  c.QueueSize,
		MaxVoices:  c.MaxVoices,
	}
}

// Level parses LogLevel, falling back to info for unknown names.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
