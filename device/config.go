// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"

	"github.com/ik5/audmix/mix"
)

// Config describes the output format of a device.
type Config struct {
	// SampleRate of the rendered stream in Hz.
	SampleRate int
	// Channels is the number of output channels, 1 to mix.MaxChannels.
	Channels int
	// Period is the number of frames rendered per mixing pass.
	Period int
	// Kernel names the accumulator implementation. Empty or "auto" picks
	// the widest one the CPU supports.
	Kernel string
	// QueueSize bounds the number of Play/Stop requests waiting for the
	// next period.
	QueueSize int
	// MaxVoices is the number of voices the render loop can hold without
	// allocating.
	MaxVoices int
}

// DefaultConfig is CD-rate stereo with 1024-frame periods.
func DefaultConfig() Config {
	return Config{
		SampleRate: 44100,
		Channels:   2,
		Period:     1024,
		Kernel:     "auto",
		QueueSize:  64,
		MaxVoices:  64,
	}
}

func (c Config) validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", c.SampleRate)
	}
	if c.Channels < 1 || c.Channels > mix.MaxChannels {
		return fmt.Errorf("channels %d: %w", c.Channels, mix.ErrInvalidChannels)
	}
	if c.Period < 1 {
		return fmt.Errorf("period %d: %w", c.Period, mix.ErrInvalidPeriod)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("invalid queue size %d", c.QueueSize)
	}
	if c.MaxVoices < 1 {
		return fmt.Errorf("invalid voice limit %d", c.MaxVoices)
	}

	return nil
}
