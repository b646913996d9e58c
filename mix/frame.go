// SPDX-License-Identifier: EPL-2.0

package mix

// MaxChannels is the number of output channel lanes every Frame carries.
// It is a multiple of 4 so kernels can walk a Frame in whole lanes.
const MaxChannels = 8

// Frame holds one sample for every output channel.
type Frame [MaxChannels]float32

// Channel names an output channel slot in a Frame.
type Channel int

const (
	FrontLeft Channel = iota
	FrontRight
	FrontCenter
	LFE
	BackLeft
	BackRight
	SideLeft
	SideRight
)

var channelNames = [MaxChannels]string{
	"front-left",
	"front-right",
	"front-center",
	"lfe",
	"back-left",
	"back-right",
	"side-left",
	"side-right",
}

func (c Channel) String() string {
	if c < 0 || int(c) >= MaxChannels {
		return "unknown"
	}
	return channelNames[c]
}
