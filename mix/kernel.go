// SPDX-License-Identifier: EPL-2.0

package mix

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/cpu"
)

// accumulator adds value*gains into out, one output channel per lane.
//
// Every implementation must round the product to float32 before adding it.
// The explicit conversion stops the compiler from fusing the two operations,
// which keeps all kernels bit-identical on every architecture.
type accumulator interface {
	accumulate(out *Frame, value float32, gains *Frame)
}

type scalarKernel struct{}

func (scalarKernel) accumulate(out *Frame, value float32, gains *Frame) {
	for c := range out {
		out[c] += float32(value * gains[c])
	}
}

type lanes2Kernel struct{}

func (lanes2Kernel) accumulate(out *Frame, value float32, gains *Frame) {
	for c := 0; c < MaxChannels; c += 2 {
		o := (*[2]float32)(out[c : c+2])
		g := (*[2]float32)(gains[c : c+2])
		o[0] += float32(value * g[0])
		o[1] += float32(value * g[1])
	}
}

type lanes4Kernel struct{}

func (lanes4Kernel) accumulate(out *Frame, value float32, gains *Frame) {
	for c := 0; c < MaxChannels; c += 4 {
		o := (*[4]float32)(out[c : c+4])
		g := (*[4]float32)(gains[c : c+4])
		o[0] += float32(value * g[0])
		o[1] += float32(value * g[1])
		o[2] += float32(value * g[2])
		o[3] += float32(value * g[3])
	}
}

// Kernel is one implementation of the direct mixing loop.
type Kernel struct {
	Name  string
	Lanes int

	direct     func(c *Context, p *DirectParams, srcChan int, b Block)
	accumulate func(out *Frame, value float32, gains *Frame)
}

func newKernel[A accumulator](name string, lanes int) Kernel {
	var acc A
	return Kernel{
		Name:       name,
		Lanes:      lanes,
		direct:     mixDirect[A],
		accumulate: acc.accumulate,
	}
}

var kernels = []Kernel{
	newKernel[scalarKernel]("scalar", 1),
	newKernel[lanes2Kernel]("lanes2", 2),
	newKernel[lanes4Kernel]("lanes4", 4),
}

// Kernels lists every available kernel, narrowest first.
func Kernels() []Kernel {
	out := make([]Kernel, len(kernels))
	copy(out, kernels)
	return out
}

// KernelByName returns the kernel called name. An empty name or "auto"
// selects DetectKernel.
func KernelByName(name string) (Kernel, error) {
	if name == "" || name == "auto" {
		return DetectKernel(), nil
	}

	for _, k := range kernels {
		if k.Name == name {
			return k, nil
		}
	}

	return Kernel{}, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
}

// DetectKernel picks a kernel by the features of the running CPU: lanes4
// where the CPU has 128-bit vector registers, lanes2 on plain VFP ARM and
// scalar otherwise. The kernels are Go code shaped after those lane widths;
// the choice affects speed only, never the output.
func DetectKernel() Kernel {
	return kernels[kernelIndex(runtime.GOARCH)]
}

func kernelIndex(arch string) int {
	switch arch {
	case "amd64", "386":
		if cpu.X86.HasSSE2 {
			return 2
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			return 2
		}
	case "arm":
		if cpu.ARM.HasNEON {
			return 2
		}
		if cpu.ARM.HasVFP {
			return 1
		}
	case "s390x":
		if cpu.S390X.HasVX {
			return 2
		}
	}

	return 0
}
