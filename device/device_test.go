// SPDX-License-Identifier: EPL-2.0

package device

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/mix"
)

func testConfig(period int) Config {
	cfg := DefaultConfig()
	cfg.SampleRate = 8000
	cfg.Period = period
	cfg.Kernel = "scalar"
	return cfg
}

func openTestDevice(t testing.TB, cfg Config) (*Device, *test.Hook) {
	t.Helper()

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	d, err := Open(cfg, WithLogger(log))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { d.Close() })

	return d, hook
}

func constantBuffer(t testing.TB, rate, frames int, value float32) *audio.Buffer {
	t.Helper()

	data := make([]float32, frames)
	for i := range data {
		data[i] = value
	}
	buf, err := audio.NewBuffer(rate, [][]float32{data})
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}

	return buf
}

func sineBuffer(t testing.TB, rate, frames int) *audio.Buffer {
	t.Helper()

	data := make([]float32, frames)
	for i := range data {
		data[i] = float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
	}
	buf, err := audio.NewBuffer(rate, [][]float32{data})
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}

	return buf
}

func playVoice(t testing.TB, d *Device, buf *audio.Buffer, p Params, loop bool) *Voice {
	t.Helper()

	v := NewVoice(buf)
	v.SetParams(p)
	v.SetLoop(loop)
	if err := d.Play(v); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	return v
}

func TestOpen_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "zero channels", mutate: func(c *Config) { c.Channels = 0 }, wantErr: mix.ErrInvalidChannels},
		{name: "too many channels", mutate: func(c *Config) { c.Channels = mix.MaxChannels + 1 }, wantErr: mix.ErrInvalidChannels},
		{name: "zero period", mutate: func(c *Config) { c.Period = 0 }, wantErr: mix.ErrInvalidPeriod},
		{name: "unknown kernel", mutate: func(c *Config) { c.Kernel = "avx512" }, wantErr: mix.ErrUnknownKernel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig(16)
			tt.mutate(&cfg)
			if _, err := Open(cfg); !errors.Is(err, tt.wantErr) {
				t.Errorf("Open() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	for _, mutate := range []func(*Config){
		func(c *Config) { c.SampleRate = 0 },
		func(c *Config) { c.QueueSize = 0 },
		func(c *Config) { c.MaxVoices = 0 },
	} {
		cfg := testConfig(16)
		mutate(&cfg)
		if _, err := Open(cfg); err == nil {
			t.Errorf("Open(%+v) error = nil, want error", cfg)
		}
	}
}

func TestDevice_StartFadesIn(t *testing.T) {
	t.Parallel()

	d, _ := openTestDevice(t, testConfig(32))
	v := playVoice(t, d, constantBuffer(t, 8000, 256, 0.5), DefaultParams(), true)

	out := make([]float32, 32*2)
	if n := d.Render(out); n != len(out) {
		t.Fatalf("Render() = %d, want %d", n, len(out))
	}
	if v.State() != Playing {
		t.Errorf("State() = %v, want playing", v.State())
	}

	if out[0] != 0 || out[1] != 0 {
		t.Errorf("first frame = (%v, %v), want silence", out[0], out[1])
	}

	full := float32(0.5 * math.Cos(math.Pi/4))
	for i := 1; i < 32; i++ {
		l, r := out[2*i], out[2*i+1]
		if l != r {
			t.Fatalf("frame %d: left %v != right %v for a centred voice", i, l, r)
		}
		if l <= out[2*(i-1)] || l >= full {
			t.Fatalf("frame %d = %v, want rising towards %v", i, l, full)
		}
	}
}

// Rendering in small periods must produce the same stream as one large
// period: sources continuing across a boundary leave no click behind.
func TestDevice_PeriodBoundariesAreSeamless(t *testing.T) {
	t.Parallel()

	const frames = 512
	p := Params{Gain: 0.9, Pan: 0.3, GainHF: 0.4}

	render := func(period int) []float32 {
		d, _ := openTestDevice(t, testConfig(period))
		playVoice(t, d, sineBuffer(t, 8000, 200), p, true)

		out := make([]float32, frames*2)
		if n := d.Render(out); n != len(out) {
			t.Fatalf("Render() = %d, want %d", n, len(out))
		}
		return out
	}

	whole := render(frames)
	for _, period := range []int{7, 16, 100} {
		chunked := render(period)
		for i := range whole {
			if math.Abs(float64(whole[i]-chunked[i])) > 1e-5 {
				t.Fatalf("period %d: sample %d = %v, want %v", period, i, chunked[i], whole[i])
			}
		}
	}
}

func TestDevice_NonLoopingVoiceEnds(t *testing.T) {
	t.Parallel()

	d, _ := openTestDevice(t, testConfig(16))
	v := playVoice(t, d, constantBuffer(t, 8000, 10, 0.25), DefaultParams(), false)

	out := make([]float32, 16*2)
	d.Render(out)

	if v.State() != Stopped {
		t.Errorf("State() = %v, want stopped", v.State())
	}
	if d.Active() != 0 || !d.Idle() {
		t.Errorf("Active() = %d, Idle() = %v, want 0, true", d.Active(), d.Idle())
	}

	// Pending click corrections keep fading after the last frame.
	if out[2*10] == 0 {
		t.Error("frame after the end is silent, want a fading correction")
	}
	if math.Abs(float64(out[2*15])) >= math.Abs(float64(out[2*10])) {
		t.Errorf("tail %v -> %v, want decaying", out[2*10], out[2*15])
	}
}

func TestDevice_SettledAfterFade(t *testing.T) {
	t.Parallel()

	d, _ := openTestDevice(t, testConfig(64))
	if !d.Settled() {
		t.Error("Settled() = false on a fresh device")
	}
	playVoice(t, d, constantBuffer(t, 8000, 10, 0.5), DefaultParams(), false)

	out := make([]float32, 64*2)
	d.Render(out)
	if !d.Idle() || d.Settled() {
		t.Fatalf("Idle(), Settled() = %v, %v, want true, false right after the end", d.Idle(), d.Settled())
	}

	periods := 1
	for ; !d.Settled(); periods++ {
		if periods > 100 {
			t.Fatal("ledger never settled")
		}
		d.Render(out)
	}
	if periods < 2 {
		t.Errorf("settled after %d periods, want the fade to span more than one", periods)
	}

	// The period that settles the ledger adds nothing to the output.
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d = %v in the settling period, want 0", i, v)
		}
	}
}

func TestDevice_LoopKeepsPlaying(t *testing.T) {
	t.Parallel()

	d, _ := openTestDevice(t, testConfig(16))
	v := playVoice(t, d, constantBuffer(t, 8000, 10, 0.25), DefaultParams(), true)

	out := make([]float32, 64*2)
	d.Render(out)

	if v.State() != Playing || d.Active() != 1 {
		t.Errorf("State() = %v, Active() = %d, want playing, 1", v.State(), d.Active())
	}
	if d.Idle() {
		t.Error("Idle() = true while a voice loops")
	}
}

// settle renders long enough for the fade-in correction of freshly started
// voices to drop below the click threshold.
func settle(d *Device, out []float32) {
	frames := len(out) / d.Config().Channels
	for range 4096/frames + 1 {
		d.Render(out)
	}
}

func TestDevice_StopFadesOut(t *testing.T) {
	t.Parallel()

	const period = 256
	d, _ := openTestDevice(t, testConfig(period))
	v := playVoice(t, d, constantBuffer(t, 8000, 1000, 0.5), DefaultParams(), true)

	out := make([]float32, period*2)
	settle(d, out)

	if err := d.Stop(v); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	d.Render(out)

	if v.State() != Stopped {
		t.Fatalf("State() = %v, want stopped", v.State())
	}
	for i := 2; i < len(out); i += 2 {
		if out[i] > out[i-2] {
			t.Fatalf("frame %d: %v > %v, want a falling fade", i/2, out[i], out[i-2])
		}
	}
	if last := out[len(out)-2]; last > 0.01 {
		t.Errorf("last sample of the fade = %v, want near silence", last)
	}

	d.Render(out)
	for i, s := range out {
		if s != 0 {
			t.Fatalf("sample %d = %v after stop, want 0", i, s)
		}
	}
}

func TestDevice_SetParamsRamps(t *testing.T) {
	t.Parallel()

	d, _ := openTestDevice(t, testConfig(64))
	v := playVoice(t, d, constantBuffer(t, 8000, 1000, 0.5), Params{Gain: 1, Pan: -1, GainHF: 1}, true)

	out := make([]float32, 64*2)
	settle(d, out)

	v.SetParams(Params{Gain: 0, Pan: -1, GainHF: 1})
	d.Render(out)

	if out[0] != 0.5 {
		t.Errorf("first frame = %v, want 0.5 before the ramp moves", out[0])
	}
	for i := 1; i < 64; i++ {
		if out[2*i] >= out[2*(i-1)] {
			t.Fatalf("frame %d: %v >= %v, want a falling ramp", i, out[2*i], out[2*(i-1)])
		}
		if out[2*i+1] != 0 {
			t.Fatalf("frame %d: right = %v, want 0 for a hard-left voice", i, out[2*i+1])
		}
	}
	if out[2*63] > 0.01 {
		t.Errorf("ramp ends at %v, want close to 0", out[2*63])
	}
	if v.State() != Playing {
		t.Errorf("State() = %v, want playing at zero gain", v.State())
	}
	if got := v.Params(); got.Gain != 0 {
		t.Errorf("Params().Gain = %v, want 0", got.Gain)
	}
}

func TestDevice_PlayRequestErrors(t *testing.T) {
	t.Parallel()

	cfg := testConfig(16)
	cfg.QueueSize = 1
	d, hook := openTestDevice(t, cfg)

	if err := d.Play(NewVoice(constantBuffer(t, 44100, 4, 1))); !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("Play(44.1 kHz buffer) error = %v, want ErrFormatMismatch", err)
	}
	if err := d.Play(NewVoice(nil)); !errors.Is(err, ErrNoBuffer) {
		t.Errorf("Play(nil buffer) error = %v, want ErrNoBuffer", err)
	}

	buf := constantBuffer(t, 8000, 4, 1)
	if err := d.Play(NewVoice(buf)); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if err := d.Play(NewVoice(buf)); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Play() on a full queue error = %v, want ErrQueueFull", err)
	}
	if entry := hook.LastEntry(); entry == nil || entry.Level != logrus.WarnLevel {
		t.Errorf("last log entry = %+v, want a warning", entry)
	}

	d.Render(make([]float32, 32))
	if err := d.Play(NewVoice(buf)); err != nil {
		t.Errorf("Play() after the queue drained error = %v", err)
	}

	d.Close()
	if err := d.Play(NewVoice(buf)); !errors.Is(err, ErrClosed) {
		t.Errorf("Play() after Close() error = %v, want ErrClosed", err)
	}
	if n := d.Render(make([]float32, 32)); n != 0 {
		t.Errorf("Render() after Close() = %d, want 0", n)
	}
	if err := d.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestDevice_RestartPlayingVoice(t *testing.T) {
	t.Parallel()

	d, _ := openTestDevice(t, testConfig(16))
	v := playVoice(t, d, sineBuffer(t, 8000, 100), DefaultParams(), false)

	d.Render(make([]float32, 32))
	if err := d.Play(v); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	d.Render(make([]float32, 32))

	if d.Active() != 1 {
		t.Errorf("Active() = %d, want 1 after restarting the same voice", d.Active())
	}
}

func TestDevice_VoiceLimit(t *testing.T) {
	t.Parallel()

	cfg := testConfig(16)
	cfg.MaxVoices = 2
	d, hook := openTestDevice(t, cfg)
	buf := constantBuffer(t, 8000, 1000, 0.25)

	first := playVoice(t, d, buf, DefaultParams(), false)
	playVoice(t, d, buf, DefaultParams(), false)
	if err := d.Play(NewVoice(buf)); !errors.Is(err, ErrTooManyVoices) {
		t.Errorf("Play() over the limit while queued error = %v, want ErrTooManyVoices", err)
	}

	d.Render(make([]float32, 32))
	if d.Active() != 2 {
		t.Fatalf("Active() = %d, want 2", d.Active())
	}
	if err := d.Play(NewVoice(buf)); !errors.Is(err, ErrTooManyVoices) {
		t.Errorf("Play() over the limit while playing error = %v, want ErrTooManyVoices", err)
	}
	if entry := hook.LastEntry(); entry == nil || entry.Level != logrus.WarnLevel {
		t.Errorf("last log entry = %+v, want a warning", entry)
	}

	if err := d.Play(first); err != nil {
		t.Errorf("restarting a playing voice at the limit error = %v", err)
	}
}

func TestDevice_VoiceLimit_RenderDropsExtra(t *testing.T) {
	t.Parallel()

	cfg := testConfig(16)
	cfg.MaxVoices = 1
	d, _ := openTestDevice(t, cfg)
	buf := constantBuffer(t, 8000, 1000, 0.25)

	// Requests queued past the limit, as racing callers could, are dropped
	// by the render loop instead of growing the voice list.
	kept, extra := NewVoice(buf), NewVoice(buf)
	if err := d.send(request{op: opPlay, voice: kept}); err != nil {
		t.Fatalf("send() error = %v", err)
	}
	if err := d.send(request{op: opPlay, voice: extra}); err != nil {
		t.Fatalf("send() error = %v", err)
	}

	d.Render(make([]float32, 32))

	if len(d.voices) != 1 || cap(d.voices) != 1 {
		t.Errorf("voices len %d cap %d, want 1, 1", len(d.voices), cap(d.voices))
	}
	if kept.State() != Playing || extra.State() != Stopped {
		t.Errorf("states = %v, %v, want playing, stopped", kept.State(), extra.State())
	}
	if d.Active() != 1 || d.Idle() {
		t.Errorf("Active(), Idle() = %d, %v, want 1, false", d.Active(), d.Idle())
	}
}

func TestDevice_IdleWhileRendering(t *testing.T) {
	t.Parallel()

	// One minute of audio never ends within the rendered periods.
	buf := constantBuffer(t, 8000, 8000*60, 0.25)

	for trial := range 50 {
		d, _ := openTestDevice(t, testConfig(64))
		playVoice(t, d, buf, DefaultParams(), false)

		done := make(chan struct{})
		go func() {
			defer close(done)
			out := make([]float32, 64*2)
			for range 8 {
				d.Render(out)
			}
		}()

		for rendering := true; rendering; {
			select {
			case <-done:
				rendering = false
			default:
			}
			if d.Idle() {
				t.Fatalf("trial %d: Idle() = true while a voice plays", trial)
			}
		}
		d.Close()
	}
}

func TestDevice_Render_PartialFrames(t *testing.T) {
	t.Parallel()

	d, _ := openTestDevice(t, testConfig(16))

	if n := d.Render(make([]float32, 41)); n != 40 {
		t.Errorf("Render(41 samples) = %d, want 40", n)
	}
	if n := d.Render(make([]float32, 1)); n != 0 {
		t.Errorf("Render(1 sample) = %d, want 0", n)
	}
}

func TestDevice_Render_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	d, _ := openTestDevice(t, testConfig(128))
	buf := sineBuffer(t, 8000, 300)
	for i := range 4 {
		playVoice(t, d, buf, Params{Gain: 0.5, Pan: float32(i) / 4, GainHF: 0.5}, true)
	}

	out := make([]float32, 128*2)
	d.Render(out)

	allocs := testing.AllocsPerRun(100, func() {
		d.Render(out)
	})
	if allocs != 0 {
		t.Errorf("Render() allocs = %v, want 0", allocs)
	}
}

type recordingSink struct {
	periods [][]float32
	onWrite func(n int) error
}

func (s *recordingSink) WritePeriod(samples []float32) error {
	s.periods = append(s.periods, append([]float32(nil), samples...))
	if s.onWrite != nil {
		return s.onWrite(len(s.periods))
	}
	return nil
}

func TestDevice_Run(t *testing.T) {
	t.Parallel()

	d, _ := openTestDevice(t, testConfig(16))
	playVoice(t, d, sineBuffer(t, 8000, 100), DefaultParams(), true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var nested error
	sink := &recordingSink{}
	sink.onWrite = func(n int) error {
		if n == 1 {
			nested = d.Run(ctx, &recordingSink{})
		}
		if n == 3 {
			cancel()
		}
		return nil
	}

	if err := d.Run(ctx, sink); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if !errors.Is(nested, ErrRunning) {
		t.Errorf("nested Run() error = %v, want ErrRunning", nested)
	}
	if len(sink.periods) != 3 {
		t.Fatalf("sink got %d periods, want 3", len(sink.periods))
	}
	for i, p := range sink.periods {
		if len(p) != 32 {
			t.Errorf("period %d has %d samples, want 32", i, len(p))
		}
	}
}

func TestDevice_Run_SinkError(t *testing.T) {
	t.Parallel()

	d, hook := openTestDevice(t, testConfig(16))
	errSink := errors.New("disk full")
	sink := &recordingSink{onWrite: func(int) error { return errSink }}

	if err := d.Run(context.Background(), sink); !errors.Is(err, errSink) {
		t.Errorf("Run() error = %v, want %v", err, errSink)
	}

	found := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			found = true
		}
	}
	if !found {
		t.Error("sink failure was not logged")
	}
}

func TestDevice_Run_Closed(t *testing.T) {
	t.Parallel()

	d, _ := openTestDevice(t, testConfig(16))
	sink := &recordingSink{onWrite: func(n int) error {
		if n == 2 {
			d.Close()
		}
		return nil
	}}

	if err := d.Run(context.Background(), sink); err != nil {
		t.Errorf("Run() after Close() error = %v, want nil", err)
	}
	if len(sink.periods) != 2 {
		t.Errorf("sink got %d periods, want 2", len(sink.periods))
	}
	if err := d.Run(context.Background(), sink); !errors.Is(err, ErrClosed) {
		t.Errorf("Run() on closed device error = %v, want ErrClosed", err)
	}
}

func BenchmarkDevice_Render(b *testing.B) {
	for _, k := range mix.Kernels() {
		b.Run(k.Name, func(b *testing.B) {
			cfg := testConfig(1024)
			cfg.Kernel = k.Name
			d, _ := openTestDevice(b, cfg)
			buf := sineBuffer(b, 8000, 4000)
			for i := range 8 {
				playVoice(b, d, buf, Params{Gain: 0.3, Pan: float32(i)/4 - 1, GainHF: 0.7}, true)
			}
			out := make([]float32, 1024*2)

			b.ReportAllocs()
			for b.Loop() {
				d.Render(out)
			}
		})
	}
}
