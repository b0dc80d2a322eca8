package membuf

import (
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/text/unicode/norm"

	"github.com/kardwell/bufkit/optional"
)

// Manager is the allocation strategy views depend on. Implementations own
// the raw memory outright; views only ever borrow it through Buffer.Bytes.
//
// All methods follow the fatal-diagnostic contract: allocation or resize
// failure escalates through Failf and never returns a nil or half-valid
// buffer. The one non-fatal absence is Find on an unknown name, which
// reports an empty optional.
type Manager interface {
	// Allocate creates a zero-filled region of exactly size bytes, tagged
	// raw, and registers it under name for later Find.
	Allocate(name string, size uint64) *Buffer

	// Resize grows or shrinks the region, preserving the byte prefix up to
	// min(old, new). The data address may change; raw slices taken before
	// the call are invalid after it. Returns the buffer's final size.
	Resize(b *Buffer, newSize uint64) uint64

	// Release frees the region and forgets the name. The buffer is unusable
	// afterward.
	Release(b *Buffer)

	// Find re-acquires a previously allocated buffer by its stable name.
	Find(name string) optional.Of[*Buffer]

	// Stats reports allocation counters for instrumentation.
	Stats() Stats
}

// Stats holds per-manager allocation counters.
type Stats struct {
	Buffers   int    // currently registered buffers
	LiveBytes uint64 // bytes currently allocated
	PeakBytes uint64 // high-water mark of LiveBytes
	Allocs    uint64 // Allocate calls
	Resizes   uint64 // Resize calls
	Releases  uint64 // Release calls
}

// Option configures a Manager at construction.
type Option func(*options)

type options struct {
	logger log.Logger
	trace  bool
}

// WithLogger sets the logger used for allocation tracing.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithAllocTrace enables per-call allocation trace logging.
func WithAllocTrace(on bool) Option {
	return func(o *options) { o.trace = on }
}

func buildOptions(opts []Option) options {
	// Runtime trace toggle, same shape as the usual *_LOG_ALLOC env knobs.
	o := options{trace: os.Getenv("BUFKIT_LOG_ALLOC") != ""}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		if o.trace {
			o.logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
		} else {
			o.logger = log.NewNopLogger()
		}
	}
	return o
}

// registry is the shared name → buffer index. Names are NFC-normalized so
// Find is stable across Unicode composition differences in asset names.
type registry struct {
	byName map[string]*Buffer
	stats  Stats
	opt    options
}

func newRegistry(opts []Option) registry {
	return registry{
		byName: make(map[string]*Buffer),
		opt:    buildOptions(opts),
	}
}

func canonicalName(name string) string {
	return norm.NFC.String(name)
}

func (r *registry) register(name string, size uint64) *Buffer {
	name = canonicalName(name)
	if _, dup := r.byName[name]; dup {
		Failf(KindInvalidMemory, "buffer %q: name already allocated", name)
	}
	b := &Buffer{name: name, typeID: TypeRaw}
	r.byName[name] = b
	r.stats.Allocs++
	r.stats.Buffers++
	r.noteBytes(0, size)
	if r.opt.trace {
		_ = level.Debug(r.opt.logger).Log("op", "allocate", "buffer", name, "size", size)
	}
	return b
}

func (r *registry) checkOwned(b *Buffer, op string) {
	if b == nil {
		Failf(KindInvalidMemory, "%s: nil buffer", op)
	}
	if b.released {
		Failf(KindInvalidMemory, "%s: buffer %q already released", op, b.name)
	}
	if r.byName[b.name] != b {
		Failf(KindInvalidMemory, "%s: buffer %q not owned by this manager", op, b.name)
	}
}

func (r *registry) noteBytes(old, new uint64) {
	r.stats.LiveBytes += new
	r.stats.LiveBytes -= old
	if r.stats.LiveBytes > r.stats.PeakBytes {
		r.stats.PeakBytes = r.stats.LiveBytes
	}
}

func (r *registry) forget(b *Buffer) {
	r.noteBytes(b.Size(), 0)
	delete(r.byName, b.name)
	r.stats.Releases++
	r.stats.Buffers--
	if r.opt.trace {
		_ = level.Debug(r.opt.logger).Log("op", "release", "buffer", b.name)
	}
	b.released = true
	b.data = nil
}

func (r *registry) find(name string) optional.Of[*Buffer] {
	b, ok := r.byName[canonicalName(name)]
	if !ok {
		return optional.None[*Buffer]()
	}
	return optional.Some(b)
}

func (r *registry) Stats() Stats {
	return r.stats
}
