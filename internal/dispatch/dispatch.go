// Package dispatch routes one logical operation to the implementation
// registered for the exact kind of its input.
//
// An Operation is defined once with a parameter type P and a Resolver that
// knows which fields of P may hold a "use the kind's default" sentinel.
// Each kind then registers an implementation, optionally together with the
// default parameter values for that kind:
//
//	op := dispatch.Define("resize", resolveResize)
//	op.Register(features.KindImage, resizeImage,
//	    dispatch.WithDefaults(ResizeParams{Interpolation: features.Bilinear}))
//	op.Implements(features.KindBoundingBox, resizeBoundingBox)
//	op.Seal()
//
// Register is for implementations returning raw arrays: the dispatcher
// wraps the array back into a feature of the input's kind and metadata,
// applying the metadata overrides the implementation asks for. Implements
// is for implementations that build the output feature themselves.
//
// # Thread Safety
//
// Registration happens once, before first use, and Seal makes any later
// registration panic. A sealed Operation is read-only and safe for
// concurrent Call from any number of goroutines.
package dispatch

import (
	"fmt"
	"sort"

	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
	"github.com/ironsheep/image-geometry-mcp/internal/features"
	"github.com/ironsheep/image-geometry-mcp/internal/tensor"
)

// Raw is the output of an implementation whose result the dispatcher wraps.
type Raw struct {
	Data tensor.Array
	Meta features.Meta
}

// RawImpl computes a raw array from the input feature.
type RawImpl[P any] func(in features.Feature, p P) (Raw, error)

// Impl computes a complete output feature.
type Impl[P any] func(in features.Feature, p P) (features.Feature, error)

// Resolver returns p with every field still holding the kind-default
// sentinel replaced by the matching field of def.
type Resolver[P any] func(p, def P) P

type entry[P any] struct {
	call       Impl[P]
	wrapOutput bool
	rawKernel  any
	defaults   *P
}

// Option configures a registration.
type Option[P any] func(*entry[P])

// WithDefaults sets the kind-specific default parameters.
func WithDefaults[P any](defaults P) Option[P] {
	return func(e *entry[P]) {
		e.defaults = &defaults
	}
}

// WithRawKernel attaches a lower-level kernel reused by the implementation,
// for callers that want to bypass features entirely.
func WithRawKernel[P any](kernel any) Option[P] {
	return func(e *entry[P]) {
		e.rawKernel = kernel
	}
}

// Operation is a named operation dispatched on the kind of its input.
type Operation[P any] struct {
	name    string
	resolve Resolver[P]
	entries map[features.Kind]entry[P]
	sealed  bool
}

// Define declares an operation. resolve may be nil when P has no fields
// with kind-specific defaults.
func Define[P any](name string, resolve Resolver[P]) *Operation[P] {
	return &Operation[P]{
		name:    name,
		resolve: resolve,
		entries: make(map[features.Kind]entry[P]),
	}
}

// Name returns the operation name.
func (op *Operation[P]) Name() string {
	return op.name
}

// Register binds impl to kind. The raw output is wrapped by the dispatcher.
func (op *Operation[P]) Register(kind features.Kind, impl RawImpl[P], opts ...Option[P]) *Operation[P] {
	call := func(in features.Feature, p P) (features.Feature, error) {
		raw, err := impl(in, p)
		if err != nil {
			return nil, err
		}
		return in.Rewrap(raw.Data, raw.Meta)
	}
	return op.add(kind, entry[P]{call: call, wrapOutput: true}, opts)
}

// Implements binds impl to kind. impl returns a complete feature, typically
// because it also sets new metadata.
func (op *Operation[P]) Implements(kind features.Kind, impl Impl[P], opts ...Option[P]) *Operation[P] {
	return op.add(kind, entry[P]{call: impl, wrapOutput: false}, opts)
}

func (op *Operation[P]) add(kind features.Kind, e entry[P], opts []Option[P]) *Operation[P] {
	if op.sealed {
		panic(fmt.Sprintf("dispatch: %s: register %s after seal", op.name, kind))
	}
	if _, dup := op.entries[kind]; dup {
		panic(fmt.Sprintf("dispatch: %s: %s registered twice", op.name, kind))
	}
	for _, opt := range opts {
		opt(&e)
	}
	op.entries[kind] = e
	return op
}

// Seal freezes the registrations.
func (op *Operation[P]) Seal() *Operation[P] {
	op.sealed = true
	return op
}

// Sealed reports whether Seal was called.
func (op *Operation[P]) Sealed() bool {
	return op.sealed
}

func (op *Operation[P]) lookup(in features.Feature) (entry[P], error) {
	kind, ok := features.KindOf(in)
	if !ok {
		return entry[P]{}, geomerrors.UnsupportedKind(op.name, fmt.Sprintf("%T", in))
	}
	e, ok := op.entries[kind]
	if !ok {
		return entry[P]{}, geomerrors.UnsupportedKind(op.name, string(kind))
	}
	return e, nil
}

// Resolve returns the parameters the implementation for in would receive.
func (op *Operation[P]) Resolve(in features.Feature, p P) (P, error) {
	e, err := op.lookup(in)
	if err != nil {
		return p, err
	}
	return op.resolveWith(e, p), nil
}

func (op *Operation[P]) resolveWith(e entry[P], p P) P {
	if e.defaults == nil || op.resolve == nil {
		return p
	}
	return op.resolve(p, *e.defaults)
}

// Call runs the implementation registered for the kind of in. It fails with
// an UNSUPPORTED_KIND error when there is none.
func (op *Operation[P]) Call(in features.Feature, p P) (features.Feature, error) {
	e, err := op.lookup(in)
	if err != nil {
		return nil, err
	}
	return e.call(in, op.resolveWith(e, p))
}

// Supports reports whether an implementation is registered for kind.
func (op *Operation[P]) Supports(kind features.Kind) bool {
	_, ok := op.entries[kind]
	return ok
}

// Kinds returns the registered kinds, sorted.
func (op *Operation[P]) Kinds() []features.Kind {
	kinds := make([]features.Kind, 0, len(op.entries))
	for k := range op.entries {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// WrapsOutput reports whether the dispatcher wraps the output for kind.
func (op *Operation[P]) WrapsOutput(kind features.Kind) bool {
	return op.entries[kind].wrapOutput
}

// RawKernel returns the raw kernel registered for kind, if any.
func (op *Operation[P]) RawKernel(kind features.Kind) (any, bool) {
	e, ok := op.entries[kind]
	if !ok || e.rawKernel == nil {
		return nil, false
	}
	return e.rawKernel, true
}
