package morph

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Binder moves values across a boundary: wire payloads of type W are decoded
// with a Codec and mapped to the domain type D on Receive, and domain values
// are mapped back to W and encoded on Send.
//
// Both W to D and D to W mappings must be registered on the mapper. The
// registrations are checked once, on the first operation.
//
// Binders are safe for concurrent use.
type Binder[W, D any] struct {
	mapper *Mapper
	codec  Codec
	wire   Type
	domain Type

	// Validation state (runs once on first operation)
	validateOnce sync.Once
	validateErr  error
}

// NewBinder creates a Binder for W and D on m.
func NewBinder[W, D any](m *Mapper, c Codec) *Binder[W, D] {
	return &Binder[W, D]{
		mapper: m,
		codec:  c,
		wire:   TypeOf[W](),
		domain: TypeOf[D](),
	}
}

// Validate checks that both directions are registered.
//
// Validation also runs automatically on first operation. Calling Validate
// explicitly allows catching configuration errors at startup.
func (b *Binder[W, D]) Validate() error {
	b.validateOnce.Do(func() {
		b.validateErr = b.checkRegistrations()
	})
	return b.validateErr
}

func (b *Binder[W, D]) checkRegistrations() error {
	pairs := [][2]Type{{b.wire, b.domain}, {b.domain, b.wire}}
	for _, pair := range pairs {
		if _, ok := b.mapper.registry.find(pairKey{src: pair[0].rt, dst: pair[1].rt}); !ok {
			return fmt.Errorf("%w: %w", ErrBinding, &ConfigurationError{
				Source:      pair[0].Name(),
				Destination: pair[1].Name(),
				Reason:      "binder requires mappings in both directions",
			})
		}
	}
	return nil
}

// Receive decodes data as W and maps it to D.
// Use for data coming from external sources (API requests, events).
func (b *Binder[W, D]) Receive(ctx context.Context, data []byte) (*D, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	var retErr error
	defer func() {
		emitBindReceiveComplete(ctx, b.codec.ContentType(), b.wire.Name(), b.domain.Name(),
			len(data), time.Since(start), retErr)
	}()

	var wire W
	if err := b.codec.Unmarshal(data, &wire); err != nil {
		retErr = fmt.Errorf("%w: unmarshal: %w", ErrBinding, err)
		return nil, retErr
	}

	out, err := MapAsync[D](ctx, b.mapper, &wire)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	return out, nil
}

// Send maps obj to W and encodes the result. A nil obj encodes as the
// codec's null value.
// Use for data going to external destinations (API responses, events).
func (b *Binder[W, D]) Send(ctx context.Context, obj *D) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	var retErr error
	var retData []byte
	defer func() {
		emitBindSendComplete(ctx, b.codec.ContentType(), b.domain.Name(), b.wire.Name(),
			len(retData), time.Since(start), retErr)
	}()

	if obj == nil {
		retData, retErr = b.codec.Marshal(nil)
		return retData, retErr
	}

	wire, err := MapAsync[W](ctx, b.mapper, obj)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	retData, err = b.codec.Marshal(wire)
	if err != nil {
		retErr = fmt.Errorf("%w: marshal: %w", ErrBinding, err)
		return nil, retErr
	}
	return retData, nil
}
