package morph

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for mapper events.
var (
	SignalMappingRegistered   = capitan.NewSignal("morph.mapping.registered", "Mapping registered or replaced")
	SignalMapComplete         = capitan.NewSignal("morph.map.complete", "Map operation finished")
	SignalCacheHit            = capitan.NewSignal("morph.cache.hit", "Map result served from the instance cache")
	SignalValidationFailed    = capitan.NewSignal("morph.validation.failed", "Validation rule rejected a field")
	SignalBindReceiveComplete = capitan.NewSignal("morph.bind.receive.complete", "Binder receive finished")
	SignalBindSendComplete    = capitan.NewSignal("morph.bind.send.complete", "Binder send finished")
)

// Keys for typed event data.
var (
	KeySource      = capitan.NewStringKey("source")
	KeyDestination = capitan.NewStringKey("destination")
	KeyFieldCount  = capitan.NewIntKey("field_count")
	KeyField       = capitan.NewStringKey("field")
	KeyContentType = capitan.NewStringKey("content_type")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

func emitMappingRegistered(ctx context.Context, source, destination string, fields int) {
	capitan.Emit(ctx, SignalMappingRegistered,
		KeySource.Field(source),
		KeyDestination.Field(destination),
		KeyFieldCount.Field(fields),
	)
}

// emitMapComplete emits an event when a map call finishes.
func emitMapComplete(ctx context.Context, source, destination string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeySource.Field(source),
		KeyDestination.Field(destination),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalMapComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalMapComplete, fields...)
	}
}

func emitCacheHit(ctx context.Context, source, destination string) {
	capitan.Emit(ctx, SignalCacheHit,
		KeySource.Field(source),
		KeyDestination.Field(destination),
	)
}

func emitValidationFailed(ctx context.Context, typeName, field string, err error) {
	capitan.Error(ctx, SignalValidationFailed,
		KeySource.Field(typeName),
		KeyField.Field(field),
		KeyError.Field(err),
	)
}

// bindFields builds the event fields shared by binder events.
func bindFields(contentType, source, destination string, size int, duration time.Duration, err error) []capitan.Field {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeySource.Field(source),
		KeyDestination.Field(destination),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
	}
	return fields
}

// emitBindReceiveComplete emits an event when a binder receive finishes.
func emitBindReceiveComplete(ctx context.Context, contentType, source, destination string, size int, duration time.Duration, err error) {
	fields := bindFields(contentType, source, destination, size, duration, err)
	if err != nil {
		capitan.Error(ctx, SignalBindReceiveComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalBindReceiveComplete, fields...)
	}
}

// emitBindSendComplete emits an event when a binder send finishes.
func emitBindSendComplete(ctx context.Context, contentType, source, destination string, size int, duration time.Duration, err error) {
	fields := bindFields(contentType, source, destination, size, duration, err)
	if err != nil {
		capitan.Error(ctx, SignalBindSendComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalBindSendComplete, fields...)
	}
}
