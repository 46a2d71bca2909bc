package morph

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEmitMappingRegistered(_ *testing.T) {
	// Should not panic
	emitMappingRegistered(context.Background(), "User", "UserDTO", 3)
}

func TestEmitMapComplete_Success(_ *testing.T) {
	emitMapComplete(context.Background(), "User", "UserDTO", 100*time.Microsecond, nil)
}

func TestEmitMapComplete_Error(_ *testing.T) {
	emitMapComplete(context.Background(), "User", "UserDTO", 100*time.Microsecond, errors.New("test error"))
}

func TestEmitCacheHit(_ *testing.T) {
	emitCacheHit(context.Background(), "User", "UserDTO")
}

func TestEmitValidationFailed(_ *testing.T) {
	emitValidationFailed(context.Background(), "UserDTO", "Email", errors.New("test error"))
}

func TestEmitBindReceiveComplete_Success(_ *testing.T) {
	emitBindReceiveComplete(context.Background(), "application/json", "UserWire", "User", 128, time.Millisecond, nil)
}

func TestEmitBindReceiveComplete_Error(_ *testing.T) {
	emitBindReceiveComplete(context.Background(), "application/json", "UserWire", "User", 0, time.Millisecond, errors.New("test error"))
}

func TestEmitBindSendComplete_Success(_ *testing.T) {
	emitBindSendComplete(context.Background(), "application/json", "User", "UserWire", 256, time.Millisecond, nil)
}

func TestEmitBindSendComplete_Error(_ *testing.T) {
	emitBindSendComplete(context.Background(), "application/json", "User", "UserWire", 0, time.Millisecond, errors.New("test error"))
}

func TestBindFields(t *testing.T) {
	if got := len(bindFields("application/json", "a", "b", 1, time.Second, nil)); got != 5 {
		t.Errorf("bindFields() without error has %d fields, want 5", got)
	}
	if got := len(bindFields("application/json", "a", "b", 1, time.Second, errors.New("x"))); got != 6 {
		t.Errorf("bindFields() with error has %d fields, want 6", got)
	}
}
