package events

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var got []*Event
	bus.Subscribe(SnapshotComputed, func(e *Event) { got = append(got, e) })

	bus.Emit(SnapshotComputed, "metrics", map[string]interface{}{"rows": 3})

	require.Len(t, got, 1)
	assert.Equal(t, SnapshotComputed, got[0].Type)
	assert.Equal(t, "metrics", got[0].Module)
	assert.Equal(t, 3, got[0].Data["rows"])
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestBusFiltersByType(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var snapshots, loads int
	bus.Subscribe(SnapshotComputed, func(*Event) { snapshots++ })
	bus.Subscribe(LedgerLoaded, func(*Event) { loads++ })

	bus.Emit(SnapshotComputed, "metrics", nil)
	bus.Emit(SnapshotComputed, "metrics", nil)
	bus.Emit(LedgerLoaded, "ledger", nil)

	assert.Equal(t, 2, snapshots)
	assert.Equal(t, 1, loads)
}

func TestBusMultipleSubscribersSameType(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var a, b bool
	bus.Subscribe(FilterChanged, func(*Event) { a = true })
	bus.Subscribe(FilterChanged, func(*Event) { b = true })

	bus.Emit(FilterChanged, "metrics", nil)

	assert.True(t, a)
	assert.True(t, b)
}

func TestBusEmitWithoutSubscribersIsSafe(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	assert.NotPanics(t, func() { bus.Emit(BackupCompleted, "reliability", nil) })
}
