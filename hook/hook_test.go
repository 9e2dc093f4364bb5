package hook

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/loopkit/core"
)

type fields struct{ N int }

func newCtx() *core.Context[fields] {
	return core.NewContext(core.ContextSeed[fields]{
		Phase:    core.PhaseStart,
		Fields:   &fields{},
		Channels: core.NewChannels(),
	})
}

func TestRegistrySetRejectsInvalidPhase(t *testing.T) {
	r := NewRegistry[fields]()

	err := r.Set(core.PhaseNone, func(*core.Context[fields]) (any, error) { return nil, nil }, false)
	assert.Error(t, err)
}

func TestRegistryFireDefault(t *testing.T) {
	r := NewRegistry[fields]()

	res, err := r.Fire(core.PhaseStart, newCtx())
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.False(t, r.Registered(core.PhaseStart))
	assert.False(t, r.Notify(core.PhaseStart))
}

func TestRegistryFireUserHook(t *testing.T) {
	r := NewRegistry[fields]()

	require.NoError(t, r.Set(core.PhaseEnd, func(ctx *core.Context[fields]) (any, error) {
		return "done", nil
	}, true))

	assert.True(t, r.Registered(core.PhaseEnd))
	assert.True(t, r.Notify(core.PhaseEnd))

	res, err := r.Fire(core.PhaseEnd, newCtx())
	require.NoError(t, err)
	assert.Equal(t, "done", res)
}

func TestRegistryOverwrite(t *testing.T) {
	r := NewRegistry[fields]()

	require.NoError(t, r.Set(core.PhaseStart, func(*core.Context[fields]) (any, error) { return 1, nil }, true))
	require.NoError(t, r.Set(core.PhaseStart, func(*core.Context[fields]) (any, error) { return 2, nil }, false))

	res, err := r.Fire(core.PhaseStart, newCtx())
	require.NoError(t, err)
	assert.Equal(t, 2, res)
	assert.False(t, r.Notify(core.PhaseStart))
}

func TestRegistryFireHookError(t *testing.T) {
	r := NewRegistry[fields]()
	boom := errors.New("boom")

	require.NoError(t, r.Set(core.PhaseClose, func(*core.Context[fields]) (any, error) {
		return nil, boom
	}, false))

	_, err := r.Fire(core.PhaseClose, newCtx())
	assert.ErrorIs(t, err, boom)
}
