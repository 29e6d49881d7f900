package eventdispatch

import (
	"context"
	"testing"

	shafterrors "github.com/amp-labs/stateshaft/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context) error { return nil }

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  Config
		wantErr []error
	}{
		{
			name: "valid",
			config: Config{
				InitialState: "start",
				States:       []StateSpec{{Name: "start", Handlers: EventTable{"capture": noop}}},
			},
		},
		{
			name:    "missing initial state",
			config:  Config{States: []StateSpec{{Name: "start"}}},
			wantErr: []error{ErrInitialStateRequired},
		},
		{
			name: "initial state not declared",
			config: Config{
				InitialState: "bogus",
				States:       []StateSpec{{Name: "start"}},
			},
			wantErr: []error{ErrUnknownState},
		},
		{
			name: "empty and duplicate state names",
			config: Config{
				InitialState: "start",
				States:       []StateSpec{{Name: "start"}, {Name: ""}, {Name: "start"}},
			},
			wantErr: []error{ErrStateNameRequired, ErrDuplicateState},
		},
		{
			name: "bad event table",
			config: Config{
				InitialState: "start",
				States: []StateSpec{{Name: "start", Handlers: EventTable{
					"":        noop,
					"capture": nil,
				}}},
			},
			wantErr: []error{ErrEventNameRequired, ErrNilHandler},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.config.Validate()
			if len(tt.wantErr) == 0 {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, shafterrors.ErrInvalidConfig)

			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestNew_SetsInitialState(t *testing.T) {
	t.Parallel()

	m, err := New(Config{
		InitialState: "capturing",
		States: []StateSpec{
			{Name: "start"},
			{Name: "capturing", Handlers: EventTable{"submit": noop}},
		},
	})
	require.NoError(t, err)

	current, ok := m.CurrentState()
	assert.True(t, ok)
	assert.Equal(t, "capturing", current)
	assert.Equal(t, []string{"capturing", "start"}, m.States())
}

func TestNew_UnknownInitialState(t *testing.T) {
	t.Parallel()

	m, err := New(Config{
		InitialState: "idle",
		States:       []StateSpec{{Name: "start"}},
	})

	require.ErrorIs(t, err, ErrUnknownState)
	assert.Nil(t, m)
}
