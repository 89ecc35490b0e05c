package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	at := time.Unix(100, 0)

	tests := []struct {
		name    string
		event   Event
		wantErr bool
	}{
		{"valid", Event{Username: "alice", ActivityType: TypeLogin, CreatedAt: at}, false},
		{"unknown type is valid", Event{Username: "alice", ActivityType: "teleport", CreatedAt: at}, false},
		{"missing username", Event{ActivityType: TypeLogin, CreatedAt: at}, true},
		{"blank username", Event{Username: "  ", ActivityType: TypeLogin, CreatedAt: at}, true},
		{"missing type", Event{Username: "alice", CreatedAt: at}, true},
		{"missing timestamp", Event{Username: "alice", ActivityType: TypeLogin}, true},
		{"epoch is valid", Event{Username: "alice", ActivityType: TypeLogin, CreatedAt: time.Unix(0, 0)}, false},
		{"before 1970", Event{Username: "alice", ActivityType: TypeLogin, CreatedAt: time.Unix(-1, 0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.event)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestActivityType_Known(t *testing.T) {
	require.True(t, TypeLogout.Known())
	require.True(t, TypeAPIAccess.Known())
	require.False(t, ActivityType("teleport").Known())
}
