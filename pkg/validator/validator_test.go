package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Speaker string `json:"speaker" validate:"required,oneof=user assistant"`
	RoomID  string `query:"room_id" validate:"required"`
}

func TestValidate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&sample{Speaker: "user", RoomID: "r"}))

	err := v.Validate(&sample{Speaker: "bot"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "speaker must be one of [user assistant]")
	assert.Contains(t, err.Error(), "room_id is required")
}
