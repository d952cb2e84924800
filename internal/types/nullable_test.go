package types

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNullable_UnmarshalJSON(t *testing.T) {
	var params UpdateDomainParams

	require.NoError(t, json.Unmarshal([]byte(`{"user_id":null,"vertical_id":4,"status":3}`), &params))
	assert.True(t, params.UserID.Set)
	assert.Nil(t, params.UserID.Value)
	assert.True(t, params.VerticalID.Set)
	require.NotNil(t, params.VerticalID.Value)
	assert.Equal(t, uint(4), *params.VerticalID.Value)

	params = UpdateDomainParams{}
	require.NoError(t, json.Unmarshal([]byte(`{"status":3}`), &params))
	assert.False(t, params.UserID.Set)
	assert.False(t, params.VerticalID.Set)

	assert.Error(t, json.Unmarshal([]byte(`{"user_id":"eleven"}`), &params))
}
