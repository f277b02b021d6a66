package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCondition(t *testing.T) {
	assert.True(t, ValidCondition(ConditionTerkirim))
	assert.True(t, ValidCondition(ConditionTerpakai))
	assert.True(t, ValidCondition(ConditionRusak))
	assert.False(t, ValidCondition(ProductCondition("unknown")))
	assert.False(t, ValidCondition(ProductCondition("")))
}

func TestValidProvince(t *testing.T) {
	assert.True(t, ValidProvince("DKI Jakarta"))
	assert.True(t, ValidProvince("DI Yogyakarta"))
	assert.False(t, ValidProvince("Atlantis"))
	assert.False(t, ValidProvince("jakarta"))
}

func TestUserPasswordRoundTrip(t *testing.T) {
	user := &User{Username: "admin", Role: RoleAdmin}
	require.NoError(t, user.SetPassword("admin123"))

	assert.NotEqual(t, "admin123", user.Password, "password must be stored hashed")
	assert.True(t, user.CheckPassword("admin123"))
	assert.False(t, user.CheckPassword("wrong"))
	assert.True(t, user.IsAdmin())
}
