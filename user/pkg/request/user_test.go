package request

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginMasksPassword(t *testing.T) {
	expectedMap := map[string]string{"email": "email", "password": "***"}
	expected, _ := json.Marshal(expectedMap)
	loginReq := Login{Email: "email", Password: "password"}

	actual, _ := json.Marshal(loginReq)

	assert.EqualValues(t, expected, actual)
	assert.EqualValues(t, "password", loginReq.Password)
}

func TestRegisterMasksPassword(t *testing.T) {
	registerReq := Register{
		Email:     "email",
		Password:  "password",
		FirstName: "Jane",
		LastName:  "Doe",
	}

	actual, err := json.Marshal(registerReq)

	assert.NoError(t, err)
	assert.False(t, strings.Contains(string(actual), "password"))
	assert.True(t, strings.Contains(string(actual), `"***"`))
	assert.EqualValues(t, "password", registerReq.Password)
}

func TestUpdatePasswordMasksBothPasswords(t *testing.T) {
	updateReq := UpdatePassword{OldPassword: "oldSecret1", NewPassword: "newSecret2"}

	actual, err := json.Marshal(updateReq)

	assert.NoError(t, err)
	assert.False(t, strings.Contains(string(actual), "oldSecret1"))
	assert.False(t, strings.Contains(string(actual), "newSecret2"))
	assert.EqualValues(t, "oldSecret1", updateReq.OldPassword)
	assert.EqualValues(t, "newSecret2", updateReq.NewPassword)
}
