package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserResponseRoundTrip(t *testing.T) {
	u := User{ID: 5, Name: "Ira", Email: "ira@example.com"}
	assert.Equal(t, u, FromResponse(buildUserResponse(&u)))
}
