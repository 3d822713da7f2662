package utils

import (
	"errors"
	"testing"

	"jetacademy/models"
	"jetacademy/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithStudentIDRetriesCollisions(t *testing.T) {
	user := &models.User{Username: "hana"}
	var seen []string
	err := WithStudentID(user, func() error {
		seen = append(seen, *user.StudentID)
		if len(seen) < 3 {
			return storage.ErrDuplicate
		}
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, 3)
	assert.Equal(t, seen[2], *user.StudentID)
}

func TestWithStudentIDGivesUp(t *testing.T) {
	calls := 0
	err := WithStudentID(&models.User{}, func() error {
		calls++
		return storage.ErrDuplicate
	})
	assert.ErrorIs(t, err, storage.ErrDuplicate)
	assert.Equal(t, 3, calls)
}

func TestWithStudentIDStopsOnOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := WithStudentID(&models.User{}, func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}
