package utils

import (
	"errors"

	"jetacademy/models"
	"jetacademy/storage"
)

// studentIDAttempts bounds retries when a generated student id collides.
const studentIDAttempts = 3

// WithStudentID assigns a fresh student id to user and calls create,
// retrying with a new id while the store reports a duplicate.
func WithStudentID(user *models.User, create func() error) error {
	var err error
	for i := 0; i < studentIDAttempts; i++ {
		var sid string
		if sid, err = GenerateStudentID(); err != nil {
			return err
		}
		user.StudentID = &sid
		if err = create(); !errors.Is(err, storage.ErrDuplicate) {
			return err
		}
	}
	return err
}
