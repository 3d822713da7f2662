package storage

import "testing"

func TestMemStorageContract(t *testing.T) {
	runContract(t, func(t *testing.T) Storage {
		return NewMemStorage()
	})
}
