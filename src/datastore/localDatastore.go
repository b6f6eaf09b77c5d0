// Implementation of datastore for documents on the machine running csv-anonymizer.
package datastore

import (
	"context"
	"os"
	"path/filepath"
)

type LocalDataStore struct{}

func NewLocalDataStore() *LocalDataStore {
	return &LocalDataStore{}
}

func (ds *LocalDataStore) ReadObject(_ context.Context, filePath string) ([]byte, error) {
	return os.ReadFile(filePath)
}

func (ds *LocalDataStore) WriteObject(_ context.Context, filePath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
