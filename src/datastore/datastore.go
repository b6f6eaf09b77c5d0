package datastore

import (
	"context"
	"strings"
)

var blobSchemes = []string{"s3://", "gs://", "azblob://", "file://"}

// Datastore reads original documents and writes anonymized ones for batch runs.
type Datastore interface {
	ReadObject(ctx context.Context, path string) ([]byte, error)
	WriteObject(ctx context.Context, path string, data []byte) error
}

// NewDataStore picks the store for location: blob storage for s3://, gs://,
// azblob:// and file:// URLs, the local filesystem otherwise.
func NewDataStore(location string) Datastore {
	for _, scheme := range blobSchemes {
		if strings.HasPrefix(location, scheme) {
			return NewBlobDataStore()
		}
	}
	return NewLocalDataStore()
}
