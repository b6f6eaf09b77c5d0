//go:build unit

package datastore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitObjectURL(t *testing.T) {
	tests := []struct {
		url    string
		bucket string
		key    string
	}{
		{"s3://records/patients.csv", "s3://records", "patients.csv"},
		{"s3://records/2024/03/patients.csv?region=eu-west-1", "s3://records?region=eu-west-1", "2024/03/patients.csv"},
		{"gs://records/dir/patients.csv", "gs://records", "dir/patients.csv"},
		{"azblob://container/patients.csv", "azblob://container", "patients.csv"},
		{"file:///tmp/out/patients.csv", "file:///tmp/out", "patients.csv"},
	}
	for _, tc := range tests {
		bucket, key, err := SplitObjectURL(tc.url)
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.bucket, bucket, tc.url)
		assert.Equal(t, tc.key, key, tc.url)
	}

	for _, bad := range []string{"s3:///patients.csv", "s3://records", "s3://records/", "file:///tmp/out/"} {
		_, _, err := SplitObjectURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewDataStore(t *testing.T) {
	assert.IsType(t, &BlobDataStore{}, NewDataStore("s3://records/patients.csv"))
	assert.IsType(t, &BlobDataStore{}, NewDataStore("gs://records/patients.csv"))
	assert.IsType(t, &BlobDataStore{}, NewDataStore("file:///tmp/patients.csv"))
	assert.IsType(t, &LocalDataStore{}, NewDataStore("/tmp/patients.csv"))
	assert.IsType(t, &LocalDataStore{}, NewDataStore("patients.csv"))
}

func TestBlobDataStoreRoundTripThroughFileBucket(t *testing.T) {
	dir := t.TempDir()
	objectURL := "file://" + filepath.ToSlash(dir) + "/patients.csv"
	ds := NewDataStore(objectURL)
	ctx := context.Background()

	require.NoError(t, ds.WriteObject(ctx, objectURL, []byte("Fullname,Age\r\n")))
	data, err := ds.ReadObject(ctx, objectURL)
	require.NoError(t, err)
	assert.Equal(t, "Fullname,Age\r\n", string(data))

	_, err = ds.ReadObject(ctx, "file://"+filepath.ToSlash(dir)+"/missing.csv")
	assert.Error(t, err)
}

func TestLocalDataStoreCreatesParentDirs(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "out.csv")
	ds := NewLocalDataStore()
	require.NoError(t, ds.WriteObject(context.Background(), out, []byte("x")))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}
