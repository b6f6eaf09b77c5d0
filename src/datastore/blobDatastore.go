/*
Copyright (c) YugabyteDB, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
// Implementation of the datastore interface for documents hosted on s3, gcs or azure blob storage.
package datastore

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	log "github.com/sirupsen/logrus"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"
)

const CSV_CONTENT_TYPE = "text/csv"

type BlobDataStore struct{}

func NewBlobDataStore() *BlobDataStore {
	return &BlobDataStore{}
}

func (ds *BlobDataStore) ReadObject(ctx context.Context, objectURL string) ([]byte, error) {
	bucket, key, err := openBucket(ctx, objectURL)
	if err != nil {
		return nil, err
	}
	defer bucket.Close()

	data, err := bucket.ReadAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read object %q: %w", objectURL, err)
	}
	log.Infof("read %d bytes from %s", len(data), objectURL)
	return data, nil
}

func (ds *BlobDataStore) WriteObject(ctx context.Context, objectURL string, data []byte) error {
	bucket, key, err := openBucket(ctx, objectURL)
	if err != nil {
		return err
	}
	defer bucket.Close()

	err = bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: CSV_CONTENT_TYPE})
	if err != nil {
		return fmt.Errorf("write object %q: %w", objectURL, err)
	}
	log.Infof("wrote %d bytes to %s", len(data), objectURL)
	return nil
}

func openBucket(ctx context.Context, objectURL string) (*blob.Bucket, string, error) {
	bucketURL, key, err := SplitObjectURL(objectURL)
	if err != nil {
		return nil, "", err
	}
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, "", fmt.Errorf("open bucket %q: %w", bucketURL, err)
	}
	return bucket, key, nil
}

// SplitObjectURL splits an object URL into the URL of its bucket and the object key.
//
//	s3://bucket/dir/patients.csv  -> s3://bucket, dir/patients.csv
//	file:///tmp/dir/patients.csv  -> file:///tmp/dir, patients.csv
func SplitObjectURL(objectURL string) (string, string, error) {
	u, err := url.Parse(objectURL)
	if err != nil {
		return "", "", err
	}
	if u.Scheme == "file" {
		dir, key := path.Split(u.Path)
		if key == "" {
			return "", "", fmt.Errorf("missing file name in url %v", objectURL)
		}
		u.Path = strings.TrimSuffix(dir, "/")
		return u.String(), key, nil
	}

	if u.Host == "" {
		return "", "", fmt.Errorf("missing bucket in url %v", objectURL)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("missing key in url %v", objectURL)
	}
	u.Path = ""
	return u.String(), key, nil
}
