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
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"github.com/medrecords/csv-anonymizer/src/errs"
	"github.com/medrecords/csv-anonymizer/src/utils/httpclient"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Fetcher retrieves the original, not yet anonymized, object.
type Fetcher interface {
	FetchOriginal(ctx context.Context, locator string) (string, error)
}

// PresignedURLFetcher downloads objects through time-limited pre-signed URLs.
type PresignedURLFetcher struct {
	client *httpclient.Client
}

func NewPresignedURLFetcher(client *httpclient.Client) *PresignedURLFetcher {
	return &PresignedURLFetcher{client: client}
}

func (f *PresignedURLFetcher) FetchOriginal(ctx context.Context, presignedURL string) (string, error) {
	locator := httpclient.RedactURL(presignedURL)
	log.Debugf("downloading original object %s", locator)

	status, body, err := f.client.GetBytes(ctx, presignedURL)
	if err != nil {
		return "", errs.NewFetchError(locator, status, err)
	}
	if status != 200 {
		log.Errorf("failed to download original object %s: status %d", locator, status)
		return "", errs.NewFetchError(locator, status, fmt.Errorf("unexpected response status"))
	}
	return DecodeUTF8(body)
}

// DecodeUTF8 returns body as a string with a leading byte order mark removed.
func DecodeUTF8(body []byte) (string, error) {
	body = bytes.TrimPrefix(body, utf8BOM)
	if !utf8.Valid(body) {
		return "", errs.NewParseError(fmt.Errorf("object is not valid UTF-8"))
	}
	return string(body), nil
}
