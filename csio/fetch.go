/* Copyright 2023 Jens Keiner
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package csio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/jenskeiner/exchange-calendars-extensions-api/changes"
	"github.com/jenskeiner/exchange-calendars-extensions-api/registry"

	"golang.org/x/net/publicsuffix"
)

// Fetcher gets changeset documents over HTTP.
type Fetcher struct {
	// Client, if nil, is built on first use with a cookie jar.
	Client *http.Client

	// Timeout bounds a single fetch when the given context
	// doesn't.  Zero means 30 seconds.
	Timeout time.Duration
}

// Fetch gets the changeset document at url.  YAML documents are
// recognized by content type or a ".yaml"/".yml" URL; everything
// else is parsed as JSON.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*changes.ChangeSet, error) {
	bs, yamlish, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	return ParseChangeSet(bs, yamlish)
}

// FetchRegistry gets a whole registry document at url.
func (f *Fetcher) FetchRegistry(ctx context.Context, url string) (*registry.Registry, error) {
	bs, yamlish, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	return ParseRegistry(bs, yamlish)
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, bool, error) {
	client := f.Client
	if client == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, false, err
		}
		client = &http.Client{Jar: jar}
		f.Client = client
	}

	timeout := f.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}

	bs, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}

	yamlish := isYAML(url) ||
		strings.Contains(resp.Header.Get("Content-Type"), "yaml")

	return bs, yamlish, nil
}
