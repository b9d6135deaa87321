/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"context"
	"fmt"

	"github.com/carverauto/gatekeeper/pkg/logger"
)

// OpenStore returns the Store selected by cfg.
func OpenStore(ctx context.Context, cfg StoreConfig, log logger.Logger) (Store, error) {
	switch cfg.Type {
	case StoreFile, "":
		path := cfg.Path
		if path == "" {
			path = DefaultStorePath
		}

		return NewFileStore(path, log), nil
	case StoreKV:
		url, bucket := cfg.NATSURL, cfg.Bucket
		if url == "" {
			url = DefaultNATSURL
		}

		if bucket == "" {
			bucket = DefaultBucket
		}

		return OpenKVStore(ctx, url, bucket, log)
	case StoreMemory:
		return NewMemoryStore(), nil
	}

	return nil, fmt.Errorf("%w: %q", errUnknownStore, cfg.Type)
}
