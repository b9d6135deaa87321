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
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/carverauto/gatekeeper/pkg/logger"
)

const (
	storeDirMode  = 0o750
	storeFileMode = 0o600
)

// FileStore keeps the document in a single JSON file, replaced atomically.
type FileStore struct {
	docStore
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string, log logger.Logger) *FileStore {
	s := &FileStore{}
	s.backend = &fileBackend{path: path, logger: log}

	return s
}

func (*FileStore) Close() error { return nil }

type fileBackend struct {
	path   string
	logger logger.Logger
}

func (f *fileBackend) load(context.Context) (*document, error) {
	doc := &document{}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read store '%s': %w", f.path, err)
	}

	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal store '%s': %w", f.path, err)
	}

	return doc, nil
}

func (f *fileBackend) save(_ context.Context, doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, storeDirMode); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".store-*.json")
	if err != nil {
		return err
	}

	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Chmod(storeFileMode); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return err
	}

	f.logger.Debug().Str("path", f.path).Msg("Store saved")

	return nil
}
