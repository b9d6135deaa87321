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
)

// MemoryStore keeps the document in process memory.
type MemoryStore struct {
	docStore
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.backend = &memoryBackend{}

	return s
}

func (*MemoryStore) Close() error { return nil }

// memoryBackend stores an encoded copy so callers never share slices with it.
type memoryBackend struct {
	data []byte
}

func (m *memoryBackend) load(context.Context) (*document, error) {
	doc := &document{}
	if m.data == nil {
		return doc, nil
	}

	if err := json.Unmarshal(m.data, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func (m *memoryBackend) save(_ context.Context, doc *document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	m.data = data

	return nil
}
