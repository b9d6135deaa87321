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
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/gatekeeper/pkg/logger"
)

const (
	keyEndpoints           = "endpoints"
	keyBrokerCredentials   = "broker_credentials"
	keyReachabilityTargets = "reachability_targets"

	kvSetupTimeout = 5 * time.Second
)

// KVStore keeps each section of the document under its own key in a NATS
// JetStream key-value bucket.
type KVStore struct {
	docStore
	nc *nats.Conn
}

var _ Store = (*KVStore)(nil)

// OpenKVStore connects to url and binds bucket, creating it when missing.
func OpenKVStore(ctx context.Context, url, bucket string, log logger.Logger) (*KVStore, error) {
	nc, err := nats.Connect(url, nats.Name("gatekeeper-store"))
	if err != nil {
		return nil, err
	}

	s, err := NewKVStore(ctx, nc, bucket, log)
	if err != nil {
		nc.Close()
		return nil, err
	}

	return s, nil
}

// NewKVStore binds bucket on an existing connection. Close closes nc.
func NewKVStore(ctx context.Context, nc *nats.Conn, bucket string, log logger.Logger) (*KVStore, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, kvSetupTimeout)
	defer cancel()

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "gatekeeper device configuration",
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("bucket", bucket).Msg("Bound configuration bucket")

	s := &KVStore{nc: nc}
	s.backend = &kvBackend{kv: kv}

	return s, nil
}

func (s *KVStore) Close() error {
	s.nc.Close()

	return nil
}

type kvBackend struct {
	kv jetstream.KeyValue
}

func (b *kvBackend) load(ctx context.Context) (*document, error) {
	doc := &document{}

	if err := b.get(ctx, keyEndpoints, &doc.Endpoints); err != nil {
		return nil, err
	}

	if err := b.get(ctx, keyBrokerCredentials, &doc.BrokerCredentials); err != nil {
		return nil, err
	}

	if err := b.get(ctx, keyReachabilityTargets, &doc.ReachabilityTargets); err != nil {
		return nil, err
	}

	return doc, nil
}

func (b *kvBackend) get(ctx context.Context, key string, dst interface{}) error {
	entry, err := b.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted) {
		return nil
	}

	if err != nil {
		return err
	}

	return json.Unmarshal(entry.Value(), dst)
}

func (b *kvBackend) save(ctx context.Context, doc *document) error {
	if err := b.put(ctx, keyEndpoints, doc.Endpoints); err != nil {
		return err
	}

	if doc.BrokerCredentials == nil {
		if err := b.kv.Delete(ctx, keyBrokerCredentials); err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
			return err
		}
	} else if err := b.put(ctx, keyBrokerCredentials, doc.BrokerCredentials); err != nil {
		return err
	}

	return b.put(ctx, keyReachabilityTargets, doc.ReachabilityTargets)
}

func (b *kvBackend) put(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	_, err = b.kv.Put(ctx, key, data)

	return err
}
