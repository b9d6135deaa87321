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

package transport

import "errors"

var (
	ErrConnectionFailed = errors.New("connection failed")
	ErrPublishFailed    = errors.New("publish failed")
	ErrInvalidResponse  = errors.New("invalid response")
	ErrAdapterStarted   = errors.New("adapter already started")
	ErrUnsupportedKind  = errors.New("unsupported transport kind")

	// ErrBrokerAuth is wrapped by broker clients when the broker rejects
	// the credentials.
	ErrBrokerAuth = errors.New("broker rejected credentials")
)
