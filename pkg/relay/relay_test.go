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

package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/gatekeeper/pkg/models"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		in      byte
		want    models.RelayState
		wantErr error
	}{
		{name: "activated", in: 0x01, want: models.RelayActivated},
		{name: "released", in: 0x00, want: models.RelayReleased},
		{name: "unknown", in: 0x02, wantErr: ErrUnknownByte},
		{name: "high bit", in: 0xff, wantErr: ErrUnknownByte},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodePayloadRejectsFraming(t *testing.T) {
	_, err := DecodePayload(nil)
	require.ErrorIs(t, err, ErrEmptyPayload)

	_, err = DecodePayload([]byte{0x01, 0x00})
	require.ErrorIs(t, err, ErrOversizedPayload)

	state, err := DecodePayload([]byte{0x00})
	require.NoError(t, err)
	assert.Equal(t, models.RelayReleased, state)
}

func TestEncodeIsSameForBothTransports(t *testing.T) {
	assert.Equal(t, []byte{0x01}, Encode(models.TransportDatagram))
	assert.Equal(t, []byte{0x01}, Encode(models.TransportBroker))

	p := TriggerPayload()
	p[0] = 0x7f
	assert.Equal(t, []byte{0x01}, TriggerPayload(), "payload must not be shared")
}

func TestSequencerDropsDuplicateActivation(t *testing.T) {
	var (
		seq      Sequencer
		reported []models.RelayState
	)

	for _, b := range []byte{0x01, 0x01, 0x00} {
		state, err := Decode(b)
		require.NoError(t, err)

		emit, err := seq.Observe(state)
		require.NoError(t, err)

		if emit {
			reported = append(reported, state)
		}
	}

	assert.Equal(t, []models.RelayState{models.RelayActivated, models.RelayReleased}, reported)
	assert.True(t, seq.Done())
}

func TestSequencerRejectsReleaseFirst(t *testing.T) {
	var seq Sequencer

	emit, err := seq.Observe(models.RelayReleased)
	require.ErrorIs(t, err, ErrReleasedBeforeActivated)
	assert.False(t, emit)
	assert.False(t, seq.Done())
}

func TestSequencerIgnoresTrailingBytes(t *testing.T) {
	var seq Sequencer

	_, _ = seq.Observe(models.RelayActivated)
	_, _ = seq.Observe(models.RelayReleased)

	emit, err := seq.Observe(models.RelayActivated)
	require.NoError(t, err)
	assert.False(t, emit)
}
