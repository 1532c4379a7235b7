// Copyright 2019 The relayring Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStorageChecksConfig(t *testing.T) {
	_, err := NewStorage(&Config{Type: "bogus"})
	assert.Error(t, err)

	_, err = NewStorage(&Config{Type: TypeFile})
	assert.Error(t, err, "file storage requires Location")
}

func TestInMemStorage(t *testing.T) {
	s, err := NewStorage(NewDefaultConfig())
	assert.NoError(t, err)

	assert.NoError(t, s.WriteData([]byte("state")))
	data, err := s.ReadData()
	assert.NoError(t, err)
	assert.Equal(t, "state", string(data))
}

func TestFileStorage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStorage(&Config{Type: TypeFile, Location: dir})
	assert.NoError(t, err)

	assert.NoError(t, s.WriteData([]byte("state")))

	// a new storage over the same dir sees the data
	s2, err := NewStorage(&Config{Type: TypeFile, Location: dir})
	assert.NoError(t, err)
	data, err := s2.ReadData()
	assert.NoError(t, err)
	assert.Equal(t, "state", string(data))
}

func TestConfigApply(t *testing.T) {
	c := NewDefaultConfig()
	c.Apply(&Config{Type: TypeFile, Location: "/tmp/rr"})
	assert.Equal(t, TypeFile, c.Type)
	assert.Equal(t, "/tmp/rr", c.Location)

	c.Apply(nil)
	c.Apply(&Config{})
	assert.Equal(t, TypeFile, c.Type)
}
