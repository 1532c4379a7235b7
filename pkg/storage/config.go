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
	"fmt"

	"github.com/relayring/relayring/pkg/utils"
)

type (
	StorageType string

	// Config struct defines where the session state lives between runs
	Config struct {
		// Type is either "file" or "inmem"
		Type StorageType
		// Location is the storage directory, used by the file type only
		Location string
	}
)

const (
	TypeFile  StorageType = "file"
	TypeInMem StorageType = "inmem"
)

func NewDefaultConfig() *Config {
	return &Config{Type: TypeInMem}
}

func (c *Config) Apply(other *Config) {
	if other == nil {
		return
	}
	if other.Type != "" {
		c.Type = other.Type
	}
	if other.Location != "" {
		c.Location = other.Location
	}
}

func (c *Config) Check() error {
	if c.Type != TypeFile && c.Type != TypeInMem {
		return fmt.Errorf("unknown Type=%v", c.Type)
	}
	if c.Type == TypeFile && c.Location == "" {
		return fmt.Errorf("Location must not be empty for Type=%v", c.Type)
	}
	return nil
}

func (c *Config) String() string {
	return utils.ToJsonStr(c)
}
