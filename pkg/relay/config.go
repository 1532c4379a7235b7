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

package relay

import (
	"fmt"

	"github.com/relayring/relayring/pkg/utils"
)

type (
	// Config struct contains the relay session configuration
	Config struct {
		// Quantum is the default per-turn battery drain. Robots added
		// without an explicit drain value get this one.
		Quantum int
	}
)

func NewDefaultConfig() *Config {
	return &Config{Quantum: 1}
}

func (c *Config) Apply(other *Config) {
	if other == nil {
		return
	}
	if other.Quantum > 0 {
		c.Quantum = other.Quantum
	}
}

func (c *Config) Check() error {
	if c.Quantum <= 0 {
		return fmt.Errorf("invalid Quantum=%d, must be positive", c.Quantum)
	}
	return nil
}

func (c *Config) String() string {
	return utils.ToJsonStr(c)
}
