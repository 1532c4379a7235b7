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

package simulator

import (
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/relayring/relayring/pkg/relay"
	"github.com/relayring/relayring/pkg/relay/sink"
	"github.com/relayring/relayring/pkg/storage"
	"github.com/relayring/relayring/pkg/utils"
)

type (
	// Config struct contains the headless run configuration
	Config struct {
		// Session is the relay session configuration
		Session *relay.Config
		// Storage is the place where the session state is persisted
		// between the runs
		Storage *storage.Config
		// Sink defines where turn results and the final report go
		Sink *sink.Config

		// RosterFile contains robots to be added on start, empty means none
		RosterFile string
		// MaxTurns limits the run, 0 means "run until the ring is empty"
		MaxTurns int
		// TurnDelayMs is the pacing delay between two turns in milliseconds
		TurnDelayMs int
	}
)

func NewDefaultConfig() *Config {
	return &Config{
		Session: relay.NewDefaultConfig(),
		Storage: storage.NewDefaultConfig(),
		Sink:    &sink.Config{Type: sink.SnkTypeStdout},
	}
}

func LoadCfgFromFile(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read config file %s", path)
	}

	cfg := &Config{}
	err = json.Unmarshal(data, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "could not unmarshal config file %s", path)
	}

	return cfg, nil
}

func (c *Config) Apply(other *Config) {
	if other == nil {
		return
	}

	c.Session.Apply(other.Session)
	c.Storage.Apply(other.Storage)
	if other.Sink != nil {
		c.Sink = other.Sink
	}
	if other.RosterFile != "" {
		c.RosterFile = other.RosterFile
	}
	if other.MaxTurns > 0 {
		c.MaxTurns = other.MaxTurns
	}
	if other.TurnDelayMs > 0 {
		c.TurnDelayMs = other.TurnDelayMs
	}
}

func (c *Config) Check() error {
	if err := c.Session.Check(); err != nil {
		return err
	}
	if err := c.Storage.Check(); err != nil {
		return err
	}
	return c.Sink.Check()
}

func (c *Config) String() string {
	return utils.ToJsonStr(c)
}
