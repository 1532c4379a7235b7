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
	"context"
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/relayring/relayring/pkg/relay"
	"github.com/relayring/relayring/pkg/relay/sink"
	"github.com/relayring/relayring/pkg/storage"
	"github.com/stretchr/testify/assert"
)

type countingSink struct {
	turns   int
	reports int
}

func (cs *countingSink) OnTurn(tr *relay.TurnResult) error {
	cs.turns++
	return nil
}

func (cs *countingSink) OnReport(st *relay.Stats) error {
	cs.reports++
	return nil
}

func (cs *countingSink) Close() error {
	return nil
}

func TestSimulatorDrainsTheRing(t *testing.T) {
	fn := writeRoster(t, "name=walle battery=2\nname=eve battery=1\n")

	cfg := NewDefaultConfig()
	cfg.RosterFile = fn

	strg, err := storage.NewStorage(cfg.Storage)
	assert.NoError(t, err)

	cs := &countingSink{}
	sim := NewSimulator()
	sim.Cfg = cfg
	sim.Strg = strg
	sim.Snk = cs
	sim.MainCtx = context.Background()

	assert.NoError(t, sim.Init(context.Background()))
	waitDone(t, sim)
	sim.Shutdown()

	assert.Equal(t, 3, cs.turns, "2+1 batteries make 3 turns")
	assert.Equal(t, 1, cs.reports)

	// the final state is persisted
	data, err := strg.ReadData()
	assert.NoError(t, err)
	st := &relay.State{}
	assert.NoError(t, json.Unmarshal(data, st))
	assert.Equal(t, 0, len(st.Robots))
	assert.Equal(t, int64(3), st.Ticks)
}

func TestSimulatorMaxTurns(t *testing.T) {
	fn := writeRoster(t, "name=walle battery=100\n")

	cfg := NewDefaultConfig()
	cfg.RosterFile = fn
	cfg.MaxTurns = 5

	strg, _ := storage.NewStorage(cfg.Storage)
	cs := &countingSink{}
	sim := NewSimulator()
	sim.Cfg = cfg
	sim.Strg = strg
	sim.Snk = cs
	sim.MainCtx = context.Background()

	assert.NoError(t, sim.Init(context.Background()))
	waitDone(t, sim)
	sim.Shutdown()

	assert.Equal(t, 5, cs.turns)
}

func TestConfigCheck(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.NoError(t, cfg.Check())

	cfg.Sink = &sink.Config{Type: "bogus"}
	assert.Error(t, cfg.Check())

	cfg = NewDefaultConfig()
	cfg.Session.Quantum = 0
	assert.Error(t, cfg.Check())
}

func TestConfigApply(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Apply(&Config{RosterFile: "r.lf", MaxTurns: 10})
	assert.Equal(t, "r.lf", cfg.RosterFile)
	assert.Equal(t, 10, cfg.MaxTurns)
	assert.Equal(t, 1, cfg.Session.Quantum)

	cfg.Apply(nil)
	assert.Equal(t, 10, cfg.MaxTurns)
}

func waitDone(t *testing.T, sim *Simulator) {
	select {
	case <-sim.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("the simulation must complete")
	}
}

func writeRoster(t *testing.T, content string) string {
	fn := filepath.Join(t.TempDir(), "roster.lf")
	if err := ioutil.WriteFile(fn, []byte(content), 0640); err != nil {
		t.Fatal("could not write test roster err=", err)
	}
	return fn
}
