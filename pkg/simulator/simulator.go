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
	"time"

	"github.com/jrivets/log4g"
	"github.com/logrange/linker"
	"github.com/pkg/errors"
	"github.com/relayring/relayring/pkg/relay"
	"github.com/relayring/relayring/pkg/relay/sink"
	"github.com/relayring/relayring/pkg/storage"
	"github.com/relayring/relayring/pkg/utils"
)

type (
	// Simulator runs a relay session without the interactive console: it
	// restores the persisted session, adds the roster robots and spins the
	// ring until it is empty, the turns limit is reached or the context is
	// closed. The session state is persisted on shutdown.
	Simulator struct {
		Cfg     *Config         `inject:""`
		Strg    storage.Storage `inject:""`
		Snk     sink.Sink       `inject:""`
		MainCtx context.Context `inject:"mainCtx"`

		logger log4g.Logger
		sess   *relay.Session
		done   chan struct{}
	}
)

// NewSimulator creates the Simulator component, its dependencies are
// injected by the linker
func NewSimulator() *Simulator {
	s := new(Simulator)
	s.logger = log4g.GetLogger("simulator")
	s.done = make(chan struct{})
	return s
}

// Init provides an implementation of linker.Initializer interface
func (s *Simulator) Init(ctx context.Context) error {
	s.sess = relay.NewSession(s.Cfg.Session)

	data, err := s.Strg.ReadData()
	if err == nil && len(data) > 0 {
		st := &relay.State{}
		if err = json.Unmarshal(data, st); err != nil {
			return errors.Wrapf(err, "could not restore the session state. Corrupted?")
		}
		s.sess.ApplyState(st)
		s.logger.Info("Restored session state: ", len(st.Robots), " robot(s)")
	}

	if s.Cfg.RosterFile != "" {
		specs, err := relay.LoadRoster(s.Cfg.RosterFile)
		if err != nil {
			return err
		}
		for _, rs := range specs {
			s.sess.AddRobot(rs.Name, rs.Battery, rs.Drain, rs.Paused)
		}
		s.logger.Info("Added ", len(specs), " robot(s) from the roster ", s.Cfg.RosterFile)
	}

	go s.run()
	return nil
}

// Shutdown provides an implementation of linker.Shutdowner interface
func (s *Simulator) Shutdown() {
	<-s.done
	if err := s.persist(); err != nil {
		s.logger.Error("Could not persist the session state, err=", err)
	}
}

// Done returns the channel which is closed when the simulation completes
func (s *Simulator) Done() <-chan struct{} {
	return s.done
}

func (s *Simulator) run() {
	defer close(s.done)

	delay := time.Duration(s.Cfg.TurnDelayMs) * time.Millisecond
	turns := 0
	for s.MainCtx.Err() == nil {
		if s.Cfg.MaxTurns > 0 && turns >= s.Cfg.MaxTurns {
			s.logger.Info("Made ", turns, " turn(s), stopping")
			break
		}

		tr, ok := s.sess.RunTurn()
		if !ok {
			s.logger.Info("The ring is empty, stopping")
			break
		}
		if err := s.Snk.OnTurn(&tr); err != nil {
			s.logger.Error("Sink failed, err=", err)
			break
		}
		turns++

		if delay > 0 && !utils.Sleep(s.MainCtx, delay) {
			break
		}
	}

	st := s.sess.Stats()
	if err := s.Snk.OnReport(&st); err != nil {
		s.logger.Error("Could not write the report, err=", err)
	}
}

func (s *Simulator) persist() error {
	data, err := json.Marshal(s.sess.State())
	if err != nil {
		return err
	}
	return s.Strg.WriteData(data)
}

// Run executes the headless simulation using the configuration provided. It
// returns as soon as the simulation completes or ctx is closed.
func Run(ctx context.Context, cfg *Config) error {
	if err := cfg.Check(); err != nil {
		return err
	}

	strg, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return err
	}

	snk, err := sink.NewSink(cfg.Sink)
	if err != nil {
		return err
	}
	defer snk.Close()

	log := log4g.GetLogger("simulator")
	log.Info("Start with config:", cfg)

	sim := NewSimulator()
	injector := linker.New()
	injector.SetLogger(log4g.GetLogger("injector"))
	injector.Register(
		linker.Component{Name: "", Value: cfg},
		linker.Component{Name: "mainCtx", Value: ctx},
		linker.Component{Name: "", Value: strg},
		linker.Component{Name: "", Value: snk},
		linker.Component{Name: "", Value: sim},
	)
	injector.Init(ctx)

	select {
	case <-ctx.Done():
	case <-sim.Done():
	}
	injector.Shutdown()

	return nil
}
