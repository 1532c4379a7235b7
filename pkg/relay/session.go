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
	"context"
	"fmt"

	"github.com/jrivets/log4g"
	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
	"github.com/relayring/relayring/pkg/container"
)

type (
	// Session holds the whole state of one relay simulation - the working
	// ring of robots, the two halves managed by Split/Merge and the running
	// counters. All the state the console mutates lives here, there are no
	// process-wide counters.
	Session struct {
		cfg    *Config
		logger log4g.Logger

		ring  container.Ring[Robot]
		half1 container.Ring[Robot]
		half2 container.Ring[Robot]

		nextId int
		score  int64
		ticks  int64
	}

	// TurnResult describes what happened to the head robot during one turn
	TurnResult struct {
		// Robot is the state of the processed robot right after the turn
		Robot Robot
		// Skipped is true when the robot was paused and only rotated over
		Skipped bool
		// Removed is true when the battery got drained to zero or below and
		// the robot left the ring
		Removed bool
		// Before is the battery charge before the turn
		Before int
		// Points earned by this turn
		Points int
	}

	// Stats is a snapshot of the session counters for reporting
	Stats struct {
		Robots     int
		AvgBattery float64
		Ticks      int64
		Score      int64
	}

	// State is the serializable snapshot of a session. Only the working
	// ring is captured, the split halves are transient.
	State struct {
		NextId int
		Score  int64
		Ticks  int64
		Robots []Robot
	}
)

// scoring, see the session operations for when each one applies
const (
	addPoints     = 2
	tickPoints    = 1
	removalPoints = 3
)

var ErrNotFound = fmt.Errorf("no robot with the id requested")

// NewSession creates a new empty session for the config provided
func NewSession(cfg *Config) *Session {
	s := new(Session)
	s.cfg = deepcopy.Copy(cfg).(*Config)
	s.logger = log4g.GetLogger("relay.Session")
	s.nextId = 1
	return s
}

// AddRobot appends a robot to the tail of the working ring and charges
// addPoints to the score. Non-positive drain means "use the quantum".
func (s *Session) AddRobot(name string, battery, drain int, paused bool) Robot {
	if drain <= 0 {
		drain = s.cfg.Quantum
	}
	r := Robot{Id: s.nextId, Name: name, Battery: battery, Drain: drain, Paused: paused}
	s.nextId++
	s.ring.Append(r)
	s.score += addPoints
	s.logger.Debug("Added ", r, ", ring size=", s.ring.Len())
	return r
}

// RunTurn processes the head robot: a paused robot is rotated over, an
// active one loses Drain points of battery and either leaves the ring (the
// battery is drained, removal bonus is charged, the successor becomes the
// new head - no rotation happens) or the ring is rotated to the next robot.
// It returns false if the ring is empty.
func (s *Session) RunTurn() (TurnResult, bool) {
	if s.ring.IsEmpty() {
		return TurnResult{}, false
	}

	s.ticks++
	cur := s.ring.Front()
	if cur.Paused {
		tr := TurnResult{Robot: *cur, Skipped: true, Before: cur.Battery, Points: tickPoints}
		s.ring.Rotate()
		s.score += int64(tr.Points)
		return tr, true
	}

	before := cur.Battery
	cur.Battery -= cur.Drain
	tr := TurnResult{Robot: *cur, Before: before, Points: tickPoints}
	if cur.Battery <= 0 {
		tr.Removed = true
		tr.Points += removalPoints
		s.ring.PopFront()
		s.logger.Debug("Removed ", tr.Robot, ", ring size=", s.ring.Len())
	} else {
		s.ring.Rotate()
	}
	s.score += int64(tr.Points)
	return tr, true
}

// RunTurns runs up to n turns calling onTurn (if provided) after every one.
// It stops early when the ring becomes empty or ctx is closed. Returns the
// number of turns actually made.
func (s *Session) RunTurns(ctx context.Context, n int, onTurn func(tr TurnResult)) int {
	done := 0
	for i := 0; i < n && ctx.Err() == nil; i++ {
		tr, ok := s.RunTurn()
		if !ok {
			break
		}
		if onTurn != nil {
			onTurn(tr)
		}
		done++
	}
	return done
}

// SetPaused finds the robot by id and sets its Paused flag. The lookup
// rotates the ring, so when the robot is found it is left at the head, the
// same way the relay console historically behaved. When there is no such
// robot the ring makes the full circle back to the original head and
// ErrNotFound is returned.
func (s *Session) SetPaused(id int, paused bool) (Robot, error) {
	for i := 0; i < s.ring.Len(); i++ {
		cur := s.ring.Front()
		if cur.Id == id {
			cur.Paused = paused
			s.logger.Debug("SetPaused(", paused, ") for ", *cur)
			return *cur, nil
		}
		s.ring.Rotate()
	}
	return Robot{}, errors.Wrapf(ErrNotFound, "id=%d", id)
}

// Split divides the working ring into the two halves, the first one gets
// ceil(n/2) robots, the second one the rest. The working ring becomes empty
// until Merge is called.
func (s *Session) Split() (first, second *container.Ring[Robot]) {
	s.ring.SplitIntoTwo(&s.half1, &s.half2)
	s.logger.Debug("Split to ", s.half1.Len(), " and ", s.half2.Len(), " robot(s)")
	return &s.half1, &s.half2
}

// Merge splices the second half into the first one and the result back into
// the working ring, restoring the pre-Split sequence
func (s *Session) Merge() *container.Ring[Robot] {
	s.half1.MergeWith(&s.half2)
	s.ring.MergeWith(&s.half1)
	s.logger.Debug("Merged, ring size=", s.ring.Len())
	return &s.ring
}

// Ring returns the working ring
func (s *Session) Ring() *container.Ring[Robot] {
	return &s.ring
}

// Stats collects the report counters over the working ring
func (s *Session) Stats() Stats {
	st := Stats{Robots: s.ring.Len(), Ticks: s.ticks, Score: s.score}
	sum := 0
	s.ring.ForEach(func(r Robot) {
		sum += r.Battery
	})
	if st.Robots > 0 {
		st.AvgBattery = float64(sum) / float64(st.Robots)
	}
	return st
}

// State captures the snapshot of the session for persisting
func (s *Session) State() *State {
	st := &State{NextId: s.nextId, Score: s.score, Ticks: s.ticks}
	st.Robots = make([]Robot, 0, s.ring.Len())
	s.ring.ForEach(func(r Robot) {
		st.Robots = append(st.Robots, r)
	})
	return st
}

// ApplyState replaces the session state by the snapshot provided
func (s *Session) ApplyState(st *State) {
	if st == nil {
		return
	}
	s.ring.Clear()
	s.half1.Clear()
	s.half2.Clear()
	for _, r := range st.Robots {
		s.ring.Append(r)
	}
	s.nextId = st.NextId
	s.score = st.Score
	s.ticks = st.Ticks
}
