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
)

// Robot is one relay participant. Robots are stored in the working ring by
// value, the head robot is mutated in place via the ring's Front()
type Robot struct {
	// Id is the robot identifier, unique within one session
	Id int
	// Name is the robot display name
	Name string
	// Battery is the remaining battery charge
	Battery int
	// Drain is the per-turn battery decrement (the quantum)
	Drain int
	// Paused robots are skipped by the relay, they keep their battery
	Paused bool
}

func (r Robot) String() string {
	return fmt.Sprintf("Robot(%s, Battery=%d)", r.Name, r.Battery)
}
