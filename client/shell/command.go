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

package shell

import (
	"context"
	"fmt"
	"os"

	"github.com/relayring/relayring/pkg/rcl"
	"github.com/relayring/relayring/pkg/relay"
	"github.com/relayring/relayring/pkg/relay/sink"
)

type (
	config struct {
		sess       *relay.Session
		beforeQuit func()
	}
)

var helpLines = []struct {
	cmd  string
	help string
}{
	{"add <name> <battery> [drain <d>] [paused]", "add a robot to the ring"},
	{"run [<n>]", "run 1 or n relay turns"},
	{"pause <id>", "pause the robot, it will be skipped"},
	{"resume <id>", "resume the paused robot"},
	{"show | display", "display the ring"},
	{"split", "split the ring into two halves"},
	{"merge", "merge the halves back into the ring"},
	{"stats", "print the session report"},
	{"load <file>", "add robots from a roster file"},
	{"help", "show this help"},
	{"quit | exit", "exit the program"},
}

func execCmd(ctx context.Context, input string, cfg *config) error {
	cmd, err := rcl.Parse(input)
	if err != nil {
		return fmt.Errorf("invalid command %q; %v (type 'help' for the commands list)", input, err)
	}

	switch {
	case cmd.Add != nil:
		return addFn(cmd.Add, cfg)
	case cmd.Run != nil:
		return runFn(ctx, cmd.Run, cfg)
	case cmd.Pause != nil:
		return pauseFn(cmd.Pause.Id, true, cfg)
	case cmd.Resume != nil:
		return pauseFn(cmd.Resume.Id, false, cfg)
	case cmd.Load != nil:
		return loadFn(cmd.Load, cfg)
	case cmd.Show:
		fmt.Println(cfg.sess.Ring())
	case cmd.Split:
		return splitFn(cfg)
	case cmd.Merge:
		return mergeFn(cfg)
	case cmd.Stats:
		fmt.Print(sink.FormatReport(statsPtr(cfg.sess)))
	case cmd.Help:
		helpFn()
	case cmd.Quit:
		cfg.beforeQuit()
		os.Exit(0)
	}
	return nil
}

//===================== add =====================

func addFn(c *rcl.AddCmd, cfg *config) error {
	drain := 0
	if c.Drain != nil {
		drain = *c.Drain
	}
	r := cfg.sess.AddRobot(c.Name, c.Battery, drain, c.Paused)
	fmt.Println("Added: ", r)
	return nil
}

//===================== run =====================

func runFn(ctx context.Context, c *rcl.RunCmd, cfg *config) error {
	turns := 1
	if c.Turns != nil {
		turns = *c.Turns
	}

	done := cfg.sess.RunTurns(ctx, turns, func(tr relay.TurnResult) {
		fmt.Print(sink.FormatTurn(&tr))
	})
	if done == 0 {
		fmt.Println("No robots.")
	}
	return nil
}

//===================== pause/resume =====================

func pauseFn(id int, paused bool, cfg *config) error {
	r, err := cfg.sess.SetPaused(id, paused)
	if err != nil {
		return err
	}
	if paused {
		fmt.Println("Paused: ", r)
	} else {
		fmt.Println("Resumed: ", r)
	}
	return nil
}

//===================== load =====================

func loadFn(c *rcl.LoadCmd, cfg *config) error {
	specs, err := relay.LoadRoster(c.Path)
	if err != nil {
		return err
	}
	for _, rs := range specs {
		cfg.sess.AddRobot(rs.Name, rs.Battery, rs.Drain, rs.Paused)
	}
	fmt.Println("Loaded ", len(specs), " robot(s) from ", c.Path)
	return nil
}

//===================== split/merge =====================

func splitFn(cfg *config) error {
	a, b := cfg.sess.Split()
	fmt.Println("Ring A:")
	fmt.Println(a)
	fmt.Println("Ring B:")
	fmt.Println(b)
	return nil
}

func mergeFn(cfg *config) error {
	r := cfg.sess.Merge()
	fmt.Println("Merged. Current ring:")
	fmt.Println(r)
	return nil
}

//===================== help =====================

func helpFn() {
	fmt.Printf("\n\t%-10s\n", "[HELP]")
	for _, h := range helpLines {
		fmt.Printf("\n\t%-45s %s", h.cmd, h.help)
	}
	fmt.Print("\n\n")
}

func statsPtr(sess *relay.Session) *relay.Stats {
	st := sess.Stats()
	return &st
}
