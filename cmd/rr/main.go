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

package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/jrivets/log4g"
	"github.com/logrange/range/pkg/utils/fileutil"
	"github.com/relayring/relayring"
	"github.com/relayring/relayring/client/shell"
	"github.com/relayring/relayring/cmd"
	"github.com/relayring/relayring/pkg/relay"
	"github.com/relayring/relayring/pkg/simulator"
	"github.com/relayring/relayring/pkg/storage"
	"github.com/relayring/relayring/pkg/utils"
	ucli "gopkg.in/urfave/cli.v2"
)

const (
	argCfgFile       = "config-file"
	argLogCfgFile    = "log-config-file"
	argStorageDir    = "storage-dir"
	argRosterFile    = "roster"
	argMaxTurns      = "turns"
	argQuantum       = "quantum"
	argStartAsDaemon = "daemon"
)

var (
	logger = log4g.GetLogger("rr")
)

// main is the entry point for the 'rr' command. The rr groups the relayring
// functionality in one executable:
// 		shell    - is an interactive console for managing the relay ring
//		simulate - runs the relay session headless until the ring drains
func main() {
	defer log4g.Shutdown()

	cmnFlags := []ucli.Flag{
		&ucli.StringFlag{
			Name:  argCfgFile,
			Usage: "configuration file path",
		},
		&ucli.StringFlag{
			Name:  argLogCfgFile,
			Usage: "log4g configuration file path",
		},
		&ucli.StringFlag{
			Name:  argStorageDir,
			Usage: "directory where the session state is persisted",
		},
	}

	simulateFlags := []ucli.Flag{
		&ucli.StringFlag{
			Name:  argRosterFile,
			Usage: "roster file with robots to be added on start",
		},
		&ucli.IntFlag{
			Name:  argMaxTurns,
			Usage: "stop after the number of turns, 0 means run until the ring is empty",
		},
		&ucli.IntFlag{
			Name:  argQuantum,
			Usage: "default battery drain per turn",
		},
		&ucli.BoolFlag{
			Name:  argStartAsDaemon,
			Usage: "starting as a daemon (detached from the console).",
		},
	}
	simulateFlags = append(simulateFlags, cmnFlags...)

	app := &ucli.App{
		Name:    "rr",
		Version: relayring.Version,
		Usage:   "Robot relay ring",
		Commands: []*ucli.Command{
			{
				Name:      "shell",
				Usage:     "Run the interactive console",
				UsageText: "rr shell [command options]",
				Action:    runShell,
				Flags: []ucli.Flag{cmnFlags[0],
					&ucli.StringFlag{
						Name:  argRosterFile,
						Usage: "roster file with robots to be added on start",
					},
					&ucli.IntFlag{
						Name:  argQuantum,
						Usage: "default battery drain per turn",
					},
				},
			},
			{
				Name:      "simulate",
				Usage:     "Run the relay simulation headless",
				UsageText: "rr simulate [command options]",
				Action:    runSimulate,
				Flags:     simulateFlags,
			},
			{
				Name:      "stop-simulate",
				Usage:     "Stop the running simulation",
				UsageText: "rr stop-simulate [command options]",
				Action:    stopSimulate,
				Flags:     []ucli.Flag{cmnFlags[0], cmnFlags[2]},
			},
		},
	}

	sort.Sort(ucli.FlagsByName(app.Flags))
	for _, c := range app.Commands {
		sort.Sort(ucli.FlagsByName(c.Flags))
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println(err)
	}
}

func initCfg(c *ucli.Context) (*simulator.Config, error) {
	var (
		err error
		cfg = simulator.NewDefaultConfig()
	)

	logCfgFile := c.String(argLogCfgFile)
	if logCfgFile != "" {
		err = log4g.ConfigF(logCfgFile)
		if err != nil {
			return nil, err
		}
	}

	cfgFile := c.String(argCfgFile)
	if cfgFile != "" {
		logger.Info("Loading config from=", cfgFile)
		config, err := simulator.LoadCfgFromFile(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg.Apply(config)
	}

	applyArgsToCfg(c, cfg)
	return cfg, nil
}

func applyArgsToCfg(c *ucli.Context, cfg *simulator.Config) {
	if sd := c.String(argStorageDir); sd != "" {
		fmt.Println("storage location overwritten to ", sd)
		cfg.Storage.Type = storage.TypeFile
		cfg.Storage.Location = sd
	}

	if rf := c.String(argRosterFile); rf != "" {
		cfg.RosterFile = rf
	}

	if mt := c.Int(argMaxTurns); mt > 0 {
		cfg.MaxTurns = mt
	}

	if q := c.Int(argQuantum); q > 0 {
		cfg.Session.Quantum = q
	}
}

// pidFileName returns the name of the file where the simulation pid is
// stored, or "" for the in-mem storage
func pidFileName(cfg *simulator.Config) string {
	if cfg.Storage.Type == storage.TypeInMem {
		return ""
	}
	err := fileutil.EnsureDirExists(cfg.Storage.Location)
	if err != nil {
		fmt.Println("Error: the folder ", cfg.Storage.Location, " could not be created err=", err)
		return ""
	}
	return path.Join(cfg.Storage.Location, "simulate.pid")
}

func newCtx() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	utils.NewNotifierOnIntTermSignal(func(s os.Signal) {
		logger.Warn("Handling signal=", s)
		cancel()
	})
	return ctx
}

func runSimulate(c *ucli.Context) error {
	cfg, err := initCfg(c)
	if err != nil {
		return err
	}

	if c.Args().Len() > 0 {
		return fmt.Errorf("no arguments expected, but %s", c.Args())
	}

	pfn := pidFileName(cfg)
	if c.Bool(argStartAsDaemon) {
		if pfn == "" {
			fmt.Println("Warning: starting as daemon with in-mem storage. There will be no way to stop it via rr command.")
		}
		res := cmd.RemoveArgsWithName(os.Args[1:], argStartAsDaemon)
		return cmd.RunCommand(os.Args[0], res...)
	}

	if pfn != "" {
		pf := cmd.NewPidFile(pfn)
		if !pf.Lock() {
			return fmt.Errorf("already running")
		}
		defer pf.Unlock()
	}

	return simulator.Run(newCtx(), cfg)
}

func stopSimulate(c *ucli.Context) error {
	cfg, err := initCfg(c)
	if err != nil {
		return err
	}

	if c.Args().Len() > 0 {
		return fmt.Errorf("no arguments expected, but %s", c.Args())
	}

	pfn := pidFileName(cfg)
	if pfn == "" {
		return fmt.Errorf("could not determine the simulation pid, the configuration doesn't have permanent storage, in-mem only")
	}

	pf := cmd.NewPidFile(pfn)
	return pf.Interrupt()
}

func runShell(c *ucli.Context) error {
	log4g.SetLogLevel("", log4g.FATAL)
	cfg, err := initCfg(c)
	if err != nil {
		return err
	}

	if c.Args().Len() > 0 {
		return fmt.Errorf("no arguments expected, but %s", c.Args())
	}

	sess := relay.NewSession(cfg.Session)
	if cfg.RosterFile != "" {
		specs, err := relay.LoadRoster(cfg.RosterFile)
		if err != nil {
			return err
		}
		for _, rs := range specs {
			sess.AddRobot(rs.Name, rs.Battery, rs.Drain, rs.Paused)
		}
	}

	return shell.Run(sess)
}
