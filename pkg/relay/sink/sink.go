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

package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/relayring/relayring/pkg/relay"
	"github.com/relayring/relayring/pkg/utils"
)

type (
	Config struct {
		Type   string
		Params map[string]interface{}
	}

	// Sink receives per-turn results and the final report of a relay run
	Sink interface {
		OnTurn(tr *relay.TurnResult) error
		OnReport(st *relay.Stats) error
		Close() error
	}

	stdoutSink struct {
		w io.Writer
	}

	fileSinkConfig struct {
		Path   string
		Append bool
	}

	fileSink struct {
		f *os.File
	}
)

const (
	SnkTypeStdout = "stdout"
	SnkTypeFile   = "file"
)

const PrmFilePath = "Path"

func NewSink(cfg *Config) (Sink, error) {
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("invalid config; %v", err)
	}

	switch cfg.Type {
	case SnkTypeStdout:
		return newStdoutSink(os.Stdout), nil
	case SnkTypeFile:
		return newFileSink(cfg)
	}

	return nil, fmt.Errorf("unknown sink type=%v", cfg.Type)
}

// FormatTurn renders one turn result the way the interactive console
// prints it
func FormatTurn(tr *relay.TurnResult) string {
	if tr.Skipped {
		return fmt.Sprintf("Skipped (paused): %s\n", tr.Robot)
	}
	res := fmt.Sprintf("Tick: %s battery %d -> %d\n", tr.Robot.Name, tr.Before, tr.Robot.Battery)
	if tr.Removed {
		res += fmt.Sprintf("Removed: %s (returned to dock)\n", tr.Robot)
	}
	return res
}

// FormatReport renders the final stats report
func FormatReport(st *relay.Stats) string {
	return fmt.Sprintf("Robots: %d\nAvg battery: %s\nTicks: %s\nScore: %s\n",
		st.Robots,
		humanize.FtoaWithDigits(st.AvgBattery, 2),
		humanize.Comma(st.Ticks),
		humanize.Comma(st.Score))
}

//===================== stdoutSink =====================

func newStdoutSink(w io.Writer) Sink {
	return &stdoutSink{w: w}
}

func (ss *stdoutSink) OnTurn(tr *relay.TurnResult) error {
	_, err := fmt.Fprint(ss.w, FormatTurn(tr))
	return err
}

func (ss *stdoutSink) OnReport(st *relay.Stats) error {
	_, err := fmt.Fprint(ss.w, FormatReport(st))
	return err
}

func (ss *stdoutSink) Close() error {
	return nil
}

//===================== fileSink =====================

func newFileSink(cfg *Config) (Sink, error) {
	fcfg := &fileSinkConfig{}
	if err := mapstructure.Decode(cfg.Params, fcfg); err != nil {
		return nil, errors.Wrapf(err, "could not decode file sink Params=%v", cfg.Params)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if fcfg.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(fcfg.Path, flags, 0640)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open sink file %s", fcfg.Path)
	}
	return &fileSink{f: f}, nil
}

func (fs *fileSink) OnTurn(tr *relay.TurnResult) error {
	_, err := fs.f.WriteString(FormatTurn(tr))
	return err
}

func (fs *fileSink) OnReport(st *relay.Stats) error {
	_, err := fs.f.WriteString(FormatReport(st))
	return err
}

func (fs *fileSink) Close() error {
	if fs.f != nil {
		return fs.f.Close()
	}
	return nil
}

//===================== config =====================

func (c *Config) Check() error {
	if c.Type != SnkTypeStdout && c.Type != SnkTypeFile {
		return fmt.Errorf("unknown Type=%v", c.Type)
	}

	if c.Type == SnkTypeFile {
		if err := c.checkParamExists(PrmFilePath); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) checkParamExists(pName string) error {
	if c.Params != nil {
		if _, ok := c.Params[pName]; ok {
			return nil
		}
	}
	return fmt.Errorf("invalid Params=%v, must have param '%v'", c.Params, pName)
}

func (c *Config) String() string {
	return utils.ToJsonStr(c)
}
