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
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/kr/logfmt"
	"github.com/pkg/errors"
)

type (
	// RobotSpec is one roster record - a robot to be added to a session
	RobotSpec struct {
		Name    string
		Battery int
		Drain   int
		Paused  bool
	}

	// rosterLine implements logfmt.Handler collecting the line key-values
	rosterLine map[string]string
)

func (rl rosterLine) HandleLogfmt(key, val []byte) error {
	rl[string(key)] = string(val)
	return nil
}

// LoadRoster reads a roster file - one robot per line in logfmt form:
//
//	name=walle battery=12 drain=2 paused=true
//
// name and battery are mandatory. Empty lines and lines starting with # are
// skipped.
func LoadRoster(path string) ([]RobotSpec, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read roster file %s", path)
	}

	var res []RobotSpec
	for i, ln := range strings.Split(string(data), "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}

		rl := rosterLine{}
		if err := logfmt.Unmarshal([]byte(ln), rl); err != nil {
			return nil, errors.Wrapf(err, "could not parse roster line %d", i+1)
		}

		rs, err := rl.toSpec()
		if err != nil {
			return nil, errors.Wrapf(err, "invalid roster line %d", i+1)
		}
		res = append(res, rs)
	}
	return res, nil
}

func (rl rosterLine) toSpec() (RobotSpec, error) {
	var (
		rs  RobotSpec
		err error
	)

	rs.Name = rl["name"]
	if rs.Name == "" {
		return rs, fmt.Errorf("name must not be empty")
	}

	rs.Battery, err = strconv.Atoi(rl["battery"])
	if err != nil {
		return rs, fmt.Errorf("invalid battery=%q", rl["battery"])
	}

	if d, ok := rl["drain"]; ok {
		rs.Drain, err = strconv.Atoi(d)
		if err != nil {
			return rs, fmt.Errorf("invalid drain=%q", d)
		}
	}

	if p, ok := rl["paused"]; ok {
		rs.Paused, err = strconv.ParseBool(p)
		if err != nil {
			return rs, fmt.Errorf("invalid paused=%q", p)
		}
	}
	return rs, nil
}
