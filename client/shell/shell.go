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
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/relayring/relayring/pkg/relay"
	"github.com/relayring/relayring/pkg/utils"
)

type (
	shell struct {
		sess  *relay.Session
		hfile string
	}
)

const (
	shellHistoryFileName = ".rr_history"
)

// Run starts the interactive console over the session provided. It returns
// when the user quits.
func Run(sess *relay.Session) error {
	printLogo()
	newShell(sess, historyFilePath()).run()
	return nil
}

func historyFilePath() string {
	var fileDir = os.TempDir()
	usr, err := user.Current()
	if err == nil {
		fileDir = usr.HomeDir
	}
	return filepath.Join(fileDir, shellHistoryFileName)
}

func printLogo() {
	fmt.Print("" +
		"          _                    _             \n" +
		" _ _ ___ | | __ _  _  _  _ _  (_) _ _   __ _ \n" +
		"| '_/ -_)| |/ _` || || || '_| | || ' \\ / _` |\n" +
		"|_| \\___||_|\\__,_| \\_, ||_|   |_||_||_|\\__, |\n" +
		"                   |__/                |___/ \n\n")
}

func printError(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
}

//===================== shell =====================

func newShell(sess *relay.Session, hFile string) *shell {
	s := new(shell)
	s.sess = sess
	s.hfile = hFile
	return s
}

func (s *shell) run() {
	lnr := liner.NewLiner()
	lnr.SetCtrlCAborts(true)

	s.loadHistory(lnr)
	beforeQuit := func() {
		s.saveHistory(lnr)
		_ = lnr.Close()
		fmt.Println("bye!")
	}

	defer beforeQuit()
	cfg := &config{
		sess:       s.sess,
		beforeQuit: beforeQuit,
	}

	for {
		inp, err := lnr.Prompt("rr>")
		if err != nil {
			printError(err)
			if err == io.EOF || err == liner.ErrPromptAborted {
				break
			}
		}

		inp = strings.TrimSpace(inp)
		if inp == "" {
			continue
		}

		lnr.AppendHistory(inp)
		ctx, cancel := context.WithCancel(context.Background())
		utils.NewNotifierOnIntTermSignal(func(s os.Signal) {
			cancel()
		})

		err = execCmd(ctx, inp, cfg)
		if err != nil {
			printError(err)
		}
		cancel()
	}
}

func (s *shell) loadHistory(lnr *liner.State) {
	f, err := os.OpenFile(s.hfile, os.O_RDONLY|os.O_CREATE, 0640)
	if err != nil {
		printError(err)
		return
	}
	_, err = lnr.ReadHistory(f)
	if err != nil {
		printError(err)
	}
	_ = f.Close()
}

func (s *shell) saveHistory(lnr *liner.State) {
	f, err := os.OpenFile(s.hfile, os.O_WRONLY|os.O_CREATE, 0640)
	if err != nil {
		printError(err)
		return
	}
	_, err = lnr.WriteHistory(f)
	if err != nil {
		printError(err)
	}
	_ = f.Close()
}
