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

package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
)

// PidFile guards a single running simulation per storage directory. The
// file keeps the pid of the running process and is exclusively locked
// while the process is alive.
type PidFile struct {
	fn string
	fl *flock.Flock
}

func NewPidFile(fn string) *PidFile {
	return &PidFile{fn: fn}
}

// Lock acquires the pid file exclusively and stores the current process
// pid there. Returns false if another process holds the file.
func (pf *PidFile) Lock() bool {
	if pf.fl != nil {
		panic("Lock() must not be called twice")
	}

	fl := flock.New(pf.fn)
	if locked, err := fl.TryLock(); !locked || err != nil {
		fmt.Println("Error: could not acquire the lock for ", pf.fn)
		return false
	}

	err := ioutil.WriteFile(pf.fn, []byte(strconv.Itoa(os.Getpid())), 0640)
	if err != nil {
		fmt.Println("Error: could not write pid to ", pf.fn, ", err=", err)
		fl.Unlock()
		return false
	}

	pf.fl = fl
	return true
}

// Unlock removes the pid file and releases the lock taken by Lock.
func (pf *PidFile) Unlock() {
	if pf.fl == nil {
		panic("Unlock() without Lock()")
	}
	os.Remove(pf.fn)
	pf.fl.Unlock()
	pf.fl = nil
}

// ReadPid returns the pid stored in the file, or -1 if the file does
// not exist.
func (pf *PidFile) ReadPid() (int, error) {
	data, err := ioutil.ReadFile(pf.fn)
	if err != nil {
		return -1, nil
	}

	content := string(data)
	if len(content) > 10 {
		return -1, fmt.Errorf("unexpected content of %s", pf.fn)
	}

	pid, err := strconv.Atoi(content)
	if err != nil {
		return -1, fmt.Errorf("could not parse content=%q of the file %s", content, pf.fn)
	}
	return pid, nil
}

// Interrupt sends os.Interrupt to the process whose pid is stored in
// the file.
func (pf *PidFile) Interrupt() error {
	pid, err := pf.ReadPid()
	if err != nil {
		return err
	}

	if pid == -1 {
		return fmt.Errorf("not running")
	}

	p, err := os.FindProcess(pid)
	if err != nil {
		fmt.Printf("Error: found pid=%d, but could not access the process\n", pid)
		return err
	}

	if err = p.Signal(os.Interrupt); err != nil {
		fmt.Printf("Error: could not signal pid=%d\n", pid)
		return err
	}
	fmt.Println("Sending interrupt notification to process pid=", pid)
	return nil
}

// RemoveArgsWithName returns a copy of args without the elements that
// contain the word name
func RemoveArgsWithName(args []string, name string) []string {
	name = strings.ToLower(name)
	if len(name) == 0 {
		return args
	}

	res := make([]string, 0, len(args))
	for _, a := range args {
		if strings.Contains(strings.ToLower(a), name) {
			continue
		}
		res = append(res, a)
	}
	return res
}

// RunCommand starts the command c detached from the current console
func RunCommand(c string, params ...string) error {
	fmt.Printf("Starting command %s with params %v ... \n", c, params)
	cmd := exec.Command(c, params...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("could not run command %s with params=%v error=%s", c, params, err)
	}

	sigChan := make(chan os.Signal, 1)
	defer signal.Stop(sigChan)

	signal.Notify(sigChan, syscall.SIGCHLD)
	var err error
	select {
	case <-sigChan:
		err = fmt.Errorf("the process exited right after the start")
	case <-time.After(time.Second):
		fmt.Printf("Started. pid=%d\n", cmd.Process.Pid)
	}

	return err
}
