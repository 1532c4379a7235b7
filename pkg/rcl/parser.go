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

// Package rcl contains the parser for RCL (Relay Command Language) - the
// language of the rr interactive console. One input line is one command:
//
//	add <name> <battery> [drain <d>] [paused]
//	run [<n>]
//	pause <id> | resume <id>
//	show | display
//	split | merge | stats
//	load <roster file>
//	help | quit | exit
//
// Keywords are case-insensitive.
package rcl

import (
	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"
)

var (
	rclLexer = lexer.Must(getRegexpDefinition(`(\s+)` +
		`|(?P<Keyword>(?i)ADD|RUN|PAUSE|RESUME|SHOW|DISPLAY|SPLIT|MERGE|STATS|LOAD|HELP|QUIT|EXIT|DRAIN|PAUSED)` +
		`|(?P<String>"([^\\"]|\\.)*"|'([^\\']|\\.)*')` +
		`|(?P<Number>\d+)` +
		`|(?P<Ident>[a-zA-Z_][a-zA-Z0-9_\-]*)` +
		`|(?P<Path>[a-zA-Z0-9_\-\\/~\.]+)`,
	))

	parser = participle.MustBuild(
		&Command{},
		participle.Lexer(rclLexer),
		participle.Unquote("String"),
		participle.CaseInsensitive("Keyword"),
	)
)

type (
	// Command is the root of the RCL grammar. Exactly one of the fields is
	// set after a successful parse.
	Command struct {
		Add    *AddCmd    `parser:"  \"ADD\" @@"`
		Run    *RunCmd    `parser:"| \"RUN\" @@"`
		Pause  *PauseCmd  `parser:"| \"PAUSE\" @@"`
		Resume *ResumeCmd `parser:"| \"RESUME\" @@"`
		Load   *LoadCmd   `parser:"| \"LOAD\" @@"`
		Show   bool       `parser:"| @(\"SHOW\"|\"DISPLAY\")"`
		Split  bool       `parser:"| @\"SPLIT\""`
		Merge  bool       `parser:"| @\"MERGE\""`
		Stats  bool       `parser:"| @\"STATS\""`
		Help   bool       `parser:"| @\"HELP\""`
		Quit   bool       `parser:"| @(\"QUIT\"|\"EXIT\")"`
	}

	AddCmd struct {
		Name    string `parser:"(@Ident|@String)"`
		Battery int    `parser:"@Number"`
		Drain   *int   `parser:"(\"DRAIN\" @Number)?"`
		Paused  bool   `parser:"(@\"PAUSED\")?"`
	}

	RunCmd struct {
		Turns *int `parser:"(@Number)?"`
	}

	PauseCmd struct {
		Id int `parser:"@Number"`
	}

	ResumeCmd struct {
		Id int `parser:"@Number"`
	}

	LoadCmd struct {
		Path string `parser:"(@String|@Path|@Ident)"`
	}
)

// Parse parses one console input line to the Command structure
func Parse(input string) (*Command, error) {
	c := &Command{}
	err := parser.ParseString(input, c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
