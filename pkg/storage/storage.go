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

package storage

import (
	"fmt"
	"io/ioutil"
	"path"

	"github.com/jrivets/log4g"
	"github.com/logrange/range/pkg/utils/fileutil"
	"github.com/pkg/errors"
)

type (
	// Storage interface allows to read and write serialized session state
	Storage interface {
		ReadData() ([]byte, error)
		WriteData(buf []byte) error
	}

	// inmemStorage struct an in-mem Storage implementation, the state is
	// kept for the process lifetime only
	inmemStorage struct {
		buf    []byte
		logger log4g.Logger
	}

	// fileStorage struct a file Storage implementation
	fileStorage struct {
		fileName string
		logger   log4g.Logger
	}
)

// stateFileName is the name of the file the session state is kept in, the
// storage Location is a directory
const stateFileName = "session.json"

//===================== storage =====================

func NewStorage(cfg *Config) (Storage, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case TypeFile:
		return newFileStorage(cfg.Location)
	case TypeInMem:
		return newInMemStorage(), nil
	}

	return nil, fmt.Errorf("unknown storage type=%v", cfg.Type)
}

//===================== inmemStorage =====================

func newInMemStorage() Storage {
	logger := log4g.GetLogger("relay.storage").WithId("[inmem]").(log4g.Logger)
	return &inmemStorage{logger: logger}
}

func (ms *inmemStorage) ReadData() ([]byte, error) {
	res := make([]byte, len(ms.buf))
	copy(res, ms.buf)
	return res, nil
}

func (ms *inmemStorage) WriteData(buf []byte) error {
	ms.buf = make([]byte, len(buf))
	copy(ms.buf, buf)
	ms.logger.Debug("Wrote ", len(buf), " bytes")
	return nil
}

func (ms *inmemStorage) String() string {
	return "[inmem]"
}

//===================== fileStorage =====================

func newFileStorage(dir string) (Storage, error) {
	if err := fileutil.EnsureDirExists(dir); err != nil {
		return nil, errors.Wrapf(err, "could not create the storage dir %s", dir)
	}

	logger := log4g.GetLogger("relay.storage").WithId("[file]").(log4g.Logger)
	return &fileStorage{fileName: path.Join(dir, stateFileName), logger: logger}, nil
}

func (fs *fileStorage) ReadData() ([]byte, error) {
	data, err := ioutil.ReadFile(fs.fileName)
	if err == nil {
		fs.logger.Debug("Read ", len(data), " bytes from ", fs.fileName)
	}
	return data, err
}

func (fs *fileStorage) WriteData(buf []byte) error {
	err := ioutil.WriteFile(fs.fileName, buf, 0640)
	if err == nil {
		fs.logger.Debug("Wrote ", len(buf), " bytes to ", fs.fileName)
	}
	return err
}

func (fs *fileStorage) String() string {
	return fmt.Sprintf("[file: %s]", fs.fileName)
}
