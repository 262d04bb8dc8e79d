// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/saffron-finance/sfi-farm/eventdb"
	"github.com/saffron-finance/sfi-farm/genesis"
	"github.com/saffron-finance/sfi-farm/log"
	"github.com/saffron-finance/sfi-farm/lvldb"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	level := new(slog.LevelVar)
	level.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	handler := log.StreamHandler(os.Stderr, level, ctx.Bool(jsonLogsFlag.Name))
	log.SetDefault(log.NewLogger(handler))
	return level
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	cfg, err := genesis.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load genesis file [%v]", path)
	}
	return genesis.New(cfg)
}

func makeDataDir(ctx *cli.Context, gene *genesis.Genesis) (string, error) {
	mainDir := ctx.String(dataDirFlag.Name)
	if mainDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify one", dataDirFlag.Name)
	}

	dataDir := filepath.Join(mainDir, "instance-"+gene.Name())
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir at [%v]", dataDir)
	}
	return dataDir, nil
}

func openChainDB(dataDir string) (*lvldb.LevelDB, error) {
	if dataDir == "" {
		return lvldb.NewMem()
	}
	dir := filepath.Join(dataDir, "chain.db")
	db, err := lvldb.New(dir, lvldb.Options{CacheSize: 128, OpenFilesCacheCapacity: 64})
	if err != nil {
		return nil, errors.Wrapf(err, "open chain database at [%v]", dir)
	}
	return db, nil
}

func openEventDB(dataDir string) (*eventdb.EventDB, error) {
	if dataDir == "" {
		return eventdb.NewMem()
	}
	dir := filepath.Join(dataDir, "events.db")
	db, err := eventdb.New(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open event database at [%v]", dir)
	}
	return db, nil
}

func defaultDataDir() string {
	home := homeDir()
	if home == "" {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "org.saffron.farm")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "org.saffron.farm")
	default:
		return filepath.Join(home, ".org.saffron.farm")
	}
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
