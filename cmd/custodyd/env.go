package main

import (
	"os"
	"path/filepath"

	"github.com/iov-one/custody/cmd/custodyd/app"
	"github.com/iov-one/custody/errors"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// defaultHome is the vault directory used when -home is not given.
func defaultHome() string {
	return env("CUSTODY_HOME", filepath.Join(os.Getenv("HOME"), ".custody"))
}

const (
	configFile = "config.toml"
	// genesisFile is written by the init command into the home directory.
	genesisFile = "genesis.json"
)

// config holds the daemon settings. Values are read from the config.toml
// file in the home directory and can be overwritten by CUSTODY_ prefixed
// environment variables, for example CUSTODY_LOG_LEVEL.
type config struct {
	LogLevel string
	DBName   string
}

func loadConfig(home string) (*config, error) {
	v := viper.New()
	v.SetDefault("log_level", "error")
	v.SetDefault("db_name", "custody")
	v.SetEnvPrefix("custody")
	v.AutomaticEnv()

	path := filepath.Join(home, configFile)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "cannot read %s: %s", path, err)
		}
	}

	conf := config{
		LogLevel: v.GetString("log_level"),
		DBName:   v.GetString("db_name"),
	}
	if conf.DBName == "" {
		return nil, errors.Wrap(errors.ErrInput, "empty database name")
	}
	return &conf, nil
}

// openVault loads the vault stored in the home directory. The returned
// function must be called to release the database.
func openVault(home string) (*app.Custody, func(), error) {
	conf, err := loadConfig(home)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(conf.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	store, err := app.CommitKVStore(filepath.Join(home, conf.DBName))
	if err != nil {
		return nil, nil, err
	}
	c, err := app.New(store, logger)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return c, store.Close, nil
}

func newLogger(level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stderr)), opt), nil
}
