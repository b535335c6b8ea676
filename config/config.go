// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package config loads the ledger settings applied at first start.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/yokaihunt/custody/builtin/staking"
	"github.com/yokaihunt/custody/economy"
	"github.com/yokaihunt/custody/runtime"
	"github.com/yokaihunt/custody/yokai"
)

type YieldRates struct {
	Stage1    uint16 `yaml:"stage1"`
	Stage2    uint16 `yaml:"stage2"`
	Legendary uint16 `yaml:"legendary"`
}

// Config is the yaml settings file.
type Config struct {
	Admin              string     `yaml:"admin"`
	FeeRecipient       string     `yaml:"feeRecipient"`
	EvolutionAdmin     string     `yaml:"evolutionAdmin"` // defaults to admin
	PlatformFeePercent uint64     `yaml:"platformFeePercent"`
	RewardTokenID      uint64     `yaml:"rewardTokenID"`
	YieldRates         YieldRates `yaml:"yieldRates"`
}

// Default returns the launch settings without principals.
func Default() *Config {
	rates := staking.DefaultYieldRates()
	return &Config{
		PlatformFeePercent: yokai.DefaultPlatformFeePercent,
		YieldRates: YieldRates{
			Stage1:    rates.Stage1,
			Stage2:    rates.Stage2,
			Legendary: rates.Legendary,
		},
	}
}

// Load reads the file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parsePrincipal(name, value string) (yokai.Address, error) {
	if value == "" {
		return yokai.Address{}, errors.Errorf("%s is required", name)
	}
	addr, err := yokai.ParseAddress(value)
	if err != nil {
		return yokai.Address{}, errors.Wrapf(err, "%s", name)
	}
	if addr.IsZero() {
		return yokai.Address{}, errors.Errorf("%s must not be the zero address", name)
	}
	return addr, nil
}

// Validate checks the fee cap and the principals.
func (c *Config) Validate() error {
	if err := economy.CheckFeePercent(c.PlatformFeePercent); err != nil {
		return errors.Wrap(err, "platformFeePercent")
	}
	if _, err := parsePrincipal("admin", c.Admin); err != nil {
		return err
	}
	if _, err := parsePrincipal("feeRecipient", c.FeeRecipient); err != nil {
		return err
	}
	if c.EvolutionAdmin != "" {
		if _, err := parsePrincipal("evolutionAdmin", c.EvolutionAdmin); err != nil {
			return err
		}
	}
	return nil
}

// Genesis converts the settings into the runtime genesis.
func (c *Config) Genesis() (*runtime.Genesis, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	g := &runtime.Genesis{
		FeePercent:  c.PlatformFeePercent,
		RewardToken: c.RewardTokenID,
		YieldRates: staking.YieldRates{
			Stage1:    c.YieldRates.Stage1,
			Stage2:    c.YieldRates.Stage2,
			Legendary: c.YieldRates.Legendary,
		},
	}
	g.Admin, _ = parsePrincipal("admin", c.Admin)
	g.FeeRecipient, _ = parsePrincipal("feeRecipient", c.FeeRecipient)
	if c.EvolutionAdmin != "" {
		g.EvolutionAdmin, _ = parsePrincipal("evolutionAdmin", c.EvolutionAdmin)
	}
	return g, nil
}
