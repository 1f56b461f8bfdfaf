package gconf

import (
	"encoding/json"
	"fmt"
	"os"
)

const configFile = "chessdesk.json"

type Config struct {
	Theme        string `json:"theme"`         // light/dark
	PieceStyle   string `json:"piece_style"`   // classic/minimal
	UCIPath      string `json:"uci_path"`      // path to external engine binary
	EngineLevel  int    `json:"engine_level"`  // 1..10, 0 = full strength
	EngineElo    int    `json:"engine_elo"`    // 0 = off, else UCI_Elo target
	ClockMinutes int    `json:"clock_minutes"` // initial time per side
	ClockIncSec  int    `json:"clock_inc_sec"` // increment per move
	PlayAsWhite  bool   `json:"play_as_white"` // seat vs computer
	Debug        bool   `json:"debug"`         // true/false
}

func defaultConfig() Config {
	return Config{
		Theme:        "light",
		PieceStyle:   "classic",
		UCIPath:      "",
		EngineLevel:  5,
		EngineElo:    0,
		ClockMinutes: 10,
		ClockIncSec:  0,
		PlayAsWhite:  true,
		Debug:        false,
	}
}

func NewGUIConfig() (*Config, error) {
	_, err := os.Stat(configFile)
	if os.IsNotExist(err) {
		def := defaultConfig()
		return &def, nil
	} else if err != nil {
		return nil, err
	}

	conf, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer conf.Close()

	dec := json.NewDecoder(conf)
	var c Config
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("error decode config: %s", err)
	}
	correctableConfig(&c)

	return &c, nil
}

func (c *Config) Save() error {
	jsonData, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}
	err = os.WriteFile(configFile, jsonData, 0644)
	if err != nil {
		return err
	}
	return nil
}

func correctableConfig(c *Config) {
	def := defaultConfig()
	if c.Theme != "light" && c.Theme != "dark" {
		c.Theme = def.Theme
	}
	if c.PieceStyle != "classic" && c.PieceStyle != "minimal" {
		c.PieceStyle = def.PieceStyle
	}
	if c.EngineLevel < 0 || c.EngineLevel > 10 {
		c.EngineLevel = def.EngineLevel
	}
	if c.EngineElo < 0 {
		c.EngineElo = 0
	}
	if c.ClockMinutes < 1 || c.ClockMinutes > 180 {
		c.ClockMinutes = def.ClockMinutes
	}
	if c.ClockIncSec < 0 || c.ClockIncSec > 60 {
		c.ClockIncSec = def.ClockIncSec
	}
}
