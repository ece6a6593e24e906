package config

import "github.com/caarlos0/env/v11"

type ConsoleConfig struct {
	PreviewRows int    `env:"CONSOLE_PREVIEW_ROWS" envDefault:"5"`
	Prompt      string `env:"CONSOLE_PROMPT" envDefault:"SQL> "`
}

func LoadConsole() (ConsoleConfig, error) {
	var cfg ConsoleConfig
	err := env.Parse(&cfg)
	return cfg, err
}
