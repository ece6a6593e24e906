package config

type AppConfig struct {
	Server ServerConfig
	DB     DBConfig
	Log    LogConfig
}

func LoadApp() (AppConfig, error) {
	if err := LoadSettingsFile(); err != nil {
		return AppConfig{}, err
	}
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	dbCfg, err := LoadDB()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server: serverCfg,
		DB:     dbCfg,
		Log:    logCfg,
	}, nil
}
