package config

import (
	log "github.com/sirupsen/logrus"
)

type GlobalConfiguration struct {
	logLevel log.Level
	httpPort int
}

func (config *GlobalConfiguration) LogLevel() log.Level {
	return config.logLevel
}

func (config *GlobalConfiguration) HttpPort() int {
	return config.httpPort
}

func parseGlobal(cfg Raw) *GlobalConfiguration {
	logLevel := log.InfoLevel
	if cfg.Has("log_level") {
		parsedLevel, err := log.ParseLevel(cfg.String("log_level"))
		if err == nil {
			logLevel = parsedLevel
		} else {
			log.Warnf("Cannot parse log level, defaulting to 'info': %s", err)
		}
	}

	httpPort := 5000
	if cfg.Has("port") {
		httpPort = int(cfg.Int64("port"))
	}

	return &GlobalConfiguration{logLevel: logLevel, httpPort: httpPort}
}
