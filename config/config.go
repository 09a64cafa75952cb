package config

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

type Configuration struct {
	global *GlobalConfiguration
	http   *HttpConfiguration
	remote *RemoteConfiguration
	cache  *CacheConfiguration
	files  *FilesConfiguration
}

const (
	CfgFileName = "config.yaml"
	PathLocal   = "."
	PathGlobal  = "/etc/releasegate"
)

func (c *Configuration) Global() *GlobalConfiguration {
	return c.global
}

func (c *Configuration) Http() *HttpConfiguration {
	return c.http
}

func (c *Configuration) Remote() *RemoteConfiguration {
	return c.remote
}

func (c *Configuration) Cache() *CacheConfiguration {
	return c.cache
}

func (c *Configuration) Files() *FilesConfiguration {
	return c.files
}

func searchDirectories() []string {
	directories := []string{PathLocal}

	userHome, err := os.UserHomeDir()

	if err == nil {
		directories = append(directories, filepath.Join(userHome, ".releasegate"))
	}

	return append(directories, PathGlobal)
}

// Load reads the configuration from path or, if path is empty, from the first config.yaml
// found in the search directories.
func Load(path string) (*Configuration, error) {
	candidates := []string{path}

	if path == "" {
		candidates = candidates[:0]
		for _, directory := range searchDirectories() {
			candidates = append(candidates, filepath.Join(directory, CfgFileName))
		}
	}

	var file *os.File

	for _, possibleConfigPath := range candidates {
		log.Debugf("Checking for configuration file at %s", possibleConfigPath)

		f, err := os.Open(possibleConfigPath)

		if err == nil {
			log.Infof("Found configuration file at location %s", possibleConfigPath)
			file = f
			break
		}
	}

	if file == nil {
		return nil, fmt.Errorf("could not find any configuration file in %v", candidates)
	}

	defer file.Close()

	raw, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %s", err)
	}

	return NewConfigurationInstance(raw)
}

func NewConfigurationInstance(cfg Raw) (*Configuration, error) {
	httpCfg, err := parseHttp(cfg.Sub("http"))
	if err != nil {
		return nil, err
	}

	remote, err := parseRemote(cfg.Sub("remote"))
	if err != nil {
		return nil, err
	}

	cache, err := parseCache(cfg.Sub("cache"))
	if err != nil {
		return nil, err
	}

	return &Configuration{
		global: parseGlobal(cfg),
		http:   httpCfg,
		remote: remote,
		cache:  cache,
		files:  ParseFilesSection(cfg.Sub("files")),
	}, nil
}
