// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

// Paths holds all application path configurations.
type Paths struct {
	configDir        string
	configFileName   string
	dbFileName       string
	serverDBFileName string
	logFileName      string

	// Computed absolute paths
	configFilePath   string
	dbFilePath       string
	serverDBFilePath string
	logFilePath      string
}

var (
	paths *Paths
	once  sync.Once
)

// Initialize must be called once at program startup.
func Initialize() error {
	var initErr error

	once.Do(func() {
		paths = &Paths{
			configDir:        "dayplan",
			configFileName:   "config.yml",
			dbFileName:       "dayplan.db",
			serverDBFileName: "server.db",
			logFileName:      "dayplan.log",
		}

		paths.applyEnvironmentOverrides()
		initErr = paths.computePaths()
	})

	return initErr
}

// Must panics if paths haven't been initialized.
func Must() *Paths {
	if paths == nil {
		panic("pathutil.Initialize() must be called before accessing paths")
	}

	return paths
}

func Dir() string {
	return Must().configDir
}

func ConfigFilePath() string {
	return Must().configFilePath
}

func DBFilePath() string {
	return Must().dbFilePath
}

// ServerDBFilePath is the database used by the reference remote store.
func ServerDBFilePath() string {
	return Must().serverDBFilePath
}

func LogFilePath() string {
	return Must().logFilePath
}

func (p *Paths) applyEnvironmentOverrides() {
	env := strings.TrimSpace(os.Getenv("DAYPLAN_ENV"))
	if env == "" {
		return
	}

	p.configFileName = fmt.Sprintf("config_%s.yml", env)
	p.dbFileName = fmt.Sprintf("dayplan_%s.db", env)
	p.serverDBFileName = fmt.Sprintf("server_%s.db", env)
	p.logFileName = fmt.Sprintf("dayplan_%s.log", env)
}

func (p *Paths) computePaths() error {
	var err error

	p.configFilePath, err = xdg.ConfigFile(filepath.Join(p.configDir, p.configFileName))
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	dataDir, err := xdg.DataFile(p.configDir)
	if err != nil {
		return fmt.Errorf("resolving data dir: %w", err)
	}

	p.dbFilePath = filepath.Join(dataDir, p.dbFileName)
	p.serverDBFilePath = filepath.Join(dataDir, p.serverDBFileName)
	p.logFilePath = filepath.Join(dataDir, "log", p.logFileName)

	return nil
}
