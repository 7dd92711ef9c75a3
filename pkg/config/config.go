package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/geonode-contrib/geostack/pkg/errors"
)

// Config is the fully resolved geostack configuration.
type Config struct {
	Install   InstallConfig   `koanf:"install" toml:"install"`
	Packages  PackagesConfig  `koanf:"packages" toml:"packages"`
	Docker    DockerConfig    `koanf:"docker" toml:"docker"`
	Geonode   GeonodeConfig   `koanf:"geonode" toml:"geonode"`
	Client    ClientConfig    `koanf:"client" toml:"client"`
	Database  DatabaseConfig  `koanf:"database" toml:"database"`
	Geoserver GeoserverConfig `koanf:"geoserver" toml:"geoserver"`
	Web       WebConfig       `koanf:"web" toml:"web"`
	Readiness ReadinessConfig `koanf:"readiness" toml:"readiness"`
	Editor    EditorConfig    `koanf:"editor" toml:"editor"`
}

// InstallConfig controls where the checkouts live.
type InstallConfig struct {
	Dir string `koanf:"dir" toml:"dir"`
}

// PackagesConfig is the fixed OS package list installed up front.
type PackagesConfig struct {
	Names []string `koanf:"names" toml:"names"`
}

// DockerConfig describes the Docker apt repository and package set.
type DockerConfig struct {
	GPGKeyURL       string   `koanf:"gpg_key_url" toml:"gpg_key_url"`
	KeyringPath     string   `koanf:"keyring_path" toml:"keyring_path"`
	AptSourcePath   string   `koanf:"apt_source_path" toml:"apt_source_path"`
	Packages        []string `koanf:"packages" toml:"packages"`
	ComposePackages []string `koanf:"compose_packages" toml:"compose_packages"`
}

// GeonodeConfig describes the geonode checkout and its env file.
type GeonodeConfig struct {
	RepoURL   string `koanf:"repo_url" toml:"repo_url"`
	Branch    string `koanf:"branch" toml:"branch"`
	EnvHelper string `koanf:"env_helper" toml:"env_helper"`
	EnvFile   string `koanf:"env_file" toml:"env_file"`
	Hostname  string `koanf:"hostname" toml:"hostname"`
}

// ClientConfig describes the optional mapstore client checkout.
type ClientConfig struct {
	RepoURL   string `koanf:"repo_url" toml:"repo_url"`
	Branch    string `koanf:"branch" toml:"branch"`
	ClientDir string `koanf:"client_dir" toml:"client_dir"`
}

// DatabaseConfig describes the database service and credential injection.
type DatabaseConfig struct {
	Service      string   `koanf:"service" toml:"service"`
	Superuser    string   `koanf:"superuser" toml:"superuser"`
	GeonodeUser  string   `koanf:"geonode_user" toml:"geonode_user"`
	GeodataUser  string   `koanf:"geodata_user" toml:"geodata_user"`
	Password     string   `koanf:"password" toml:"password"`
	PasswordKeys []string `koanf:"password_keys" toml:"password_keys"`
}

// GeoserverConfig describes the geoserver service and its user registry.
type GeoserverConfig struct {
	Service       string `koanf:"service" toml:"service"`
	AdminUser     string `koanf:"admin_user" toml:"admin_user"`
	AdminPassword string `koanf:"admin_password" toml:"admin_password"`
	UsersXMLPath  string `koanf:"users_xml_path" toml:"users_xml_path"`
	Endpoint      string `koanf:"endpoint" toml:"endpoint"`
}

// WebConfig describes the web frontend service.
type WebConfig struct {
	Service  string `koanf:"service" toml:"service"`
	Endpoint string `koanf:"endpoint" toml:"endpoint"`
}

// ReadinessConfig controls the fixed-interval readiness polls.
type ReadinessConfig struct {
	IntervalSeconds int `koanf:"interval_seconds" toml:"interval_seconds"`
	MaxAttempts     int `koanf:"max_attempts" toml:"max_attempts"`
}

// EditorConfig describes the optional editor install.
type EditorConfig struct {
	Package       string `koanf:"package" toml:"package"`
	GPGKeyURL     string `koanf:"gpg_key_url" toml:"gpg_key_url"`
	KeyringPath   string `koanf:"keyring_path" toml:"keyring_path"`
	AptSourcePath string `koanf:"apt_source_path" toml:"apt_source_path"`
}

// ConfigFileName is the per-host override file looked up in the install dir
// and the current directory.
const ConfigFileName = "geostack.toml"

// Load resolves the configuration: embedded defaults, then an optional
// geostack.toml override, then GEOSTACK_ environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default configuration")
	}

	// 2. Optional override file. The install dir honors its env override
	// here already, so GEOSTACK_INSTALL_DIR also moves the file lookup.
	installDir := k.String("install.dir")
	if dir := os.Getenv("GEOSTACK_INSTALL_DIR"); dir != "" {
		installDir = dir
	}
	for _, dir := range configDirs(installDir) {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path)
			}
			break
		}
	}

	// 3. GEOSTACK_ environment variables (GEOSTACK_INSTALL_DIR -> install.dir)
	if err := k.Load(env.Provider("GEOSTACK_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "GEOSTACK_")
		return strings.Replace(strings.ToLower(s), "_", ".", 1)
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	return &cfg, nil
}

// Default returns the embedded default configuration without any overrides.
func Default() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default configuration")
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal default configuration")
	}
	return &cfg, nil
}

// CheckoutDir returns the path of the main geonode checkout.
func (c *Config) CheckoutDir() string {
	return filepath.Join(c.Install.Dir, "geonode")
}

// ClientCheckoutDir returns the path of the mapstore client checkout.
func (c *Config) ClientCheckoutDir() string {
	return filepath.Join(c.Install.Dir, "geonode-mapstore-client")
}

// EnvFilePath returns the path of the generated .env file.
func (c *Config) EnvFilePath() string {
	return filepath.Join(c.CheckoutDir(), c.Geonode.EnvFile)
}

// configDirs lists the places an override file is searched, in order.
func configDirs(installDir string) []string {
	dirs := []string{"."}
	if installDir != "" {
		dirs = append(dirs, installDir)
	}
	return dirs
}
