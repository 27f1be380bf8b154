package dbprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"

	"github.com/syssam/dsg/compiler/gen"
	"github.com/syssam/dsg/schema"
)

// Package names of the built-in plugins.
const (
	PostgresPlugin = "dsg-plugin-db-postgres"
	MySQLPlugin    = "dsg-plugin-db-mysql"
	SQLitePlugin   = "dsg-plugin-db-sqlite"
)

// Names of the contributed modules, relative to the server base directory.
const (
	ComposeFile = "docker-compose.db.yml"
	EnvFile     = ".env.db"
)

// MultiSelectRejection is the reason MySQL rejects multi-select option sets.
const MultiSelectRejection = "Multi Select Option Set is not supported by MySQL prisma provider. " +
	"You can select another data type or change your DB to PostgreSQL"

// Settings are the connection settings of a database plugin.
type Settings struct {
	Host     string `json:"dbHost,omitempty"`
	Port     int    `json:"dbPort,omitempty"`
	User     string `json:"dbUser,omitempty"`
	Password string `json:"dbPassword,omitempty"`
	Name     string `json:"dbName,omitempty"`
}

// DefaultSettings returns the settings used for the unset keys of an
// installation of the provider.
func DefaultSettings(p gen.Provider) Settings {
	switch p {
	case gen.ProviderMySQL:
		return Settings{Host: "localhost", Port: 3306, User: "admin", Password: "admin"}
	case gen.ProviderSQLite:
		return Settings{}
	default:
		return Settings{Host: "localhost", Port: 5432, User: "admin", Password: "admin"}
	}
}

// validate checks the settings of a server database.
func (s Settings) validate() error {
	for _, f := range []struct{ key, value string }{
		{"dbHost", s.Host},
		{"dbUser", s.User},
		{"dbPassword", s.Password},
	} {
		if len(f.value) < 2 {
			return fmt.Errorf("%s must be at least 2 characters", f.key)
		}
	}
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("dbPort %d out of range", s.Port)
	}
	return nil
}

// Plugin is a database plugin.
type Plugin struct {
	name     string
	provider gen.Provider
	settings Settings
}

var (
	_ gen.DatabaseProvider        = (*Plugin)(nil)
	_ gen.ServerModuleContributor = (*Plugin)(nil)
	_ gen.FieldTypeRejecter       = (*MySQL)(nil)
)

// New creates the plugin of a provider from the raw installation settings.
// Unset keys take the provider defaults.
func New(p gen.Provider, raw json.RawMessage) (*Plugin, error) {
	name, ok := pluginNames[p]
	if !ok {
		return nil, fmt.Errorf("unsupported database provider %q", p)
	}
	s := DefaultSettings(p)
	if len(bytes.TrimSpace(raw)) > 0 && string(bytes.TrimSpace(raw)) != "null" {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
	}
	if p != gen.ProviderSQLite {
		if err := s.validate(); err != nil {
			return nil, err
		}
	}
	return &Plugin{name: name, provider: p, settings: s}, nil
}

var pluginNames = map[gen.Provider]string{
	gen.ProviderPostgres: PostgresPlugin,
	gen.ProviderMySQL:    MySQLPlugin,
	gen.ProviderSQLite:   SQLitePlugin,
}

// Name implements gen.Plugin.
func (p *Plugin) Name() string { return p.name }

// DatabaseProvider implements gen.DatabaseProvider.
func (p *Plugin) DatabaseProvider() gen.Provider { return p.provider }

// Settings returns the resolved settings of the plugin.
func (p *Plugin) Settings() Settings { return p.settings }

// Database returns the database name of the run. The configured dbName wins;
// otherwise the kebab-cased application name is used.
func (p *Plugin) Database(app *schema.AppInfo) string {
	if name := strings.TrimSpace(p.settings.Name); name != "" {
		return name
	}
	if app != nil {
		if name := gen.Kebab(app.Name); name != "" {
			return name
		}
	}
	return "app"
}

// DSN returns the connection string of the database.
func (p *Plugin) DSN(database string) string {
	s := p.settings
	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	switch p.provider {
	case gen.ProviderMySQL:
		cfg := mysql.NewConfig()
		cfg.User = s.User
		cfg.Passwd = s.Password
		cfg.Net = "tcp"
		cfg.Addr = addr
		cfg.DBName = database
		cfg.ParseTime = true
		return cfg.FormatDSN()
	case gen.ProviderSQLite:
		return "file:" + database + ".db"
	default:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(s.User, s.Password),
			Host:     addr,
			Path:     "/" + database,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	}
}

// ServerModules implements gen.ServerModuleContributor.
func (p *Plugin) ServerModules(ctx context.Context, gc *gen.Context) ([]gen.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		base     = gc.Directories().Server.BaseDirectory
		database = p.Database(gc.AppInfo())
		modules  []gen.Module
	)
	if p.provider != gen.ProviderSQLite {
		compose, err := p.compose(database)
		if err != nil {
			return nil, err
		}
		modules = append(modules, gen.Module{Path: path.Join(base, ComposeFile), Code: compose})
	}
	modules = append(modules, gen.Module{Path: path.Join(base, EnvFile), Code: p.env(database)})
	return modules, nil
}

type (
	composeFile struct {
		Services map[string]composeService `yaml:"services"`
		Volumes  map[string]struct{}       `yaml:"volumes"`
	}

	composeService struct {
		Image       string            `yaml:"image"`
		Ports       []string          `yaml:"ports"`
		Environment map[string]string `yaml:"environment"`
		Volumes     []string          `yaml:"volumes"`
	}
)

// compose renders the docker compose file of the database container.
func (p *Plugin) compose(database string) (string, error) {
	s := p.settings
	svc := composeService{
		Ports: []string{fmt.Sprintf("%d:%d", s.Port, defaultPort(p.provider))},
	}
	switch p.provider {
	case gen.ProviderMySQL:
		svc.Image = "mysql:8"
		svc.Environment = map[string]string{
			"MYSQL_USER":          s.User,
			"MYSQL_PASSWORD":      s.Password,
			"MYSQL_ROOT_PASSWORD": s.Password,
			"MYSQL_DATABASE":      database,
		}
		svc.Volumes = []string{"mysql:/var/lib/mysql"}
	default:
		svc.Image = "postgres:16"
		svc.Environment = map[string]string{
			"POSTGRES_USER":     s.User,
			"POSTGRES_PASSWORD": s.Password,
			"POSTGRES_DB":       database,
		}
		svc.Volumes = []string{"postgres:/var/lib/postgresql/data"}
	}
	f := composeFile{
		Services: map[string]composeService{"db": svc},
		Volumes:  map[string]struct{}{string(p.provider): {}},
	}
	var b bytes.Buffer
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return "", fmt.Errorf("encode %s: %w", ComposeFile, err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode %s: %w", ComposeFile, err)
	}
	return b.String(), nil
}

// env renders the environment file read by the generated service.
func (p *Plugin) env(database string) string {
	var b strings.Builder
	line := func(k, v string) { fmt.Fprintf(&b, "%s=%s\n", k, v) }
	line("DB_PROVIDER", string(p.provider))
	line("DB_URL", p.DSN(database))
	if p.provider != gen.ProviderSQLite {
		s := p.settings
		line("DB_HOST", s.Host)
		line("DB_PORT", strconv.Itoa(s.Port))
		line("DB_USER", s.User)
		line("DB_PASSWORD", s.Password)
	}
	line("DB_NAME", database)
	return b.String()
}

// defaultPort is the port the database listens on inside its container.
func defaultPort(p gen.Provider) int {
	return DefaultSettings(p).Port
}

// MySQL is the MySQL plugin. It rejects the data types the provider cannot
// store.
type MySQL struct {
	*Plugin
}

// RejectFieldType implements gen.FieldTypeRejecter.
func (MySQL) RejectFieldType(t schema.DataType) (string, bool) {
	if t == schema.DataTypeMultiSelectOptionSet {
		return MultiSelectRejection, true
	}
	return "", false
}

// Factory returns the plugin factory of a provider.
func Factory(p gen.Provider) gen.PluginFactory {
	return func(ctx context.Context, raw json.RawMessage) (gen.Plugin, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pl, err := New(p, raw)
		if err != nil {
			return nil, err
		}
		if p == gen.ProviderMySQL {
			return &MySQL{Plugin: pl}, nil
		}
		return pl, nil
	}
}

// Register adds the factories of the built-in database plugins to r.
func Register(r *gen.PluginRegistry) error {
	for _, p := range []gen.Provider{gen.ProviderPostgres, gen.ProviderMySQL, gen.ProviderSQLite} {
		if err := r.Register(pluginNames[p], Factory(p)); err != nil {
			return err
		}
	}
	return nil
}
