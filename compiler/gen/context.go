package gen

import (
	"fmt"
	"path"
	"strings"

	"github.com/syssam/dsg/schema"
)

// Default base directories of the generated modules.
const (
	DefaultServerDirectory = "server"
	DefaultClientDirectory = "admin-ui"
)

type (
	// ServerDirectories is the directory layout of the generated server.
	ServerDirectories struct {
		BaseDirectory    string
		SrcDirectory     string
		ScriptsDirectory string
		AuthDirectory    string
	}

	// ClientDirectories is the directory layout of the generated admin client.
	ClientDirectories struct {
		BaseDirectory         string
		SrcDirectory          string
		PublicDirectory       string
		APIDirectory          string
		AuthProviderDirectory string
	}

	// Directories is the directory layout of a run.
	Directories struct {
		Server ServerDirectories
		Client ClientDirectories
	}
)

// NewDirectories computes the directory layout from the application
// settings. Blank overrides fall back to the defaults.
func NewDirectories(app *schema.AppInfo) Directories {
	var serverBase, clientBase string
	if app != nil {
		serverBase = strings.TrimSpace(app.Settings.ServerSettings.ServerPath)
		clientBase = strings.TrimSpace(app.Settings.AdminUISettings.AdminUIPath)
	}
	if serverBase == "" {
		serverBase = DefaultServerDirectory
	}
	if clientBase == "" {
		clientBase = DefaultClientDirectory
	}
	return Directories{
		Server: ServerDirectories{
			BaseDirectory:    serverBase,
			SrcDirectory:     path.Join(serverBase, "src"),
			ScriptsDirectory: path.Join(serverBase, "scripts"),
			AuthDirectory:    path.Join(serverBase, "auth"),
		},
		Client: ClientDirectories{
			BaseDirectory:         clientBase,
			SrcDirectory:          path.Join(clientBase, "src"),
			PublicDirectory:       path.Join(clientBase, "public"),
			APIDirectory:          path.Join(clientBase, "src", "api"),
			AuthProviderDirectory: path.Join(clientBase, "src", "auth-provider"),
		},
	}
}

// stage is the population step a Context has reached.
type stage int

const (
	stageNew stage = iota
	stageAppInfo
	stageRoles
	stageEntities
	stagePlugins
	stageDTOs
	stageDirectories
	stageFrozen
)

var stageNames = [...]string{
	stageNew:         "new",
	stageAppInfo:     "app info",
	stageRoles:       "roles",
	stageEntities:    "entities",
	stagePlugins:     "plugins",
	stageDTOs:        "DTOs",
	stageDirectories: "directories",
	stageFrozen:      "frozen",
}

func (s stage) String() string { return stageNames[s] }

// Context holds the state of a single generation run. It is populated in a
// fixed order (app info, roles, entities, plugins, DTOs, directories) and
// frozen before the generation tasks start; the tasks only read it.
type Context struct {
	stage       stage
	appInfo     *schema.AppInfo
	roles       []*schema.Role
	entities    []*schema.Entity
	user        *schema.Entity
	plugins     []Plugin
	dtos        DTOs
	directories Directories
}

// NewContext returns an empty generation context.
func NewContext() *Context {
	return &Context{}
}

// advance moves the context to the next stage if it is at the previous one.
func (c *Context) advance(next stage, op string) error {
	if c.stage != next-1 {
		return fmt.Errorf("%w: %s requires stage %q, context is at %q", ErrContextStage, op, next-1, c.stage)
	}
	c.stage = next
	return nil
}

// SetAppInfo sets the application info.
func (c *Context) SetAppInfo(app *schema.AppInfo) error {
	if app == nil {
		return NewInputError("resourceInfo")
	}
	if err := c.advance(stageAppInfo, "SetAppInfo"); err != nil {
		return err
	}
	c.appInfo = app
	return nil
}

// SetRoles sets the roles.
func (c *Context) SetRoles(roles []*schema.Role) error {
	if err := c.advance(stageRoles, "SetRoles"); err != nil {
		return err
	}
	c.roles = roles
	return nil
}

// SetEntities sets the resolved entities and the user entity among them.
func (c *Context) SetEntities(entities []*schema.Entity, user *schema.Entity) error {
	if err := c.advance(stageEntities, "SetEntities"); err != nil {
		return err
	}
	c.entities = entities
	c.user = user
	return nil
}

// AttachPlugins sets the loaded plugins.
func (c *Context) AttachPlugins(plugins []Plugin) error {
	if err := c.advance(stagePlugins, "AttachPlugins"); err != nil {
		return err
	}
	c.plugins = plugins
	return nil
}

// AttachDTOs sets the synthesized DTOs.
func (c *Context) AttachDTOs(dtos DTOs) error {
	if err := c.advance(stageDTOs, "AttachDTOs"); err != nil {
		return err
	}
	c.dtos = dtos
	return nil
}

// AttachDirectories sets the directory layout.
func (c *Context) AttachDirectories(dirs Directories) error {
	if err := c.advance(stageDirectories, "AttachDirectories"); err != nil {
		return err
	}
	c.directories = dirs
	return nil
}

// Freeze ends the population of the context.
func (c *Context) Freeze() error {
	return c.advance(stageFrozen, "Freeze")
}

// Frozen reports if the context was frozen.
func (c *Context) Frozen() bool { return c.stage == stageFrozen }

// AppInfo returns the application info.
func (c *Context) AppInfo() *schema.AppInfo { return c.appInfo }

// Roles returns the roles.
func (c *Context) Roles() []*schema.Role { return c.roles }

// Entities returns the resolved entities.
func (c *Context) Entities() []*schema.Entity { return c.entities }

// User returns the user entity.
func (c *Context) User() *schema.Entity { return c.user }

// Plugins returns the loaded plugins.
func (c *Context) Plugins() []Plugin { return c.plugins }

// DTOs returns the synthesized DTOs.
func (c *Context) DTOs() DTOs { return c.dtos }

// Directories returns the directory layout.
func (c *Context) Directories() Directories { return c.directories }

// Provider returns the database provider picked by the loaded plugins, or
// ProviderPostgres if none does.
func (c *Context) Provider() Provider {
	if p, ok := FindDatabaseProvider(c.plugins); ok {
		return p
	}
	return ProviderPostgres
}

// GenerateAdminUI reports if the admin client is generated.
func (c *Context) GenerateAdminUI() bool {
	return c.appInfo != nil && c.appInfo.Settings.AdminUISettings.GenerateAdminUI
}

// Entity returns the entity with the given ID.
func (c *Context) Entity(id string) (*schema.Entity, bool) {
	for _, e := range c.entities {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}
