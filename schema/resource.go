package schema

import "encoding/json"

type (
	// Resource is the input of a generation run.
	Resource struct {
		Entities     []*Entity             `json:"entities"`
		Roles        []*Role               `json:"roles"`
		ResourceInfo *AppInfo              `json:"resourceInfo"`
		Plugins      []*PluginInstallation `json:"pluginInstallations,omitempty"`
	}

	// Role is a user role of the generated service.
	Role struct {
		ID          string `json:"id,omitempty"`
		Name        string `json:"name"`
		DisplayName string `json:"displayName,omitempty"`
		Description string `json:"description,omitempty"`
	}

	// AppInfo describes the generated application.
	AppInfo struct {
		ID          string      `json:"id,omitempty"`
		Name        string      `json:"name"`
		Description string      `json:"description,omitempty"`
		Version     string      `json:"version,omitempty"`
		URL         string      `json:"url,omitempty"`
		Settings    AppSettings `json:"settings"`
	}

	// AppSettings holds the generation settings of the application.
	AppSettings struct {
		AuthProvider    AuthProvider    `json:"authProvider,omitempty"`
		ServerSettings  ServerSettings  `json:"serverSettings"`
		AdminUISettings AdminUISettings `json:"adminUISettings"`
	}

	// ServerSettings configures the generated server.
	ServerSettings struct {
		// ServerPath overrides the base directory of the server modules.
		ServerPath string `json:"serverPath,omitempty"`
	}

	// AdminUISettings configures the generated admin client.
	AdminUISettings struct {
		GenerateAdminUI bool `json:"generateAdminUI"`
		// AdminUIPath overrides the base directory of the admin modules.
		AdminUIPath string `json:"adminUIPath,omitempty"`
	}

	// PluginInstallation declares a plugin for the run.
	PluginInstallation struct {
		ID       string          `json:"id,omitempty"`
		PluginID string          `json:"pluginId,omitempty"`
		NPM      string          `json:"npm"`
		Enabled  bool            `json:"enabled"`
		Version  string          `json:"version,omitempty"`
		Settings json.RawMessage `json:"settings,omitempty"`
	}
)

// AuthProvider is the authentication scheme of the generated service.
type AuthProvider string

// Authentication schemes.
const (
	AuthProviderHTTP AuthProvider = "Http"
	AuthProviderJWT  AuthProvider = "Jwt"
)
