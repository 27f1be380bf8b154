// Package dbprovider provides the built-in database plugins.
//
// Each plugin picks the database provider of the generated service and adds
// the files a developer needs to run that database locally:
//
//	{server}/
//	├── docker-compose.db.yml   # database container (not for SQLite)
//	└── .env.db                 # connection settings
//
// Plugins are created from the settings of their installation:
//
//	{
//	  "npm": "dsg-plugin-db-postgres",
//	  "enabled": true,
//	  "settings": {"dbHost": "localhost", "dbPort": 5432, "dbUser": "admin", "dbPassword": "admin"}
//	}
//
// Register adds the three factories to a registry:
//
//	r := gen.NewPluginRegistry()
//	if err := dbprovider.Register(r); err != nil {
//		return err
//	}
package dbprovider
