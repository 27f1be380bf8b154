// Package admin implements the default renderer of the admin client.
//
// The client is a react-admin application backed by the GraphQL API of
// the generated server. Every module is rendered from an embedded
// text/template:
//
//	{client}/
//	├── package.json
//	├── public/index.html
//	└── src/
//	    ├── App.tsx                          # One resource per entity
//	    ├── api/{entity}/{Entity}.ts         # Model type and enums
//	    ├── api/{entity}/{Entity}List.tsx    # List view
//	    └── auth-provider/authProvider.ts    # Http or Jwt login
package admin
