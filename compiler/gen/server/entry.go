package server

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/syssam/dsg/compiler/gen"
	"github.com/syssam/dsg/schema"
)

// DefaultPort is the port the generated service listens on.
const DefaultPort = "3000"

var (
	//go:embed templates/*
	templateDir embed.FS

	templates = template.Must(template.ParseFS(templateDir, "templates/*.tmpl"))
)

// renderMain executes the main.go template and formats the result.
func renderMain(module string, app *schema.AppInfo) (string, error) {
	data := struct {
		Header       string
		Name         string
		Title        string
		Module       string
		Port         string
		AuthProvider schema.AuthProvider
	}{
		Header:       Header,
		Name:         "app",
		Title:        "generated",
		Module:       module,
		Port:         DefaultPort,
		AuthProvider: schema.AuthProviderHTTP,
	}
	if app != nil {
		if n := gen.Kebab(app.Name); n != "" {
			data.Name = n
			data.Title = strings.Join(strings.Fields(app.Name), " ")
		}
		if app.Settings.AuthProvider != "" {
			data.AuthProvider = app.Settings.AuthProvider
		}
	}
	var b bytes.Buffer
	if err := templates.ExecuteTemplate(&b, "main.go.tmpl", data); err != nil {
		return "", err
	}
	code, err := imports.Process("main.go", b.Bytes(), &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return "", err
	}
	return string(code), nil
}
