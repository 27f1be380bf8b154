// Package load decodes resource documents into schema.Resource values.
//
// JSON is the canonical form of a resource: YAML, CUE and msgpack documents
// are first converted to JSON and then decoded with the schema package
// codec, so every format shares the same field and properties rules.
package load

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/syssam/dsg/compiler/gen"
	"github.com/syssam/dsg/schema"
)

// Format is the encoding of a resource document.
type Format string

// Supported formats.
const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatCUE     Format = "cue"
	FormatMsgpack Format = "msgpack"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatCUE, FormatMsgpack}

// FormatOf returns the format of the file at path, by extension.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	default:
		return "", gen.NewSchemaError(path, "", fmt.Sprintf("unsupported file extension %q", ext), nil)
	}
}

// Load reads and decodes the resource file at path.
func Load(path string) (*schema.Resource, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gen.NewSchemaError(path, "", "read file", err)
	}
	return Decode(data, f, path)
}

// Decode decodes a resource document of the given format. The source names
// the document in errors.
func Decode(data []byte, f Format, source string) (*schema.Resource, error) {
	raw, err := ToJSON(data, f, source)
	if err != nil {
		return nil, err
	}
	r := &schema.Resource{}
	if err := json.Unmarshal(raw, r); err != nil {
		return nil, gen.NewSchemaError(source, "", "decode resource", err)
	}
	return r, nil
}

// ToJSON converts a document of the given format to JSON.
func ToJSON(data []byte, f Format, source string) ([]byte, error) {
	switch f {
	case FormatJSON:
		if !json.Valid(data) {
			return nil, gen.NewSchemaError(source, "", "invalid JSON", nil)
		}
		return data, nil
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, gen.NewSchemaError(source, "", "decode YAML", err)
		}
		return marshalJSON(v, source)
	case FormatCUE:
		v := cuecontext.New().CompileBytes(data, cue.Filename(source))
		if err := v.Err(); err != nil {
			return nil, gen.NewSchemaError(source, "", "compile CUE", err)
		}
		if err := v.Validate(cue.Concrete(true)); err != nil {
			return nil, gen.NewSchemaError(source, "", "CUE value is not concrete", err)
		}
		b, err := v.MarshalJSON()
		if err != nil {
			return nil, gen.NewSchemaError(source, "", "export CUE", err)
		}
		return b, nil
	case FormatMsgpack:
		var v any
		if err := msgpack.Unmarshal(data, &v); err != nil {
			return nil, gen.NewSchemaError(source, "", "decode msgpack", err)
		}
		return marshalJSON(v, source)
	default:
		return nil, gen.NewSchemaError(source, "", fmt.Sprintf("unsupported format %q", f), nil)
	}
}

// Encode encodes the resource in the given format.
func Encode(r *schema.Resource, f Format) ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode resource: %w", err)
	}
	if f == FormatJSON {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	switch f {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatCUE:
		val := cuecontext.New().CompileBytes(raw)
		if err := val.Err(); err != nil {
			return nil, fmt.Errorf("encode CUE: %w", err)
		}
		return format.Node(val.Syntax())
	case FormatMsgpack:
		return msgpack.Marshal(v)
	default:
		return nil, fmt.Errorf("encode resource: unsupported format %q", f)
	}
}

// marshalJSON encodes a generic decoded document as JSON. Maps with
// non-string keys are converted first, since YAML allows them.
func marshalJSON(v any, source string) ([]byte, error) {
	b, err := json.Marshal(stringKeys(v))
	if err != nil {
		return nil, gen.NewSchemaError(source, "", "convert to JSON", err)
	}
	return b, nil
}

func stringKeys(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, e := range v {
			v[k] = stringKeys(e)
		}
		return v
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[fmt.Sprint(k)] = stringKeys(e)
		}
		return m
	case []any:
		for i, e := range v {
			v[i] = stringKeys(e)
		}
		return v
	default:
		return v
	}
}
