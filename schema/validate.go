// Package schema embeds and applies the JSON schemas of submitted documents.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/lumera-labs/tokenomics-tracker/pkg/types"
)

// Name identifies an embedded schema.
type Name string

const (
	Genesis Name = "genesis.schema.json"
	Project Name = "project.schema.json"
)

var compiled = sync.OnceValues(func() (map[Name]*jsonschema.Schema, error) {
	sources := map[Name][]byte{Genesis: GenesisJSON, Project: ProjectJSON}
	out := make(map[Name]*jsonschema.Schema, len(sources))
	for name, src := range sources {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(string(name), bytes.NewReader(src)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
		s, err := compiler.Compile(string(name))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		out[name] = s
	}
	return out, nil
})

// Validate checks raw JSON against the named schema. Each violated constraint
// becomes one finding; the error is reserved for undecodable input or a
// broken embedded schema.
func Validate(name Name, doc []byte) ([]types.Finding, error) {
	schemas, err := compiled()
	if err != nil {
		return nil, err
	}
	s, ok := schemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}

	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, fmt.Errorf("decode document for %s: %w", name, err)
	}

	err = s.Validate(v)
	if err == nil {
		return nil, nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, err
	}

	var findings []types.Finding
	collect(ve, func(e *jsonschema.ValidationError) {
		findings = append(findings, types.Finding{
			Code:    types.CodeSchema,
			Message: fmt.Sprintf("%s: %s", Path(e.InstanceLocation), e.Message),
			Hint:    fmt.Sprintf("See %s for the expected structure", name),
		})
	})
	sort.SliceStable(findings, func(i, j int) bool { return findings[i].Message < findings[j].Message })
	return findings, nil
}

// collect visits the leaves of a validation error tree.
func collect(e *jsonschema.ValidationError, visit func(*jsonschema.ValidationError)) {
	if len(e.Causes) == 0 {
		visit(e)
		return
	}
	for _, c := range e.Causes {
		collect(c, visit)
	}
}

// Path converts a JSON pointer such as /supply/max_supply into the dotted
// form supply.max_supply. The document root is reported as "(root)".
func Path(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return "(root)"
	}
	parts := strings.Split(ptr, "/")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~1", "/")
		parts[i] = strings.ReplaceAll(p, "~0", "~")
	}
	return strings.Join(parts, ".")
}
