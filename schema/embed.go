package schema

import _ "embed"

// GenesisJSON holds the JSON schema for allocations/<project>/genesis.json.
//
//go:embed genesis.schema.json
var GenesisJSON []byte

// ProjectJSON holds the JSON schema for data/projects/<project>.json.
//
//go:embed project.schema.json
var ProjectJSON []byte
