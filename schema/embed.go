package schema

import _ "embed"

// ManifestExample contains a starter procwatch manifest.
//
//go:embed manifest.example.yaml
var ManifestExample []byte
