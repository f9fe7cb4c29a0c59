// Package assets embeds the default configuration shipped with the binary.
package assets

import _ "embed"

//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

//go:embed defaults/guardrail.yaml
var DefaultGuardrailYAML []byte
