// Package configs provides the embedded configuration template for jmhgate.
//
// The template is written by `jmhgate config init` and documents every key
// understood by internal/config.
package configs

import _ "embed"

// ConfigTemplate is the commented default configuration.
//
//go:embed jmhgate.example.yaml
var ConfigTemplate string
