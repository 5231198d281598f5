// Package configs provides embedded configuration templates for prettyresults.
//
// Templates are embedded at build time so `prettyresults config init` works
// from any installation. The same template serves both locations:
//   - user config: ~/.config/prettyresults/config.yaml
//   - project config: .prettyresults.yaml next to the results
//
// Configuration hierarchy (see internal/config Load):
//  1. Hardcoded defaults
//  2. User config
//  3. Project config
//  4. Environment variables (PRETTYRESULTS_*)
package configs

import _ "embed"

// ConfigTemplate is the commented configuration template.
//
//go:embed config.example.yaml
var ConfigTemplate string
