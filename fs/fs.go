// Package appfs exposes files embedded in the binary.
package appfs

import "embed"

//go:embed fixtures
var FS embed.FS
