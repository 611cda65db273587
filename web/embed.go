// Package web embeds the browser tracking script so the server binary
// ships self-contained.
package web

import _ "embed"

//go:embed script.js
var Script []byte
