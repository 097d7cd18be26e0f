// Package templates holds the page components and their static assets.
package templates

//go:generate templ generate -path .

import "embed"

// FS holds the files served under /assets.
//
//go:embed assets
var FS embed.FS
