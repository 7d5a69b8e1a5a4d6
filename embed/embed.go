package embed

import "embed"

// Assets holds the site stylesheet served under /_genome/.
//
//go:embed *.css
var Assets embed.FS
