// Package themes loads go-theme manifests for the registration page and
// resolves a theme/variant pair into the renderer configuration the HTML and
// terminal renderers consume.
package themes
