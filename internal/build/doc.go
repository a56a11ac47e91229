// Package build provides the build pipeline shared by every entry point.
//
// A build resolves the source tree, scans its root bale, renders the site
// into the target directory and writes the search index. The one-shot
// build command, watch mode and the preview server all route through
// Service.
package build
