// Package doctree models a source directory as a tree of bales and pages.
//
// A bale is one directory. Scanning a directory is shallow: it classifies the
// entries and opens only the index page, which is enough to place the bale in
// navigation. Breaking a bale open resolves its pages and scans, but does not
// open, its nested directories. The render walk breaks bales open one level
// at a time as it descends.
package doctree
