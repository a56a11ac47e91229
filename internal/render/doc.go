// Package render walks a documentation tree and writes it out as a site.
//
// The walk is depth first. Each bale renders its index page at the bale's
// own output directory, copies its assets, then renders each page into a
// directory named after the page's slug. Nested bales are broken open only
// when the walk reaches them. Sibling bales write to disjoint directories and
// are rendered concurrently.
package render
