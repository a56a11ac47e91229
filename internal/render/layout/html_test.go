package layout

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docket/internal/doctree"
	"git.home.luguber.info/inful/docket/internal/highlight"
	"git.home.luguber.info/inful/docket/internal/markdown"
	"git.home.luguber.info/inful/docket/internal/render"
	"git.home.luguber.info/inful/docket/internal/toc"
)

func buildToc(t *testing.T, src string) *toc.Toc {
	t.Helper()
	doc := markdown.NewParser().Parse([]byte(src))
	tc, err := toc.Build(doc.Source, doc.Events, markdown.NewRenderer(nil))
	require.NoError(t, err)
	return tc
}

func TestRenderContent(t *testing.T) {
	tc := buildToc(t, "intro\n\n# Title\n\n[TOC]\n\n## Part *One*\n\nbody\n")

	out, err := RenderContent(tc, OutlineDepth)
	require.NoError(t, err)

	assert.Equal(t,
		"<p>intro</p>\n"+
			"<h1 id='Title'><a href='#Title'>Title</a></h1>\n"+
			"<ul class='toc'><li><a href='#Part-One'>Part <em>One</em></a></li></ul>"+
			"<h2 id='Part-One'><a href='#Part-One'>Part <em>One</em></a></h2>\n"+
			"<p>body</p>\n",
		string(out))
}

func TestRenderOutline(t *testing.T) {
	t.Run("single top heading lists its children", func(t *testing.T) {
		tc := buildToc(t, "# Title\n\n## A\n\n### A.1\n\n#### Too deep\n\n## B\n")
		assert.Equal(t,
			"<ul class='toc'><li><a href='#A'>A</a><ul class='toc'><li><a href='#A.1'>A.1</a></li></ul></li><li><a href='#B'>B</a></li></ul>",
			string(RenderOutline(tc, OutlineDepth)))
	})

	t.Run("several top headings", func(t *testing.T) {
		tc := buildToc(t, "# One\n\n# Two\n")
		assert.Equal(t,
			"<ul class='toc'><li><a href='#One'>One</a></li><li><a href='#Two'>Two</a></li></ul>",
			string(RenderOutline(tc, OutlineDepth)))
	})

	t.Run("configured depth", func(t *testing.T) {
		tc := buildToc(t, "# Title\n\n## A\n\n### A.1\n")
		assert.Equal(t,
			"<ul class='toc'><li><a href='#A'>A</a></li></ul>",
			string(RenderOutline(tc, 2)))
	})

	t.Run("no headings", func(t *testing.T) {
		assert.Equal(t, "<ul class='toc'></ul>", string(RenderOutline(buildToc(t, "text\n"), OutlineDepth)))
	})
}

func TestHTML_Assets(t *testing.T) {
	names := map[string]bool{}
	for _, a := range NewHTML().Assets() {
		names[a.Name()] = true
	}
	assert.Equal(t, map[string]bool{"style.css": true, "search.js": true, "dark.js": true}, names)
}

func TestHTML_RenderPage(t *testing.T) {
	ctx := &render.Context{SiteName: "Docs & Co", Highlighter: highlight.JS{}}
	root := render.NewRootState(ctx, &doctree.Frontispiece{Title: "Home"}, nil)
	st := root.Child(&doctree.Frontispiece{
		Title:  "Guide",
		Slug:   "guide",
		Footer: "<p>custom footer</p>",
	}, []render.NavInfo{{Title: "Setup", Slug: "setup"}, {Title: "Usage", Slug: "usage"}})

	page := &doctree.Page{Slug: "setup", Title: "Setup", Content: buildToc(t, "# Setup\n\nInstall it.\n")}

	var buf bytes.Buffer
	require.NoError(t, NewHTML().Render(&buf, st, render.NestedPage("setup"), page))
	out := buf.String()

	assert.Contains(t, out, "<title>Docs &amp; Co | Setup</title>")
	assert.Contains(t, out, `<link rel="stylesheet" href="../../style.css">`)
	assert.Contains(t, out, `<body data-root="../../">`)
	assert.Contains(t, out, `<li class="primary"><a href="../../">Docs &amp; Co</a></li><li><a href="../">Guide</a></li>`)
	assert.Contains(t, out, `<li><a href="../setup/">Setup</a></li>`)
	assert.Contains(t, out, `<li><a href="../usage/">Usage</a></li>`)
	assert.Contains(t, out, "<h1 id='Setup'><a href='#Setup'>Setup</a></h1>")
	assert.Contains(t, out, "<p>Install it.</p>")
	assert.Contains(t, out, "<p>custom footer</p>")
	assert.Contains(t, out, "highlight.min.js")
}

func TestHTML_DefaultFooter(t *testing.T) {
	ctx := &render.Context{SiteName: "Site"}
	st := render.NewRootState(ctx, &doctree.Frontispiece{Title: "Home"}, nil)
	page := &doctree.Page{Title: "Home", Content: buildToc(t, "# Home\n")}

	var buf bytes.Buffer
	require.NoError(t, NewHTML().Render(&buf, st, render.IndexPage, page))

	assert.Contains(t, buf.String(), string(DefaultFooter))
	assert.Contains(t, buf.String(), `href="./style.css"`)
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func TestEndToEnd(t *testing.T) {
	src := writeTree(t, map[string]string{
		"index.md":         "# Welcome\n\nHello.\n",
		"guide.md":         "# Getting Going\n\nfirst\n\n# Next Steps\n\nsecond\n",
		"topics/readme.md": "# All Topics\n",
		"topics/a.md":      "# Topic A\n",
		"diagram.png":      "png-bytes",
	})
	out := filepath.Join(t.TempDir(), "site")

	hl := highlight.Plain{}
	loader := doctree.NewLoader(markdown.NewRenderer(hl))
	root, err := loader.OpenRoot(src)
	require.NoError(t, err)

	err = render.Render(context.Background(), &render.Context{
		Output:      out,
		SiteName:    "E2E",
		Layout:      NewHTML(),
		Highlighter: hl,
	}, root)
	require.NoError(t, err)

	for _, rel := range []string{
		"index.html",
		"guide/index.html",
		"topics/index.html",
		"topics/a/index.html",
		"diagram.png",
		"style.css",
		"search.js",
		"dark.js",
	} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(rel)))
	}

	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	html := string(index)
	assert.Contains(t, html, `<li><a href="./guide/">Getting Going</a></li>`)
	assert.Contains(t, html, `<li><a href="./topics/">All Topics</a></li>`)
	assert.Less(t, strings.Index(html, "Getting Going"), strings.Index(html, "All Topics"))
}
