package hugo

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/sidebar"
	"git.home.luguber.info/inful/docsite/internal/site"
)

func readYaml(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, yaml.Unmarshal(data, &m))
	return m
}

func TestMarshal_CoreFields(t *testing.T) {
	cfg := site.New(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	data, err := Marshal(cfg, sidebar.Default(), nil)
	require.NoError(t, err)

	conf := readYaml(t, data)
	assert.Equal(t, "PyBulletX", conf["title"])
	assert.Equal(t, "http://facebookresearch.github.io/pybulletX/", conf["baseURL"])
	assert.Equal(t, "Copyright © 2024 My Project, Inc. Built with Docusaurus.", conf["copyright"])

	params := conf["params"].(map[string]any)
	assert.Equal(t, []any{"./src/css/custom.css"}, params["customCss"])
	editURL := params["editURL"].(map[string]any)
	assert.Equal(t, true, editURL["enable"])
	assert.Equal(t, "https://github.com/facebook/docusaurus/edit/master/website/", editURL["base"])
}

func TestBuildConfig_MainMenu(t *testing.T) {
	root := BuildConfig(site.New(time.Now()), sidebar.Default(), nil)
	main := root["menu"].(map[string]any)["main"].([]map[string]any)

	require.Len(t, main, 3)
	assert.Equal(t, "Docs", main[0]["name"])
	assert.Equal(t, "/docs/", main[0]["url"])
	assert.Equal(t, 10, main[0]["weight"])
	assert.Equal(t, "/blog", main[1]["url"])
	assert.Equal(t, "https://github.com/facebookresearch/pybulletX", main[2]["url"])
	assert.Equal(t, true, main[2]["params"].(map[string]any)["external"])
	assert.Equal(t, "right", main[2]["params"].(map[string]any)["position"])
}

func TestBuildConfig_FooterMenu(t *testing.T) {
	root := BuildConfig(site.New(time.Now()), sidebar.Default(), nil)
	footer := root["menu"].(map[string]any)["footer"].([]map[string]any)

	// 2 groups + 2 links + 3 legal links
	require.Len(t, footer, 7)
	assert.Equal(t, "footer-0", footer[0]["identifier"])
	assert.Equal(t, "Links", footer[0]["name"])
	assert.Equal(t, "footer-0", footer[1]["parent"])
	assert.Equal(t, "Legal", footer[3]["name"])
	privacy := footer[4]
	assert.Equal(t, "Privacy", privacy["name"])
	assert.Equal(t, "_blank", privacy["params"].(map[string]any)["target"])
}

func TestBuildConfig_DocsMenuKeepsOrder(t *testing.T) {
	m := sidebar.Manifest{ID: "s", Categories: []sidebar.Category{
		{Label: "Tutorial", Items: []string{"a", "b", "c"}},
	}}
	titles := func(id string) string { return strings.ToUpper(id) }

	docs := BuildConfig(site.New(time.Now()), m, titles)["menu"].(map[string]any)["docs"].([]map[string]any)

	require.Len(t, docs, 4)
	assert.Equal(t, "category-tutorial", docs[0]["identifier"])
	assert.Equal(t, "Tutorial", docs[0]["name"])
	for i, id := range []string{"a", "b", "c"} {
		entry := docs[i+1]
		assert.Equal(t, "category-tutorial", entry["parent"])
		assert.Equal(t, fmt.Sprintf("category-tutorial/%s-%d", id, i), entry["identifier"])
		assert.Equal(t, "/docs/"+id, entry["pageRef"])
		assert.Equal(t, strings.ToUpper(id), entry["name"])
		assert.Equal(t, (i+1)*10, entry["weight"])
	}
}

func TestBuildConfig_DocsMenuIdentifiersUnique(t *testing.T) {
	m := sidebar.Manifest{ID: "s", Categories: []sidebar.Category{
		{Label: "Getting Started", Items: []string{"intro", "tutorial/joint_info"}},
		{Label: "getting-started", Items: []string{"intro", "tutorial/joint-info"}},
	}}

	docs := BuildConfig(site.New(time.Now()), m, nil)["menu"].(map[string]any)["docs"].([]map[string]any)
	require.Len(t, docs, 6)

	seen := map[string]int{}
	for _, e := range docs {
		seen[e["identifier"].(string)]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "identifier %q used %d times", id, n)
	}

	assert.Equal(t, "category-getting-started", docs[0]["identifier"])
	assert.Equal(t, "category-getting-started-1", docs[3]["identifier"])
	assert.Equal(t, "category-getting-started-1", docs[4]["parent"])
	assert.Equal(t, "category-getting-started-1", docs[5]["parent"])
	assert.Equal(t, "category-getting-started/intro-0", docs[1]["identifier"])
	assert.Equal(t, "category-getting-started-1/intro-0", docs[4]["identifier"])
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "getting-started", slug("Getting Started"))
	assert.Equal(t, "tutorial-joint-info", slug("tutorial/joint_info"))
	assert.Equal(t, "a-b", slug("--A  b--"))
}
