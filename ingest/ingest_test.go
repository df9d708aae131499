package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/graphwork/models"
)

const sampleGEXF = `<?xml version="1.0" encoding="UTF-8"?>
<gexf xmlns="http://gexf.net/1.3" version="1.3">
  <meta>
    <creator>nix-graph</creator>
    <description>hello closure</description>
  </meta>
  <graph defaultedgetype="directed">
    <attributes class="node">
      <attribute id="0" title="narSize" type="long"/>
      <attribute id="1" title="closureSize" type="integer"/>
      <attribute id="2" title="path" type="string"/>
      <attribute id="3" title="fixed" type="boolean">
        <default>false</default>
      </attribute>
    </attributes>
    <attributes class="edge">
      <attribute id="0" title="kind" type="string"/>
    </attributes>
    <nodes>
      <node id="hello" label="hello-2.12">
        <attvalues>
          <attvalue for="2" value="/nix/store/hello"/>
          <attvalue for="0" value="226488"/>
          <attvalue for="1" value="3"/>
        </attvalues>
      </node>
      <node id="glibc" label="glibc-2.38">
        <attvalues>
          <attvalue for="0" value="29000000"/>
          <attvalue for="3" value="true"/>
        </attvalues>
      </node>
      <node id="bare"/>
    </nodes>
    <edges>
      <edge id="e0" source="hello" target="glibc" weight="2">
        <attvalues>
          <attvalue for="0" value="runtime"/>
        </attvalues>
      </edge>
      <edge source="glibc" target="glibc"/>
    </edges>
  </graph>
</gexf>`

func TestGEXFProcessor(t *testing.T) {
	g, err := NewGEXFProcessor().ProcessData([]byte(sampleGEXF))
	require.NoError(t, err)

	assert.Equal(t, "hello closure", g.Name)
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())

	assert.Equal(t, []models.Attribute{
		{Key: models.AttrLabel, Value: "hello-2.12"},
		{Key: "path", Value: "/nix/store/hello"},
		{Key: models.AttrNarSize, Value: 226488.0},
		{Key: models.AttrClosureSize, Value: 3.0},
		{Key: "fixed", Value: false},
	}, g.AttributeList("hello"))

	fixed, ok := g.Attribute("glibc", "fixed")
	require.True(t, ok)
	assert.Equal(t, true, fixed)

	assert.Equal(t, "bare", g.Label("bare"))
	assert.Zero(t, g.Number("bare", models.AttrNarSize))
	_, ok = g.Attribute("bare", models.AttrClosureSize)
	assert.False(t, ok)

	edges := g.Edges()
	assert.Equal(t, "e0", edges[0].ID)
	kind, _ := edges[0].Attributes.Get("kind")
	assert.Equal(t, "runtime", kind)
	weight, _ := edges[0].Attributes.Get("weight")
	assert.Equal(t, 2.0, weight)
	assert.True(t, edges[1].SelfLoop())
	assert.NotEmpty(t, edges[1].ID)

	assert.True(t, g.HasEdge("hello", "glibc"))
	assert.Equal(t, []string{"hello"}, g.InNeighbors("glibc")[:1])
}

func TestGEXFProcessorErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "malformed xml",
			doc:  `<gexf><graph><nodes><node id="a">`,
			want: "error parsing GEXF",
		},
		{
			name: "dangling edge",
			doc:  `<gexf><graph><nodes><node id="a"/></nodes><edges><edge source="a" target="b"/></edges></graph></gexf>`,
			want: "target node with ID b does not exist",
		},
		{
			name: "duplicate node",
			doc:  `<gexf><graph><nodes><node id="a"/><node id="a"/></nodes></graph></gexf>`,
			want: "already exists",
		},
		{
			name: "bad number",
			doc: `<gexf><graph><attributes class="node"><attribute id="0" title="narSize" type="integer"/></attributes>
				<nodes><node id="a"><attvalues><attvalue for="0" value="big"/></attvalues></node></nodes></graph></gexf>`,
			want: `invalid integer value "big"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGEXFProcessor().ProcessData([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestJSONProcessorKeepsAttributeOrder(t *testing.T) {
	doc := `{
		"name": "deps",
		"nodes": [
			{"id": "a", "label": "App", "attributes": {"zeta": 1, "narSize": 10, "alpha": "x"}},
			{"id": "b"}
		],
		"edges": [{"source": "a", "target": "b", "attributes": {"kind": "build"}}]
	}`

	g, err := NewJSONProcessor().ProcessData([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "deps", g.Name)
	assert.Equal(t, []models.Attribute{
		{Key: models.AttrLabel, Value: "App"},
		{Key: "zeta", Value: 1.0},
		{Key: models.AttrNarSize, Value: 10.0},
		{Key: "alpha", Value: "x"},
	}, g.AttributeList("a"))
	assert.Equal(t, 10.0, g.Number("a", models.AttrNarSize))
	assert.Empty(t, g.AttributeList("b"))
	assert.True(t, g.HasEdge("a", "b"))
}

func TestJSONProcessorErrors(t *testing.T) {
	_, err := NewJSONProcessor().ProcessData([]byte(`{"nodes": [`))
	assert.ErrorContains(t, err, "error parsing JSON")

	_, err = NewJSONProcessor().ProcessData([]byte(`{"nodes": [{"id": "a"}], "edges": [{"source": "x", "target": "a"}]}`))
	assert.ErrorContains(t, err, "source node with ID x does not exist")

	_, err = NewJSONProcessor().ProcessData([]byte(`{"nodes": [{"id": ""}]}`))
	assert.ErrorContains(t, err, "must not be empty")
}

func TestYAMLProcessorKeepsAttributeOrder(t *testing.T) {
	doc := `
name: deps
nodes:
  - id: a
    label: App
    attributes:
      zeta: 1
      closureSize: 2.5
      alpha: x
  - id: b
edges:
  - id: ab
    source: a
    target: b
`
	g, err := NewYAMLProcessor().ProcessData([]byte(doc))
	require.NoError(t, err)

	attrs := g.AttributeList("a")
	require.Len(t, attrs, 4)
	keys := []string{attrs[0].Key, attrs[1].Key, attrs[2].Key, attrs[3].Key}
	assert.Equal(t, []string{models.AttrLabel, "zeta", models.AttrClosureSize, "alpha"}, keys)
	assert.Equal(t, 1.0, g.Number("a", "zeta"))
	assert.Equal(t, 2.5, g.Number("a", models.AttrClosureSize))
	assert.Equal(t, "ab", g.Edges()[0].ID)
}

func TestYAMLProcessorRejectsNonMappingAttributes(t *testing.T) {
	_, err := NewYAMLProcessor().ProcessData([]byte("nodes:\n  - id: a\n    attributes: [1, 2]\n"))
	assert.ErrorContains(t, err, "attributes must be a mapping")
}

func TestGetProcessor(t *testing.T) {
	for format, want := range map[string]string{
		"gexf":  "GEXF Processor",
		".GEXF": "GEXF Processor",
		"json":  "JSON Processor",
		"yml":   "YAML Processor",
		"yaml":  "YAML Processor",
	} {
		p, err := GetProcessor(format)
		require.NoError(t, err, format)
		assert.Equal(t, want, p.GetName())
	}

	_, err := GetProcessor("csv")
	assert.ErrorContains(t, err, "unsupported format: csv")
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "closure.gexf")
	require.NoError(t, os.WriteFile(path, []byte(`<gexf><graph><nodes><node id="a"/></nodes></graph></gexf>`), 0o644))

	g, err := ProcessFile(path)
	require.NoError(t, err)
	assert.Equal(t, "closure", g.Name, "unnamed graphs take the file name")
	assert.Equal(t, 1, g.NodeCount())

	_, err = ProcessFile(filepath.Join(dir, "missing.gexf"))
	assert.ErrorContains(t, err, "failed to read file")

	_, err = ProcessNamed("graph", nil)
	assert.ErrorContains(t, err, "no file extension")
}
