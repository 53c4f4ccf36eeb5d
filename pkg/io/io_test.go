package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/modgraph/pkg/graph"
)

const sampleJSON = `{
  "modules": [
    {"class": "App\\DatabaseModule", "exports": ["App\\DatabaseService"]},
    {"class": "App\\UserModule", "short_name": "Users", "imports": ["App\\DatabaseModule"], "exports": ["App\\UserService"]}
  ],
  "edges": [
    {"from": "App\\UserModule", "to": "App\\DatabaseModule", "services": ["App\\DatabaseService"]},
    {"from": "App\\UserModule", "to": "App\\Missing"}
  ]
}`

const sampleHCL = `
module "App/DatabaseModule" {
  exports = ["App/DatabaseService"]
}

module "App/UserModule" {
  short_name = "Users"
  imports    = ["App/DatabaseModule"]
  exports    = ["App/UserService"]
}

dependency {
  from     = "App/UserModule"
  to       = "App/DatabaseModule"
  services = ["App/DatabaseService"]
}

dependency {
  from = "App/UserModule"
  to   = "App/Missing"
}
`

func TestReadJSON(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	assert.Equal(t, 2, g.ModuleCount())
	assert.Equal(t, 2, g.EdgeCount())

	db, ok := g.Module(`App\DatabaseModule`)
	require.True(t, ok)
	assert.Equal(t, "DatabaseModule", db.ShortName)
	assert.Equal(t, []string{`App\DatabaseService`}, db.Exports)

	user, ok := g.Module(`App\UserModule`)
	require.True(t, ok)
	assert.Equal(t, "Users", user.ShortName)

	edges := g.Edges()
	assert.Equal(t, []string{`App\DatabaseService`}, edges[0].ImportedServices)
	assert.Equal(t, `App\Missing`, edges[1].To)
}

func TestReadJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"duplicate", `{"modules":[{"class":"A"},{"class":"A"}],"edges":[]}`, graph.ErrDuplicateModule},
		{"missing class", `{"modules":[{"exports":["X"]}],"edges":[]}`, graph.ErrInvalidModuleID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := ReadJSON(strings.NewReader(`{"modules": [`))
	assert.Error(t, err)
}

func TestReadHCL(t *testing.T) {
	g, err := ReadHCL(strings.NewReader(sampleHCL), "graph.hcl")
	require.NoError(t, err)

	assert.Equal(t, 2, g.ModuleCount())
	assert.Equal(t, 2, g.EdgeCount())

	db, ok := g.Module("App/DatabaseModule")
	require.True(t, ok)
	assert.Equal(t, "DatabaseModule", db.ShortName)
	assert.Empty(t, db.Imports)

	user, _ := g.Module("App/UserModule")
	assert.Equal(t, "Users", user.ShortName)
	assert.Equal(t, []string{"App/DatabaseModule"}, user.Imports)

	edges := g.Edges()
	assert.Equal(t, []string{"App/DatabaseService"}, edges[0].ImportedServices)
	assert.Empty(t, edges[1].ImportedServices)
}

func TestReadHCL_Errors(t *testing.T) {
	_, err := ReadHCL(strings.NewReader(`module "A" {}`+"\n"+`module "A" {}`), "dup.hcl")
	assert.ErrorIs(t, err, graph.ErrDuplicateModule)

	_, err = ReadHCL(strings.NewReader(`module "A" {`), "broken.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.hcl")

	_, err = ReadHCL(strings.NewReader(`dependency { from = "A" }`), "missing.hcl")
	assert.Error(t, err)
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	g, err := ReadHCL(strings.NewReader(sampleHCL), "graph.hcl")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(g, &buf))
	assert.NotContains(t, buf.String(), `"short_name": "DatabaseModule"`)
	assert.Contains(t, buf.String(), `"short_name": "Users"`)

	back, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.Modules(), back.Modules())
	assert.Equal(t, g.Edges(), back.Edges())
}

func TestMarshalJSON_Deterministic(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	a, err := MarshalJSON(g)
	require.NoError(t, err)
	b, err := MarshalJSON(g)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(sampleJSON), 0o644))
	hclPath := filepath.Join(dir, "graph.HCL")
	require.NoError(t, os.WriteFile(hclPath, []byte(sampleHCL), 0o644))

	g, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 2, g.ModuleCount())

	g, err = Load(hclPath)
	require.NoError(t, err)
	assert.Equal(t, 2, g.ModuleCount())

	_, err = Load(filepath.Join(dir, "graph.yaml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(dir, "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExportJSON(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, ExportJSON(g, path))

	back, err := ImportJSON(path)
	require.NoError(t, err)
	assert.Equal(t, g.Modules(), back.Modules())
}

func TestLoad_ExampleFilesAgree(t *testing.T) {
	fromJSON, err := Load(filepath.Join("..", "..", "examples", "shop.json"))
	require.NoError(t, err)
	fromHCL, err := Load(filepath.Join("..", "..", "examples", "shop.hcl"))
	require.NoError(t, err)

	assert.Equal(t, 5, fromJSON.ModuleCount())
	assert.Equal(t, 5, fromJSON.EdgeCount())

	a, err := MarshalJSON(fromJSON)
	require.NoError(t, err)
	b, err := MarshalJSON(fromHCL)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}
