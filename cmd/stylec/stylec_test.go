package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testConfig = `name: cli
breakpoints: [960]
mods:
  active: [dark]
logging:
  level: error
presets:
  card:
    fill: "#surface"
    color:
      "": "#text"
      dark: "#inverse"
    padding: [2x, 1x]
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "styles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))
	return path
}

func execute(args ...string) (string, string, error) {
	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRenderCommand(t *testing.T) {
	path := writeConfig(t)

	stdout, _, err := execute("render", "card", "--config", path)
	require.NoError(t, err)

	want := "outline: none;\n" +
		"background-color: var(--surface-color);\n" +
		"color: var(--inverse-color);\n" +
		"@media (min-width: 960px) {\npadding: calc(var(--gap) * 2);\n}\n" +
		"@media (max-width: 959px) {\npadding: var(--gap);\n}\n"
	require.Equal(t, want, stdout)
}

func TestRenderCommandAppliesProps(t *testing.T) {
	path := writeConfig(t)

	stdout, _, err := execute("render", "card", "--config", path, "--props", `{"fill": "#accent", "opacity": 0.5}`, "--summary")
	require.NoError(t, err)
	require.Contains(t, stdout, "background-color = var(--accent-color)\n")
	require.Contains(t, stdout, "opacity = 0.5\n")
	require.Contains(t, stdout, "@media (min-width: 960px) (1 declarations)\n")
}

func TestRenderCommandRejectsBadProps(t *testing.T) {
	path := writeConfig(t)

	_, _, err := execute("render", "card", "--config", path, "--props", `{"fill": [[1]]}`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode props")
}

func TestRenderCommandUnknownComponent(t *testing.T) {
	path := writeConfig(t)

	_, _, err := execute("render", "missing", "--config", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "stylec presets")
}

func TestTraceCommand(t *testing.T) {
	path := writeConfig(t)

	stdout, _, err := execute("trace", "card", "fill", "--config", path, "--props", `{"fill": "#accent"}`)
	require.NoError(t, err)

	var trace struct {
		Style  string `json:"style"`
		Layers []struct {
			Layer string `json:"layer"`
			Value any    `json:"value"`
			Found bool   `json:"found"`
		} `json:"layers"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &trace))
	require.Equal(t, "fill", trace.Style)
	require.Len(t, trace.Layers, 2)
	require.Equal(t, "props", trace.Layers[0].Layer)
	require.Equal(t, "#accent", trace.Layers[0].Value)
	require.Equal(t, "preset", trace.Layers[1].Layer)
}

func TestPresetsCommand(t *testing.T) {
	path := writeConfig(t)

	stdout, _, err := execute("presets", "--config", path)
	require.NoError(t, err)
	require.Equal(t, "card: fill, color, padding\n", stdout)
}

func TestMissingConfig(t *testing.T) {
	_, _, err := execute("presets", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "load config")
}

func TestHandlersCommand(t *testing.T) {
	stdout, _, err := execute("handlers")
	require.NoError(t, err)

	var described []struct {
		Style    string `json:"style"`
		Handlers []struct {
			Name       string `json:"name"`
			Combinator bool   `json:"combinator"`
		} `json:"handlers"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &described))

	byStyle := map[string][]string{}
	for _, desc := range described {
		for _, handler := range desc.Handlers {
			byStyle[desc.Style] = append(byStyle[desc.Style], handler.Name)
		}
	}
	require.Equal(t, []string{"outline", "box-shadow"}, byStyle["outline"])
	require.Equal(t, []string{"display", "flow"}, byStyle["display"])
}
