package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"compassai/internal/domain"
)

func TestLoader_DefaultDataset(t *testing.T) {
	loader := NewLoader(zap.NewNop())
	tools, err := loader.Load(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, tools, 18)

	require.Equal(t, domain.ToolID("1"), tools[0].ID)
	require.Equal(t, "챗지피티 (ChatGPT)", tools[0].Name)
	require.Equal(t, domain.ToolID("18"), tools[17].ID)
	require.Equal(t, "", tools[17].URL)

	midjourney := tools[4]
	require.Equal(t, "미드저니 (Midjourney)", midjourney.Name)
	require.Equal(t, []string{"디자인/아트", "생산성/협업도구"}, midjourney.Categories)
	require.Equal(t, domain.OriginOverseas, midjourney.Origin)
}

func TestLoader_FormatsAgree(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeTempDataset(t, dir, "tools.yaml", `
tools:
  - id: 7
    name: " 딥툰 (DeepToon) "
    categories: ["디자인/아트"]
    origin: 국내
`)
	tomlPath := writeTempDataset(t, dir, "tools.toml", `
[[tools]]
id = 7
name = "딥툰 (DeepToon)"
categories = ["디자인/아트"]
origin = "국내"
`)
	jsonPath := writeTempDataset(t, dir, "tools.json", `{"tools":[{"id":7,"name":"딥툰 (DeepToon)","categories":["디자인/아트"],"origin":"국내"}]}`)

	loader := NewLoader(zap.NewNop())
	expect := []domain.Tool{{
		ID:         "7",
		Name:       "딥툰 (DeepToon)",
		Categories: []string{"디자인/아트"},
		Origin:     domain.OriginDomestic,
	}}
	for _, path := range []string{yamlPath, tomlPath, jsonPath} {
		got, err := loader.Load(context.Background(), path)
		require.NoError(t, err, path)
		if diff := cmp.Diff(expect, got); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", filepath.Base(path), diff)
		}
	}
}

func TestLoader_ValidationErrors(t *testing.T) {
	path := writeTempDataset(t, t.TempDir(), "tools.yaml", `
tools:
  - id: "1"
    name: A
  - id: "1"
    name: B
  - name: C
  - id: "4"
`)
	_, err := NewLoader(zap.NewNop()).Load(context.Background(), path)
	require.Error(t, err)
	require.Contains(t, err.Error(), `tools[1]: duplicate id "1"`)
	require.Contains(t, err.Error(), "tools[2]: id is required")
	require.Contains(t, err.Error(), "tools[3]: name is required")
}

func TestLoader_UnsupportedExtension(t *testing.T) {
	path := writeTempDataset(t, t.TempDir(), "tools.csv", "id,name\n")
	_, err := NewLoader(zap.NewNop()).Load(context.Background(), path)
	require.Error(t, err)
}

func TestLoader_CanceledContext(t *testing.T) {
	path := writeTempDataset(t, t.TempDir(), "tools.yaml", "tools: []\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader(zap.NewNop()).Load(ctx, path)
	require.ErrorIs(t, err, context.Canceled)
}

func TestExport_RoundTripsEveryFormat(t *testing.T) {
	tools, err := NewLoader(zap.NewNop()).Default()
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"out.yaml", "out.toml", "out.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Export(path, tools))
		got, err := NewLoader(zap.NewNop()).Load(context.Background(), path)
		require.NoError(t, err, name)
		if diff := cmp.Diff(tools, got); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func writeTempDataset(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
