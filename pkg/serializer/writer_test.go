package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvega/portreport/pkg/portainer"
	"github.com/dvega/portreport/pkg/report"
)

func sampleReport() *report.Report {
	rep := report.New("testhost", "test")
	rep.AddEndpoint(report.EndpointRecord{EndpointID: 1, Endpoint: "alpha", GroupID: 2, Group: "Datacenter"})
	rep.AddService(report.ServiceRecord{
		EndpointID:           1,
		Endpoint:             "alpha",
		Group:                "Datacenter",
		Name:                 "web",
		Replicas:             2,
		Image:                "nginx:1.25",
		EnvironmentVariables: []string{"PORT"},
	})
	rep.AddNodeIfAbsent(report.NodeRecord{Endpoint: "alpha", Hostname: "swarm-01", Role: "manager"})
	rep.SetRequestErrors([]portainer.RequestError{{URL: "http://x/api", Message: "boom"}})
	return rep
}

func TestWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatJSON, &buf)
	require.NoError(t, w.Serialize(context.Background(), sampleReport()))

	var export report.Export
	require.NoError(t, json.Unmarshal(buf.Bytes(), &export))
	require.Len(t, export.Services, 1)
	assert.Equal(t, "web", export.Services[0].Name)
	require.Len(t, export.RequestErrors, 1)
	assert.Equal(t, "boom", export.RequestErrors[0].Message)
}

func TestWriterYAML(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatYAML, &buf)
	require.NoError(t, w.Serialize(context.Background(), sampleReport()))

	var export report.Export
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &export))
	require.Len(t, export.Nodes, 1)
	assert.Equal(t, "swarm-01", export.Nodes[0].Hostname)
}

func TestWriterRejectsXLSX(t *testing.T) {
	w := NewWriter(FormatXLSX, &bytes.Buffer{})
	require.Error(t, w.Serialize(context.Background(), sampleReport()))
}

func TestFormatIsUnknown(t *testing.T) {
	assert.False(t, FormatXLSX.IsUnknown())
	assert.False(t, FormatJSON.IsUnknown())
	assert.False(t, FormatYAML.IsUnknown())
	assert.True(t, Format("csv").IsUnknown())
	assert.True(t, Format("").IsUnknown())
}

func TestNewFileWriter(t *testing.T) {
	t.Run("unknown format", func(t *testing.T) {
		_, err := NewFileWriter(Format("csv"), "out.csv")
		require.Error(t, err)
	})

	t.Run("xlsx requires path", func(t *testing.T) {
		_, err := NewFileWriter(FormatXLSX, "")
		require.Error(t, err)
	})

	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.json")
		s, err := NewFileWriter(FormatJSON, path)
		require.NoError(t, err)
		require.NoError(t, s.Serialize(context.Background(), sampleReport()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"web"`)
	})

	t.Run("empty path falls back to stdout writer", func(t *testing.T) {
		s, err := NewFileWriter(FormatYAML, "")
		require.NoError(t, err)
		require.NotNil(t, s)
	})
}
