package output_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/csutil/internal/cmd/output"
)

type summary struct {
	Output   string `json:"output"`
	NumItems int    `json:"num_items"`
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "JSON", "yaml", ""} {
		_, err := output.ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := output.ParseFormat("xml")
	assert.Error(t, err)
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, output.FormatYAML, output.DetectFormat("YAML"))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Num Items", output.Title("num_items"))
}

func TestTableFormatterStruct(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.NewFormatter(output.FormatTable).Format(&buf, summary{Output: "out.cs", NumItems: 3}))
	text := buf.String()
	assert.Contains(t, text, "PROPERTY")
	assert.Contains(t, text, "Num Items")
	assert.Contains(t, text, "out.cs")
}

func TestTableFormatterData(t *testing.T) {
	var buf bytes.Buffer
	data := output.Data{
		Headers:         []string{"Field", "Mean"},
		Rows:            [][]string{{"ctf/df1_A", "12000.5"}},
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignRight},
	}
	require.NoError(t, output.NewFormatter(output.FormatTable).Format(&buf, data))
	assert.Contains(t, buf.String(), "ctf/df1_A")
	assert.Contains(t, buf.String(), "12000.5")
}

func TestJSONAndYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.NewFormatter(output.FormatJSON).Format(&buf, summary{Output: "out.cs", NumItems: 3}))
	assert.JSONEq(t, `{"output":"out.cs","num_items":3}`, buf.String())

	buf.Reset()
	require.NoError(t, output.NewFormatter(output.FormatYAML).Format(&buf, map[string]int{"num_items": 3}))
	assert.Equal(t, "num_items: 3\n", buf.String())
}
