package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Resultado",
		Headers: []string{"Dia", "Periodo", "Turma", "Sala", "Score"},
		Rows: []map[string]string{
			{"Dia": "SEGUNDA", "Periodo": "MATUTINO", "Turma": "Turma A", "Sala": "Sala 101", "Score": "92.50"},
			{"Dia": "SEGUNDA", "Periodo": "MATUTINO", "Turma": "Turma; B", "Sala": "", "Score": "0.00"},
		},
	}
}

func TestCSVExporterUsesSemicolons(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Equal(t, "Dia;Periodo;Turma;Sala;Score", string(lines[0]))
	assert.Equal(t, `SEGUNDA;MATUTINO;"Turma; B";;0.00`, string(lines[2]))
}

func TestPDFExporterProducesDocument(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestForFormat(t *testing.T) {
	csvExp, err := ForFormat("")
	require.NoError(t, err)
	assert.Equal(t, "csv", csvExp.Extension())

	pdfExp, err := ForFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdfExp.ContentType())

	_, err = ForFormat("xlsx")
	assert.Error(t, err)
}
