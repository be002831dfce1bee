package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rosterDataset() Dataset {
	return Dataset{
		Title:   "Kelas Matematika",
		Headers: []string{"Nama", "Email", "Peran"},
		Rows: []map[string]string{
			{"Nama": "Budi", "Email": "budi@mail.com", "Peran": "GURU"},
			{"Nama": "Siti, A", "Email": "siti@mail.com", "Peran": "SISWA"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(rosterDataset())
	require.NoError(t, err)
	assert.Equal(t, "Nama,Email,Peran\nBudi,budi@mail.com,GURU\n\"Siti, A\",siti@mail.com,SISWA\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()
	out, err := exporter.Render(rosterDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, "application/pdf", exporter.ContentType())
	assert.Equal(t, "pdf", exporter.Extension())
}

func TestCSVExporterNeutralizesFormulas(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"Nama"},
		Rows:    []map[string]string{{"Nama": "=HYPERLINK(\"x\")"}, {"Nama": "-5"}, {"Nama": "Ani"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Nama\n\"'=HYPERLINK(\"\"x\"\")\"\n'-5\nAni\n", string(out))
}

func TestPDFExporterPaginatesLongRosters(t *testing.T) {
	data := rosterDataset()
	data.Subtitle = "2 anggota"
	data.Widths = []float64{3, 4, 1}
	for i := 0; i < 120; i++ {
		data.Rows = append(data.Rows, map[string]string{"Nama": "Siswa", "Email": "s@mail.com", "Peran": "SISWA"})
	}
	short, err := NewPDFExporter().Render(rosterDataset())
	require.NoError(t, err)
	long, err := NewPDFExporter().Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(long, []byte("%PDF")))
	assert.Greater(t, len(long), len(short))
}

func TestColumnWidths(t *testing.T) {
	widths := columnWidths(Dataset{Headers: []string{"a", "b", "c"}, Widths: []float64{2, 0}}, 100)
	assert.InDeltaSlice(t, []float64{50, 25, 25}, widths, 0.001)
}
