package docfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/redline/pkg/document"
)

const sampleJSON = `{
  "paragraphs": [
    {
      "fragments": [
        {"id": 0, "text": "Chapter ", "format": {"bold": "true"}},
        {"id": 1, "text": "1. DEFINITIONS"}
      ]
    }
  ]
}`

const sampleYAML = `paragraphs:
  - fragments:
      - id: 0
        text: "Hello "
      - id: 1
        text: "World"
tables:
  - rows:
      - cells:
          - paragraphs:
              - fragments:
                  - id: 0
                    text: "API"
`

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		check   func(t *testing.T, doc *document.Document)
	}{
		{
			name:    "json_document",
			file:    "doc.json",
			content: sampleJSON,
			check: func(t *testing.T, doc *document.Document) {
				require.Len(t, doc.Paragraphs, 1)
				assert.Equal(t, "Chapter 1. DEFINITIONS", doc.Paragraphs[0].LogicalText())
				assert.Equal(t, document.Format{"bold": "true"}, doc.Paragraphs[0].Fragments[0].Format)
			},
		},
		{
			name:    "yaml_document_with_table",
			file:    "doc.yaml",
			content: sampleYAML,
			check: func(t *testing.T, doc *document.Document) {
				assert.Equal(t, "Hello World", doc.Paragraphs[0].LogicalText())
				require.Len(t, doc.Tables, 1)
				assert.Equal(t, "API", doc.Tables[0].Rows[0].Cells[0].Text())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			doc, err := Load(context.Background(), path)
			require.NoError(t, err)
			tt.check(t, doc)
		})
	}
}

func TestLoad_AssignsIDsToUnlabeledFragments(t *testing.T) {
	content := `paragraphs:
  - fragments:
      - text: "a"
      - text: "b"
`
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	doc, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, doc.Validate())
	assert.Equal(t, 0, doc.Paragraphs[0].Fragments[0].ID)
	assert.Equal(t, 1, doc.Paragraphs[0].Fragments[1].ID)
}

func TestLoad_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{
			name:    "unknown_extension",
			file:    "doc.docx",
			content: "binary",
			wantErr: "no codec found",
		},
		{
			name:    "malformed_json",
			file:    "doc.json",
			content: "{not json",
			wantErr: "decoding document",
		},
		{
			name:    "unknown_yaml_field",
			file:    "doc.yaml",
			content: "sections: []",
			wantErr: "decoding document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(context.Background(), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	doc := &document.Document{Paragraphs: []document.Paragraph{
		document.NewParagraph("Hello ", "World"),
	}}

	for _, file := range []string{"doc.json", "doc.yaml"} {
		t.Run(file, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), file)
			ctx := context.Background()

			require.NoError(t, Save(ctx, path, doc))

			loaded, err := Load(ctx, path)
			require.NoError(t, err)
			assert.Equal(t, "Hello World", loaded.Paragraphs[0].LogicalText())
			assert.Len(t, loaded.Paragraphs[0].Fragments, 2)

			// No temp file left behind
			_, err = os.Stat(path + ".tmp")
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestBackupAndRestore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"paragraphs": []}`), 0o644))

	require.NoError(t, Backup(ctx, path))
	require.NoError(t, os.WriteFile(path, []byte(`{"paragraphs": [{"fragments": []}]}`), 0o644))

	require.NoError(t, Restore(ctx, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"paragraphs": []}`, string(data))

	// Restore consumes the backup
	_, err = os.Stat(path + ".bak")
	assert.True(t, os.IsNotExist(err))
}

func TestBackup_MissingFileIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	require.NoError(t, Backup(context.Background(), path))

	_, err := os.Stat(path + ".bak")
	assert.True(t, os.IsNotExist(err))
}
