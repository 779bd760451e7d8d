package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AllowedExtensions(t *testing.T) {
	for _, name := range []string{"doc.pdf", "doc.doc", "doc.docx", "doc.txt", "DOC.PDF"} {
		assert.NoError(t, Validate(name, 1024), "expected %s to be accepted", name)
	}
}

func TestValidate_DisallowedExtensions(t *testing.T) {
	for _, name := range []string{"image.png", "archive.zip", "script.sh", "noextension", "doc.pdf.exe"} {
		assert.Error(t, Validate(name, 1024), "expected %s to be rejected", name)
	}
}

func TestValidate_SizeBoundary(t *testing.T) {
	// Exactly 50 MiB is accepted; one byte over is not.
	require.NoError(t, Validate("doc.pdf", MaxFileSize))
	require.Error(t, Validate("doc.pdf", MaxFileSize+1))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my_report_2024.pdf", SanitizeFilename("my report(2024.pdf"))
	assert.Equal(t, "plain-name.txt", SanitizeFilename("plain-name.txt"))
}
