package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		mime string
		want FileType
	}{
		{"application/pdf", TypePDF},
		{"APPLICATION/PDF", TypePDF},
		{"image/png", TypeImage},
		{"image/jpeg", TypeImage},
		{"image/svg+xml", TypeImage},
		{"application/msword", TypeDoc},
		{mimeDocx, TypeDoc},
		{"text/plain; charset=utf-8", TypeOther},
		{"application/zip", TypeOther},
		{"", TypeOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.mime), tc.mime)
	}
}

func TestResolveMIME(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n")

	assert.Equal(t, "image/png", ResolveMIME("image/png", pdf), "declared type wins")
	assert.Equal(t, "application/pdf", ResolveMIME("", pdf))
	assert.Equal(t, "application/pdf", ResolveMIME("application/octet-stream", pdf))
	assert.Equal(t, "text/plain", ResolveMIME("", []byte("hello world")))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".pdf", Extension("CV Final.PDF", "application/pdf"))
	assert.Equal(t, ".pdf", Extension("resume", "application/pdf"))
	assert.Equal(t, ".png", Extension("shot.png?x=1", "image/png"))
	assert.Equal(t, "", Extension("blob", "application/x-unknown-thing"))
}

func TestParseSourceAndCategory(t *testing.T) {
	s, err := ParseSource("")
	require.NoError(t, err)
	assert.Equal(t, SourceManual, s)

	s, err = ParseSource("AUTO")
	require.NoError(t, err)
	assert.Equal(t, SourceAuto, s)

	_, err = ParseSource("email")
	assert.Error(t, err)

	c, err := ParseCategory("COVER_LETTER")
	require.NoError(t, err)
	assert.Equal(t, CategoryCoverLetter, c)

	c, err = ParseCategory(" ")
	require.NoError(t, err)
	assert.Equal(t, CategoryOther, c)

	_, err = ParseCategory("portfolio")
	assert.Error(t, err)
}
