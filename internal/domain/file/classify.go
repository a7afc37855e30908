package file

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"jobtracker/internal/pkg/apperr"
)

const (
	mimeOctetStream = "application/octet-stream"
	mimeDocx        = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	maxExtLen       = 10
)

// Classify maps a MIME type onto the coarse file type shown to users.
func Classify(mimeType string) FileType {
	mt := baseMIME(mimeType)
	switch {
	case mt == "application/pdf":
		return TypePDF
	case strings.HasPrefix(mt, "image/"):
		return TypeImage
	case mt == "application/msword", mt == mimeDocx:
		return TypeDoc
	}
	return TypeOther
}

// ResolveMIME trusts the declared type unless it is missing or generic, in
// which case the content is sniffed from head.
func ResolveMIME(declared string, head []byte) string {
	mt := baseMIME(declared)
	if mt != "" && mt != mimeOctetStream {
		return mt
	}
	return baseMIME(mimetype.Detect(head).String())
}

// Extension picks the storage key suffix: the file name's extension when it
// looks sane, otherwise the canonical one for the MIME type.
func Extension(fileName, mimeType string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if len(ext) > 1 && len(ext) <= maxExtLen && isAlnum(ext[1:]) {
		return ext
	}
	if m := mimetype.Lookup(mimeType); m != nil {
		return m.Extension()
	}
	return ""
}

func ParseSource(s string) (Source, error) {
	switch v := Source(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return SourceManual, nil
	case SourceManual, SourceAuto:
		return v, nil
	}
	return "", apperr.Validation("source", fmt.Sprintf("must be one of: %s %s", SourceManual, SourceAuto))
}

func ParseCategory(s string) (Category, error) {
	switch v := Category(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return CategoryOther, nil
	case CategoryResume, CategoryCoverLetter, CategoryOther:
		return v, nil
	}
	return "", apperr.Validation("category", fmt.Sprintf("must be one of: %s %s %s", CategoryResume, CategoryCoverLetter, CategoryOther))
}

func baseMIME(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(s); err == nil {
		return mt
	}
	return strings.ToLower(strings.SplitN(s, ";", 2)[0])
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
