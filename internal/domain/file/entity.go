package file

import "time"

// FileType is derived from the MIME type at upload time.
type FileType string

const (
	TypePDF   FileType = "pdf"
	TypeImage FileType = "image"
	TypeDoc   FileType = "doc"
	TypeOther FileType = "other"
)

type Source string

const (
	SourceManual Source = "manual"
	SourceAuto   Source = "auto"
)

type Category string

const (
	CategoryResume      Category = "resume"
	CategoryCoverLetter Category = "cover_letter"
	CategoryOther       Category = "other"
)

// File is the metadata row of a stored attachment. StorageKey is an opaque
// backend key, unrelated to the user supplied file name.
type File struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	ApplicationID string    `json:"application_id"`
	FileName      string    `json:"file_name"`
	FileType      FileType  `json:"file_type"`
	MimeType      string    `json:"mime_type"`
	SizeBytes     int64     `json:"size_bytes"`
	StorageKey    string    `json:"-"`
	Source        Source    `json:"source"`
	Category      Category  `json:"category"`
	CreatedAt     time.Time `json:"created_at"`
}

func (File) TableName() string { return "files" }
