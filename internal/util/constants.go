package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
	// DateTimeLocalFormat is what an HTML datetime-local input submits.
	DateTimeLocalFormat = "2006-01-02T15:04"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"
	MimeXLSX        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeCalendar    = "text/calendar; charset=utf-8"
)

var (
	// AllowedAttachmentTypes are MIME prefixes accepted for submission attachments.
	AllowedAttachmentTypes = []string{"application/pdf", "image/", "text/plain", "application/zip"}
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
