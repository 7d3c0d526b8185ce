package storage

import (
	"context"
	"io"
	"strings"
)

// Storage persists uploaded media and returns a URL the client can load it
// from. Implementations must tolerate Delete on URLs they no longer hold.
type Storage interface {
	Save(ctx context.Context, field, filename, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// Accepts reports whether the content type is allowed for the given upload
// field. Post uploads ("image") take any image plus mp4 video; profile and
// banner pictures take images only; resumes take PDF and Word documents.
func Accepts(field, contentType string) bool {
	isImage := strings.HasPrefix(contentType, "image/")

	switch field {
	case "image":
		return isImage || contentType == "video/mp4"
	case "profilePicture", "bannerImage":
		return isImage
	case "resume":
		switch contentType {
		case "application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document":
			return true
		}
		return false
	}
	return false
}
