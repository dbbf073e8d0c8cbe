package attach

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// UploadedFile is an ingested attachment waiting to be sent, or already
// attached to a message. Once attached it is never modified.
type UploadedFile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	URL     string `json:"url"`
	Content string `json:"content,omitempty"`
	IsImage bool   `json:"is_image"`
}

// MIME types whose content is extracted for prompt inclusion.
var textTypes = map[string]bool{
	"text/plain":       true,
	"application/json": true,
	"text/csv":         true,
	"text/html":        true,
}

// newFileID returns a short unique token. Collision avoidance only, not
// cryptographic.
func newFileID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// detectType resolves a MIME type from the file extension, falling back to
// content sniffing for unknown extensions.
func detectType(name string, data []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		if i := strings.Index(t, ";"); i >= 0 {
			t = t[:i]
		}
		return t
	}
	t := http.DetectContentType(data)
	if i := strings.Index(t, ";"); i >= 0 {
		t = t[:i]
	}
	return t
}

// newUploadedFile builds an UploadedFile from raw bytes.
//
// Images carry a base64 data URL and no extracted content. Recognized text
// types carry the decoded text in both URL and Content. Anything else gets a
// best-effort text decode; content from bytes that are not valid UTF-8 text
// is withheld rather than forwarded to the provider.
func newUploadedFile(name string, data []byte) UploadedFile {
	mimeType := detectType(name, data)
	isImage := strings.HasPrefix(mimeType, "image/")

	f := UploadedFile{
		ID:      newFileID(),
		Name:    name,
		Type:    mimeType,
		IsImage: isImage,
	}

	switch {
	case isImage:
		f.URL = fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
	case textTypes[mimeType]:
		f.URL = string(data)
		f.Content = string(data)
	default:
		// Best-effort decode for unrecognized types. Binary data would only
		// pollute the prompt, so it stays out of Content.
		if isTextData(data) {
			f.URL = string(data)
			f.Content = string(data)
		}
	}
	return f
}

func isTextData(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for _, b := range data {
		if b == 0 {
			return false
		}
	}
	return true
}
