package storage

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"Foodgram-Backend/domain"
)

var AllowImage = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

type Image struct {
	Body        []byte
	ContentType string
	Extension   string
}

// FileName returns a random object name carrying the image extension.
func (i Image) FileName() string {
	return uuid.NewString() + "." + i.Extension
}

// DecodeBase64Image accepts "data:image/png;base64,<payload>" or a bare base64 payload.
// The content type is sniffed from the decoded bytes, not trusted from the prefix.
func DecodeBase64Image(raw string) (Image, error) {
	payload := raw
	if strings.HasPrefix(raw, "data:") {
		idx := strings.Index(raw, ";base64,")
		if idx < 0 {
			return Image{}, domain.ErrInvalidImage
		}
		payload = raw[idx+len(";base64,"):]
	}

	body, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(body) == 0 {
		return Image{}, domain.ErrInvalidImage
	}

	contentType := http.DetectContentType(body)
	ext, ok := AllowImage[contentType]
	if !ok {
		return Image{}, domain.ErrInvalidImage
	}

	return Image{Body: body, ContentType: contentType, Extension: ext}, nil
}
