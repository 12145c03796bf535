package storage

import (
	"Foodgram-Backend/domain"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBase64Image(t *testing.T) {
	png := base64.StdEncoding.EncodeToString(append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 8)...))

	for _, raw := range []string{png, "data:image/png;base64," + png} {
		img, err := DecodeBase64Image(raw)
		require.NoError(t, err)
		assert.Equal(t, "image/png", img.ContentType)
		assert.True(t, strings.HasSuffix(img.FileName(), ".png"))
	}

	invalid := []string{
		"",
		"data:image/png,abc",
		"%%%",
		base64.StdEncoding.EncodeToString([]byte("plain text, not an image")),
	}
	for _, raw := range invalid {
		_, err := DecodeBase64Image(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidImage, raw)
	}
}
