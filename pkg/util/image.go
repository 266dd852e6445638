package util

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidImagePayload = errors.New("invalid image payload")

// ImagePayload is a decoded data-URI image submission.
type ImagePayload struct {
	Data []byte
	Ext  string // "png", "jpeg", ...
}

// DecodeImagePayload decodes a "data:image/<ext>;base64,<data>" string, the
// format clients submit recipe images in.
func DecodeImagePayload(s string) (*ImagePayload, error) {
	if !strings.HasPrefix(s, "data:image/") {
		return nil, ErrInvalidImagePayload
	}
	meta, encoded, found := strings.Cut(s, ";base64,")
	if !found || encoded == "" {
		return nil, ErrInvalidImagePayload
	}
	ext := meta[strings.LastIndex(meta, "/")+1:]
	if ext == "" {
		return nil, ErrInvalidImagePayload
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidImagePayload
	}
	return &ImagePayload{Data: data, Ext: ext}, nil
}
