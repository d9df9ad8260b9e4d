package pdf

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

var ErrInvalidImage = errors.New("invalid_image")

// FitDataURL decodes a base64 "data:image/...;base64," URL and scales the
// image down to fit within maxWidth x maxHeight, returned as PNG.
func FitDataURL(dataURL string, maxWidth, maxHeight int) ([]byte, error) {
	raw, err := decodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	return fitImage(raw, maxWidth, maxHeight)
}

func decodeDataURL(dataURL string) ([]byte, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidImage
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return raw, nil
}

func fitImage(raw []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	fitted := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
