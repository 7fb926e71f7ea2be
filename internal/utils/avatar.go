package utils

import (
	"bytes"
	"strings"

	"github.com/disintegration/imaging"
)

// AvatarMaxBytes is the largest upload accepted for a profile picture.
const AvatarMaxBytes = 1000000

// avatarSize is the edge length of the stored square avatar.
const avatarSize = 250

// AllowedAvatarExt reports whether the uploaded filename carries one of the
// accepted image extensions.
func AllowedAvatarExt(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range []string{".jpg", ".jpeg", ".png"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// NormalizeAvatar decodes an uploaded image and re-encodes it as a 250x250
// PNG.  Fill crops to the center so non-square uploads are not distorted.
func NormalizeAvatar(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	img := imaging.Fill(src, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
