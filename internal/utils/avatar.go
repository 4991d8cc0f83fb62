package utils

// avatar.go is the image collaborator for profile avatars: it validates an
// upload before any decoding happens and normalizes accepted images to a
// fixed 250x250 PNG so the public avatar endpoint always serves image/png.

import (
    "bytes"
    "errors"
    "image/png"
    "path/filepath"
    "strings"

    "github.com/disintegration/imaging"
)

// MaxAvatarBytes is the upload size ceiling, checked before decoding.
const MaxAvatarBytes = 1000000

// Normalized avatar dimensions.
const avatarSize = 250

var (
    ErrAvatarTooLarge = errors.New("avatar must be smaller than 1MB")
    ErrAvatarExt      = errors.New("please upload an image (jpg, jpeg or png)")
    ErrAvatarDecode   = errors.New("could not decode avatar image")
)

// ValidateAvatarUpload rejects uploads by size and file extension before
// the raw bytes are handed to the decoder.  Only jpg, jpeg and png
// extensions are accepted, matching what the decoder supports here.
func ValidateAvatarUpload(filename string, size int64) error {
    if size > MaxAvatarBytes {
        return ErrAvatarTooLarge
    }
    switch strings.ToLower(filepath.Ext(filename)) {
    case ".jpg", ".jpeg", ".png":
        return nil
    }
    return ErrAvatarExt
}

// NormalizeAvatar decodes the raw upload, resizes it to 250x250 and
// re-encodes it as PNG.  The returned bytes are what gets stored; the
// original upload is discarded.
func NormalizeAvatar(raw []byte) ([]byte, error) {
    img, err := imaging.Decode(bytes.NewReader(raw))
    if err != nil {
        return nil, ErrAvatarDecode
    }
    resized := imaging.Resize(img, avatarSize, avatarSize, imaging.Lanczos)
    var buf bytes.Buffer
    if err := png.Encode(&buf, resized); err != nil {
        return nil, err
    }
    return buf.Bytes(), nil
}
