// Package upload validates uploaded files and turns them into the base64
// data URLs stored inside product and prescription records.
package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrTooLarge        = errors.New("file is too large")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrInvalidDataURL  = errors.New("invalid data URL")
)

// Policy constrains what an upload may contain. Detection is done on the
// file content, not the client-declared header.
type Policy struct {
	// AllowedTypes lists exact MIME types. Empty means any type matching
	// AllowedPrefix.
	AllowedTypes  []string
	AllowedPrefix string
	// MaxSize in bytes; zero means unlimited.
	MaxSize int64
}

const MB = 1 << 20

// Prescriptions accept scans and PDFs up to 5 MB.
var Prescriptions = Policy{
	AllowedTypes: []string{"image/jpeg", "image/png", "image/webp", "application/pdf"},
	MaxSize:      5 * MB,
}

// ProductImages accept any image without a size limit.
var ProductImages = Policy{
	AllowedPrefix: "image/",
}

// File is an accepted upload.
type File struct {
	Name    string
	Type    string
	Size    int64
	DataURL string
}

func (p Policy) allows(mtype *mimetype.MIME) bool {
	if len(p.AllowedTypes) > 0 {
		for _, allowed := range p.AllowedTypes {
			if mtype.Is(allowed) {
				return true
			}
		}
		return false
	}
	return strings.HasPrefix(mtype.String(), p.AllowedPrefix)
}

// Read validates the multipart file against p and encodes it.
func Read(fh *multipart.FileHeader, p Policy) (File, error) {
	if fh.Size == 0 {
		return File{}, ErrEmptyFile
	}
	if p.MaxSize > 0 && fh.Size > p.MaxSize {
		return File{}, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, fh.Size, p.MaxSize)
	}

	f, err := fh.Open()
	if err != nil {
		return File{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	return Encode(fh.Filename, f, p)
}

// Encode reads r fully and validates it against p.
func Encode(name string, r io.Reader, p Policy) (File, error) {
	if p.MaxSize > 0 {
		r = io.LimitReader(r, p.MaxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return File{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return File{}, ErrEmptyFile
	}
	if p.MaxSize > 0 && int64(len(data)) > p.MaxSize {
		return File{}, fmt.Errorf("%w: limit %d bytes", ErrTooLarge, p.MaxSize)
	}

	mtype := mimetype.Detect(data)
	if !p.allows(mtype) {
		return File{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mtype.String())
	}

	contentType := baseType(mtype.String())
	return File{
		Name:    name,
		Type:    contentType,
		Size:    int64(len(data)),
		DataURL: DataURL(contentType, data),
	}, nil
}

func DataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURL splits a base64 data URL into its content type and bytes.
func ParseDataURL(s string) (contentType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	contentType, ok = strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return contentType, data, nil
}

// baseType drops parameters such as "; charset=utf-8".
func baseType(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

