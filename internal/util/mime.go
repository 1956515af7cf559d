package util

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
)

const sniffLen = 512

// SniffContentType reads up to 512 bytes from r and detects their content
// type. The returned reader replays the sniffed bytes followed by the rest of r.
func SniffContentType(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	head = head[:n]

	return http.DetectContentType(head), io.MultiReader(bytes.NewReader(head), r), nil
}

func IsImageMIME(mimeType string) bool {
	cleaned := strings.ToLower(strings.TrimSpace(mimeType))
	return strings.HasPrefix(cleaned, "image/")
}
