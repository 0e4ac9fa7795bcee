// Package docio reads and writes family documents as files, with optional
// zstd compression and a choice of encoding.
package docio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	family "github.com/automainint/go-family"
)

// Format names a document encoding.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatBinary Format = "binary"
	FormatText   Format = "text"
	FormatCBOR   Format = "cbor"
)

// maxInflated bounds the size of a decompressed document.
const maxInflated = 1 << 30

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// ParseFormat parses a format name as accepted on the command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatBinary, FormatText, FormatCBOR:
		return f, nil
	case "":
		return FormatAuto, nil
	default:
		return "", fmt.Errorf("docio: unknown format %q", s)
	}
}

// FormatFromPath guesses the encoding from a file extension. A trailing
// .zst is ignored. Unknown extensions give FormatAuto.
func FormatFromPath(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".zst" {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
	}
	switch ext {
	case ".fb", ".bin":
		return FormatBinary
	case ".ft", ".txt", ".family":
		return FormatText
	case ".cbor":
		return FormatCBOR
	default:
		return FormatAuto
	}
}

// IsCompressed reports whether data starts with a zstd frame.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// Decode decodes a document, inflating it first if it is zstd compressed.
func Decode(data []byte, format Format, opts ...family.Option) (family.Value, error) {
	if IsCompressed(data) {
		var err error
		if data, err = inflate(data); err != nil {
			return family.Value{}, err
		}
	}

	switch format {
	case FormatAuto, "":
		return family.UnmarshalAny(data, opts...)
	case FormatBinary:
		return family.UnmarshalBinary(data, opts...)
	case FormatText:
		return family.UnmarshalText(data, opts...)
	case FormatCBOR:
		return family.UnmarshalCBOR(data, opts...)
	default:
		return family.Value{}, fmt.Errorf("docio: unknown format %q", format)
	}
}

// Encode encodes v. FormatAuto writes the binary form.
func Encode(v family.Value, format Format, compress bool, opts ...family.Option) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatAuto, "", FormatBinary:
		data, err = family.MarshalBinary(v, opts...)
	case FormatText:
		data, err = family.MarshalText(v, opts...)
		if err == nil {
			data = append(data, '\n')
		}
	case FormatCBOR:
		data, err = family.MarshalCBOR(v, opts...)
	default:
		err = fmt.Errorf("docio: unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if compress {
		return deflate(data)
	}
	return data, nil
}

// Load reads a whole document from r.
func Load(r io.Reader, format Format, opts ...family.Option) (family.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return family.Value{}, fmt.Errorf("docio: read: %w", err)
	}
	return Decode(data, format, opts...)
}

// Store writes a document to w.
func Store(w io.Writer, v family.Value, format Format, compress bool, opts ...family.Option) error {
	data, err := Encode(v, format, compress, opts...)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("docio: write: %w", err)
	}
	return nil
}

// ReadFile reads the document stored at path.
func ReadFile(path string, format Format, opts ...family.Option) (family.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return family.Value{}, fmt.Errorf("docio: %w", err)
	}
	v, err := Decode(data, format, opts...)
	if err != nil {
		return family.Value{}, fmt.Errorf("docio: %s: %w", path, err)
	}
	return v, nil
}

// WriteFile writes v to path, replacing any existing file.
func WriteFile(path string, v family.Value, format Format, compress bool, opts ...family.Option) error {
	data, err := Encode(v, format, compress, opts...)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("docio: %w", err)
	}
	return nil
}

func inflate(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxInflated))
	if err != nil {
		return nil, fmt.Errorf("docio: zstd: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("docio: zstd: %w", err)
	}
	return out, nil
}

func deflate(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("docio: zstd: %w", err)
	}
	out := enc.EncodeAll(data, nil)
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("docio: zstd: %w", err)
	}
	return out, nil
}
