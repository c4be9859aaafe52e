package matcher

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/MimeLyc/idiom-merger/internal/errs"
)

// Blob layout: magic, format version byte, compression byte, payload.
// The payload is a CBOR snapshot, optionally zstd-compressed.
const (
	blobMagic     = "IDMB"
	FormatVersion = 1
	headerLen     = len(blobMagic) + 2
)

// Compression identifies how a blob payload is compressed. The values
// are stored in blobs; do not renumber.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionZstd Compression = 1
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

type snapshot struct {
	Version  int       `cbor:"1,keyasint"`
	FoldCase bool      `cbor:"2,keyasint"`
	Patterns []Pattern `cbor:"3,keyasint"`
}

// Core Deterministic Encoding: the same matcher always encodes to the
// same bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("matcher: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		MaxArrayElements: 1 << 24,
	}.DecMode()
	if err != nil {
		panic("matcher: CBOR decoder initialization failed: " + err.Error())
	}
}

// Encode serializes m into the blob format.
func Encode(m *PhraseMatcher, compression Compression) ([]byte, error) {
	payload, err := encMode.Marshal(snapshot{
		Version:  FormatVersion,
		FoldCase: m.FoldCase(),
		Patterns: m.Patterns(),
	})
	if err != nil {
		return nil, errs.Wrap(err, errs.Encode, "encode matcher snapshot")
	}

	switch compression {
	case CompressionNone:
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, errs.Wrap(err, errs.Encode, "create zstd encoder")
		}
		payload = enc.EncodeAll(payload, nil)
		enc.Close()
	default:
		return nil, errs.New(errs.Encode, "unsupported compression").WithContext("compression", compression)
	}

	var buf bytes.Buffer
	buf.Grow(headerLen + len(payload))
	buf.WriteString(blobMagic)
	buf.WriteByte(FormatVersion)
	buf.WriteByte(byte(compression))
	buf.Write(payload)
	return buf.Bytes(), nil
}

// Decode rebuilds a matcher from a blob. Any header, compression or
// payload problem is an errs.Decode error.
func Decode(data []byte) (*PhraseMatcher, error) {
	if len(data) < headerLen || string(data[:len(blobMagic)]) != blobMagic {
		return nil, errs.New(errs.Decode, "not a matcher blob")
	}
	if version := data[len(blobMagic)]; version != FormatVersion {
		return nil, errs.New(errs.Decode, "unsupported blob version").
			WithContext("version", version).
			WithContext("supported", FormatVersion)
	}

	compression := Compression(data[len(blobMagic)+1])
	payload := data[headerLen:]

	switch compression {
	case CompressionNone:
	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, errs.Wrap(err, errs.Decode, "create zstd decoder")
		}
		defer dec.Close()

		payload, err = dec.DecodeAll(payload, nil)
		if err != nil {
			return nil, errs.Wrap(err, errs.Decode, "decompress matcher blob")
		}
	default:
		return nil, errs.New(errs.Decode, "unknown blob compression").WithContext("compression", compression)
	}

	var snap snapshot
	if err := decMode.Unmarshal(payload, &snap); err != nil {
		return nil, errs.Wrap(err, errs.Decode, "decode matcher snapshot")
	}
	if snap.Version != FormatVersion {
		return nil, errs.New(errs.Decode, "snapshot version mismatch").WithContext("version", snap.Version)
	}

	m := NewPhraseMatcher(snap.FoldCase)
	for _, p := range snap.Patterns {
		m.Add(p.Key, p.Tokens...)
	}
	return m, nil
}

// Save writes m to path through a temporary file so readers never see a
// partial blob.
func Save(path string, m *PhraseMatcher, compression Compression) error {
	data, err := Encode(m, compression)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(err, errs.FileWrite, "create matcher directory").WithContext("path", dir)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return errs.Wrap(err, errs.FileWrite, "write matcher blob").WithContext("path", tmpPath)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errs.Wrap(err, errs.FileWrite, "replace matcher blob").WithContext("path", path)
	}
	return nil
}
