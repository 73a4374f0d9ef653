package flat

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/lectio-labs/lectio-cli/internal/core/domain"
)

// On-disk layout per document, both files keyed by document ID:
//
//	<dir>/<id>.lxvi      vector file: magic, version, dimension, count,
//	                     then count*dimension little-endian float32 values
//	<dir>/<id>.meta.json metadata file: versioned JSON with the
//	                     vector_id -> chunk metadata records
//
// The two files are loaded together and cross-checked; any inconsistency
// is a corrupt-index error for that document only.

const (
	vectorMagic   = "LXVI"
	codecVersion  = uint16(1)
	vectorFileExt = ".lxvi"
	metaFileExt   = ".meta.json"
)

// metaFile is the JSON envelope of the metadata artifact.
type metaFile struct {
	Version    int                   `json:"version"`
	DocumentID string                `json:"document_id"`
	Dimensions int                   `json:"dimensions"`
	Count      int                   `json:"count"`
	Records    []domain.VectorRecord `json:"records"`
}

// VectorFilePath returns the vector artifact path for a document.
func VectorFilePath(dir, documentID string) string {
	return filepath.Join(dir, documentID+vectorFileExt)
}

// MetaFilePath returns the metadata artifact path for a document.
func MetaFilePath(dir, documentID string) string {
	return filepath.Join(dir, documentID+metaFileExt)
}

// Persist writes the index state to its durable artifacts.
// Each file is written to a temp file and renamed into place, so a
// concurrent load never observes a torn file.
func (ix *Index) Persist() error {
	vectors, records := ix.snapshot()

	if err := os.MkdirAll(ix.dir, 0700); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	vecData := encodeVectors(ix.dimensions, vectors)
	metaData, err := json.Marshal(metaFile{
		Version:    int(codecVersion),
		DocumentID: ix.documentID,
		Dimensions: ix.dimensions,
		Count:      len(records),
		Records:    records,
	})
	if err != nil {
		return fmt.Errorf("encoding metadata for %q: %w", ix.documentID, err)
	}

	if err := writeAtomic(VectorFilePath(ix.dir, ix.documentID), vecData); err != nil {
		return fmt.Errorf("writing vector file for %q: %w", ix.documentID, err)
	}
	if err := writeAtomic(MetaFilePath(ix.dir, ix.documentID), metaData); err != nil {
		return fmt.Errorf("writing metadata file for %q: %w", ix.documentID, err)
	}
	return nil
}

// Load reads a document's persisted index from dir.
// Returns domain.ErrNotFound when no artifacts exist, and an error wrapping
// domain.ErrCorruptIndex when the artifacts fail integrity checks.
func Load(documentID, dir string) (*Index, error) {
	if err := validateDocumentID(documentID); err != nil {
		return nil, err
	}

	vecData, err := os.ReadFile(VectorFilePath(dir, documentID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("index for %q: %w", documentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading vector file for %q: %w", documentID, err)
	}

	metaData, err := os.ReadFile(MetaFilePath(dir, documentID))
	if err != nil {
		if os.IsNotExist(err) {
			// Vector file without metadata is a torn state, not absence.
			return nil, fmt.Errorf("index for %q missing metadata file: %w", documentID, domain.ErrCorruptIndex)
		}
		return nil, fmt.Errorf("reading metadata file for %q: %w", documentID, err)
	}

	dimensions, vectors, err := decodeVectors(vecData)
	if err != nil {
		return nil, fmt.Errorf("index for %q: %w", documentID, err)
	}

	var meta metaFile
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return nil, fmt.Errorf("index for %q: %w: %v", documentID, domain.ErrCorruptIndex, err)
	}

	if meta.Version != int(codecVersion) {
		return nil, fmt.Errorf("index for %q: %w: unsupported metadata version %d",
			documentID, domain.ErrCorruptIndex, meta.Version)
	}
	if meta.Dimensions != dimensions || meta.Count != len(vectors) || len(meta.Records) != len(vectors) {
		return nil, fmt.Errorf("index for %q: %w: metadata disagrees with vector file (dim %d/%d, count %d/%d/%d)",
			documentID, domain.ErrCorruptIndex,
			meta.Dimensions, dimensions, meta.Count, len(vectors), len(meta.Records))
	}

	ix, err := New(documentID, dimensions, dir)
	if err != nil {
		return nil, err
	}
	ix.vectors = vectors
	ix.records = meta.Records
	return ix, nil
}

// encodeVectors serializes vectors as header + packed little-endian float32.
func encodeVectors(dimensions int, vectors [][]float32) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, 16+len(vectors)*dimensions*4))
	buf.WriteString(vectorMagic)
	_ = binary.Write(buf, binary.LittleEndian, codecVersion)
	_ = binary.Write(buf, binary.LittleEndian, uint32(dimensions))
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(vectors)))

	row := make([]byte, 4)
	for _, v := range vectors {
		for _, x := range v {
			binary.LittleEndian.PutUint32(row, math.Float32bits(x))
			buf.Write(row)
		}
	}
	return buf.Bytes()
}

// decodeVectors parses the vector artifact, validating magic, version and
// payload length.
func decodeVectors(data []byte) (int, [][]float32, error) {
	const headerLen = 4 + 2 + 4 + 4
	if len(data) < headerLen {
		return 0, nil, fmt.Errorf("%w: vector file truncated (%d bytes)", domain.ErrCorruptIndex, len(data))
	}
	if string(data[:4]) != vectorMagic {
		return 0, nil, fmt.Errorf("%w: bad magic %q", domain.ErrCorruptIndex, data[:4])
	}

	version := binary.LittleEndian.Uint16(data[4:6])
	if version != codecVersion {
		return 0, nil, fmt.Errorf("%w: unsupported vector file version %d", domain.ErrCorruptIndex, version)
	}

	dimensions := int(binary.LittleEndian.Uint32(data[6:10]))
	count := int(binary.LittleEndian.Uint32(data[10:14]))
	if dimensions <= 0 {
		return 0, nil, fmt.Errorf("%w: non-positive dimension %d", domain.ErrCorruptIndex, dimensions)
	}

	payload := data[headerLen:]
	want := count * dimensions * 4
	if len(payload) != want {
		return 0, nil, fmt.Errorf("%w: payload is %d bytes, header promises %d",
			domain.ErrCorruptIndex, len(payload), want)
	}

	vectors := make([][]float32, count)
	off := 0
	for i := range vectors {
		row := make([]float32, dimensions)
		for j := range row {
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(payload[off : off+4]))
			off += 4
		}
		vectors[i] = row
	}
	return dimensions, vectors, nil
}

// writeAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// removeArtifacts deletes both durable files for a document.
// Missing files are not an error: deletion is idempotent.
func removeArtifacts(dir, documentID string) error {
	var errs []error
	for _, path := range []string{VectorFilePath(dir, documentID), MetaFilePath(dir, documentID)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
