package dataset

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// LoadFvecs reads a base and a query file in the TEXMEX .fvecs layout.
func LoadFvecs(basePath, queryPath string) (*Dataset, error) {
	train, err := readFvecsFile(basePath)
	if err != nil {
		return nil, err
	}
	queries, err := readFvecsFile(queryPath)
	if err != nil {
		return nil, err
	}
	if len(train) == 0 {
		return nil, fmt.Errorf("fvecs base %s is empty", basePath)
	}

	dim := len(train[0])
	if len(queries) > 0 && len(queries[0]) != dim {
		return nil, fmt.Errorf("query dim %d does not match base dim %d", len(queries[0]), dim)
	}

	return &Dataset{
		Name:    strings.TrimSuffix(filepath.Base(basePath), filepath.Ext(basePath)),
		Dim:     dim,
		Train:   train,
		IDs:     sequentialIDs(len(train)),
		Queries: queries,
	}, nil
}

func readFvecsFile(path string) ([][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fvecs file: %w", err)
	}
	defer f.Close()

	vectors, err := ReadFvecs(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return vectors, nil
}

// ReadFvecs decodes records of a little-endian int32 dimension followed by
// that many float32 components. All records must share one dimension.
func ReadFvecs(r io.Reader) ([][]float32, error) {
	var (
		vectors [][]float32
		dim     int32
		header  [4]byte
	)

	for {
		if _, err := io.ReadFull(r, header[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return vectors, nil
			}
			return nil, fmt.Errorf("record %d header: %w", len(vectors), err)
		}

		d := int32(binary.LittleEndian.Uint32(header[:]))
		if d <= 0 {
			return nil, fmt.Errorf("record %d has invalid dimension %d", len(vectors), d)
		}
		if dim == 0 {
			dim = d
		} else if d != dim {
			return nil, fmt.Errorf("record %d has dimension %d, expected %d", len(vectors), d, dim)
		}

		raw := make([]byte, 4*int(d))
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("record %d body: %w", len(vectors), err)
		}

		v := make([]float32, d)
		for i := range v {
			v[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		}
		vectors = append(vectors, v)
	}
}

// WriteFvecs encodes vectors in the .fvecs layout.
func WriteFvecs(w io.Writer, vectors [][]float32) error {
	buf := make([]byte, 4)
	for _, v := range vectors {
		binary.LittleEndian.PutUint32(buf, uint32(len(v)))
		if _, err := w.Write(buf); err != nil {
			return err
		}
		for _, x := range v {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(x))
			if _, err := w.Write(buf); err != nil {
				return err
			}
		}
	}
	return nil
}
