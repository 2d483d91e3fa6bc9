// SPDX-License-Identifier: MIT

package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/kylincaster/PAOFLOW/tensor"
)

// Suffixes selecting a compressed encoding in Create and Open.
const (
	CompressedSuffix = ".zst"
	LZ4Suffix        = ".lz4"
)

// components names the nine tensor entries in row-major order.
var components = [9]string{"xx", "xy", "xz", "yx", "yy", "yz", "zx", "zy", "zz"}

// Option configures Create.
type Option func(*options)

type options struct {
	level int
}

// WithCompressionLevel sets the zstd level (1..22) for ".zst" outputs.
// ".lz4" outputs always use the lz4 default.
func WithCompressionLevel(level int) Option {
	return func(o *options) { o.level = level }
}

// WriteColumns writes one "index  value" line per entry.
func WriteColumns(w io.Writer, values []float64) error {
	bw := bufio.NewWriter(w)
	for i, v := range values {
		if _, err := fmt.Fprintf(bw, "%3d  %.5f\n", i, v); err != nil {
			return fmt.Errorf("WriteColumns: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("WriteColumns: %w", err)
	}

	return nil
}

// WriteDielectric writes a commented header and one line per frequency:
// the energy followed by the nine components of part [3, 3, len(ene)].
func WriteDielectric(w io.Writer, ene []float64, part *tensor.Real) error {
	F := len(ene)
	if part == nil || part.Rank() != 3 || part.Dim(0) != 3 || part.Dim(1) != 3 || part.Dim(2) != F {
		return fmt.Errorf("WriteDielectric: tensor does not match %d energies: %w", F, ErrShapeMismatch)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %-10s", "energy(eV)")
	for _, c := range components {
		fmt.Fprintf(bw, " %12s", c)
	}
	bw.WriteByte('\n')

	data := part.Data()
	for f, e := range ene {
		fmt.Fprintf(bw, "%12.5f", e)
		for ij := range components {
			fmt.Fprintf(bw, " %12.5f", data[ij*F+f])
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("WriteDielectric: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("WriteDielectric: %w", err)
	}

	return nil
}

// file closes the optional encoder before the underlying file.
type file struct {
	fh  *os.File
	enc io.WriteCloser
}

func (f *file) Write(p []byte) (int, error) {
	if f.enc != nil {
		return f.enc.Write(p)
	}

	return f.fh.Write(p)
}

func (f *file) Close() error {
	var encErr error
	if f.enc != nil {
		encErr = f.enc.Close()
	}

	return errors.Join(encErr, f.fh.Close())
}

// Create truncates or creates path. Paths ending in CompressedSuffix are
// zstd-encoded and paths ending in LZ4Suffix lz4-framed; Close flushes the
// frame.
func Create(path string, opts ...Option) (io.WriteCloser, error) {
	o := options{level: 3}
	for _, fn := range opts {
		fn(&o)
	}

	fh, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	switch {
	case strings.HasSuffix(path, CompressedSuffix):
		enc, err := zstd.NewWriter(fh, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(o.level)))
		if err != nil {
			_ = fh.Close()
			return nil, fmt.Errorf("Create: %w", err)
		}
		return &file{fh: fh, enc: enc}, nil
	case strings.HasSuffix(path, LZ4Suffix):
		return &file{fh: fh, enc: lz4.NewWriter(fh)}, nil
	default:
		return &file{fh: fh}, nil
	}
}

// WriteFile creates path, runs write against it and closes it.
func WriteFile(path string, write func(io.Writer) error, opts ...Option) (err error) {
	w, err := Create(path, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	return write(w)
}

// Open opens a report for reading, decoding compressed files by suffix.
func Open(path string) (io.ReadCloser, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}
	switch {
	case strings.HasSuffix(path, CompressedSuffix):
		dec, err := zstd.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, fmt.Errorf("Open: %w", err)
		}
		return &decoder{r: dec, fh: fh, release: dec.Close}, nil
	case strings.HasSuffix(path, LZ4Suffix):
		return &decoder{r: lz4.NewReader(fh), fh: fh}, nil
	default:
		return fh, nil
	}
}

type decoder struct {
	r       io.Reader
	fh      *os.File
	release func()
}

func (d *decoder) Read(p []byte) (int, error) { return d.r.Read(p) }

func (d *decoder) Close() error {
	if d.release != nil {
		d.release()
	}

	return d.fh.Close()
}
