package matio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// TimingWriter appends "<size> <seconds>" lines. It buffers; call Flush or
// Close before reading the output.
type TimingWriter struct {
	bw  *bufio.Writer
	c   io.Closer
	buf []byte
}

// NewTimingWriter writes timing lines to w.
func NewTimingWriter(w io.Writer) *TimingWriter {
	tw := &TimingWriter{bw: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		tw.c = c
	}

	return tw
}

// CreateTimingFile truncates or creates path, creating parent directories.
func CreateTimingFile(path string) (*TimingWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return NewTimingWriter(f), nil
}

// Write records one observation, elapsed given in seconds.
func (t *TimingWriter) Write(size int, elapsed time.Duration) error {
	t.buf = strconv.AppendInt(t.buf[:0], int64(size), 10)
	t.buf = append(t.buf, ' ')
	t.buf = strconv.AppendFloat(t.buf, elapsed.Seconds(), 'g', -1, 64)
	t.buf = append(t.buf, '\n')
	if _, err := t.bw.Write(t.buf); err != nil {
		return fmt.Errorf("matio.TimingWriter: %w", err)
	}

	return nil
}

// Flush writes buffered lines through.
func (t *TimingWriter) Flush() error { return t.bw.Flush() }

// Close flushes and closes the underlying writer when it is an io.Closer.
func (t *TimingWriter) Close() error {
	err := t.bw.Flush()
	if t.c != nil {
		err = errors.Join(err, t.c.Close())
	}

	return err
}
