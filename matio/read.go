// SPDX-License-Identifier: MIT

package matio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/matbench/matrix"
)

// tokens yields whitespace-separated integers from r.
type tokens struct {
	sc  *bufio.Scanner
	pos int
}

func newTokens(r io.Reader) *tokens {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	sc.Split(bufio.ScanWords)
	return &tokens{sc: sc}
}

// next returns the next integer; ok is false at a clean end of input.
func (t *tokens) next() (v int64, ok bool, err error) {
	if !t.sc.Scan() {
		if err = t.sc.Err(); err != nil {
			return 0, false, fmt.Errorf("%w: %w", ErrInputUnavailable, err)
		}
		return 0, false, nil
	}
	t.pos++
	v, err = strconv.ParseInt(t.sc.Text(), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("token %d %q: %w", t.pos, t.sc.Text(), ErrMalformed)
	}

	return v, true, nil
}

func (t *tokens) fill(dst []int64) error {
	for i := range dst {
		v, ok, err := t.next()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("got %d of %d values: %w", i, len(dst), ErrMalformed)
		}
		dst[i] = v
	}

	return nil
}

func (t *tokens) expectEnd() error {
	_, ok, err := t.next()
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("trailing value at token %d: %w", t.pos, ErrMalformed)
	}

	return nil
}

// ReadMatrix parses the headed layout: "rows cols" followed by exactly
// rows*cols values.
func ReadMatrix(r io.Reader) (*matrix.Dense, error) {
	t := newTokens(r)
	var hdr [2]int64
	if err := t.fill(hdr[:]); err != nil {
		return nil, fmt.Errorf("matio.ReadMatrix header: %w", err)
	}
	if hdr[0] <= 0 || hdr[1] <= 0 {
		return nil, fmt.Errorf("matio.ReadMatrix header %dx%d: %w", hdr[0], hdr[1], ErrMalformed)
	}
	m, err := matrix.NewDense(int(hdr[0]), int(hdr[1]))
	if err != nil {
		return nil, fmt.Errorf("matio.ReadMatrix: %w", err)
	}
	if err = t.fill(m.Data()); err != nil {
		return nil, fmt.Errorf("matio.ReadMatrix: %w", err)
	}
	if err = t.expectEnd(); err != nil {
		return nil, fmt.Errorf("matio.ReadMatrix: %w", err)
	}

	return m, nil
}

// ReadSquare parses a size×size operand with no header. A first line of
// "size size" followed by size*size values is accepted as a header.
func ReadSquare(r io.Reader, size int) (*matrix.Dense, error) {
	m, err := matrix.NewDense(size, size)
	if err != nil {
		return nil, fmt.Errorf("matio.ReadSquare: %w", err)
	}
	t := newTokens(r)
	data := m.Data()
	if err = t.fill(data); err != nil {
		return nil, fmt.Errorf("matio.ReadSquare(%d): %w", size, err)
	}

	// A headed file has two values left over once size*size are read.
	var rest [2]int64
	v, ok, err := t.next()
	if err != nil {
		return nil, fmt.Errorf("matio.ReadSquare(%d): %w", size, err)
	}
	if !ok {
		return m, nil
	}
	rest[0] = v
	if v, ok, err = t.next(); err != nil || !ok {
		return nil, fmt.Errorf("matio.ReadSquare(%d): odd trailing value: %w", size, ErrMalformed)
	}
	rest[1] = v
	if err = t.expectEnd(); err != nil {
		return nil, fmt.Errorf("matio.ReadSquare(%d): %w", size, err)
	}
	all := make([]int64, 0, len(data)+2)
	all = append(append(all, data...), rest[:]...)
	if all[0] != int64(size) || all[1] != int64(size) {
		return nil, fmt.Errorf("matio.ReadSquare(%d): header %dx%d: %w", size, all[0], all[1], ErrMalformed)
	}
	copy(data, all[2:])

	return m, nil
}

// ReadRows parses the result layout: one matrix row per non-blank line.
// The shape is inferred; every row must have the same width.
func ReadRows(r io.Reader) (*matrix.Dense, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64<<20)

	var (
		data  []int64
		rows  int
		width = -1
	)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if width < 0 {
			width = len(fields)
		} else if len(fields) != width {
			return nil, fmt.Errorf("matio.ReadRows line %d: %d values, want %d: %w", line, len(fields), width, ErrMalformed)
		}
		for _, f := range fields {
			v, err := strconv.ParseInt(f, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("matio.ReadRows line %d %q: %w", line, f, ErrMalformed)
			}
			data = append(data, v)
		}
		rows++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("matio.ReadRows: %w: %w", ErrInputUnavailable, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("matio.ReadRows: empty input: %w", ErrMalformed)
	}

	return matrix.NewDenseFrom(rows, width, data)
}
