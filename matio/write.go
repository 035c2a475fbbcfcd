package matio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/katalvlaran/matbench/matrix"
)

// WriteMatrix writes m in the result layout: one row per line, each value
// followed by a single space.
func WriteMatrix(w io.Writer, m *matrix.Dense) error {
	if err := matrix.ValidateNotNil(m); err != nil {
		return fmt.Errorf("matio.WriteMatrix: %w", err)
	}
	bw := bufio.NewWriter(w)
	var buf []byte
	for i := 0; i < m.Rows(); i++ {
		buf = buf[:0]
		for _, v := range m.Row(i) {
			buf = strconv.AppendInt(buf, v, 10)
			buf = append(buf, ' ')
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("matio.WriteMatrix: %w", err)
		}
	}

	return bw.Flush()
}

// WriteHeaded writes m in the headed layout: "rows cols", then one row per
// line with values separated by single spaces.
func WriteHeaded(w io.Writer, m *matrix.Dense) error {
	if err := matrix.ValidateNotNil(m); err != nil {
		return fmt.Errorf("matio.WriteHeaded: %w", err)
	}
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %d\n", m.Rows(), m.Cols()); err != nil {
		return fmt.Errorf("matio.WriteHeaded: %w", err)
	}
	var buf []byte
	for i := 0; i < m.Rows(); i++ {
		buf = buf[:0]
		for j, v := range m.Row(i) {
			if j > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendInt(buf, v, 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("matio.WriteHeaded: %w", err)
		}
	}

	return bw.Flush()
}
