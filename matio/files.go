package matio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/katalvlaran/matbench/matrix"
)

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnavailable, err)
	}

	return f, nil
}

func readFile(path string, parse func(io.Reader) (*matrix.Dense, error)) (*matrix.Dense, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// ReadMatrixFile reads a headed matrix file.
func ReadMatrixFile(path string) (*matrix.Dense, error) {
	return readFile(path, ReadMatrix)
}

// ReadSquareFile reads a size×size operand file.
func ReadSquareFile(path string, size int) (*matrix.Dense, error) {
	return readFile(path, func(r io.Reader) (*matrix.Dense, error) { return ReadSquare(r, size) })
}

// ReadRowsFile reads a result file.
func ReadRowsFile(path string) (*matrix.Dense, error) {
	return readFile(path, ReadRows)
}

// WriteMatrixFile writes m to path in the result layout, creating parent
// directories as needed.
func WriteMatrixFile(path string, m *matrix.Dense) error {
	return writeFile(path, m, WriteMatrix)
}

// WriteHeadedFile writes m to path in the headed layout.
func WriteHeadedFile(path string, m *matrix.Dense) error {
	return writeFile(path, m, WriteHeaded)
}

func writeFile(path string, m *matrix.Dense, write func(io.Writer, *matrix.Dense) error) (err error) {
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	if err = write(f, m); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}
