package matio

import (
	"fmt"
	"path/filepath"
)

// Operand names accepted by OperandPath.
const (
	OperandA = "A"
	OperandB = "B"
)

// OperandPath returns dir/matrix<which>_<size>.txt.
func OperandPath(dir, which string, size int) string {
	return filepath.Join(dir, fmt.Sprintf("matrix%s_%d.txt", which, size))
}

// ResultPath returns dir/resultMatrix_<size>.txt.
func ResultPath(dir string, size int) string {
	return filepath.Join(dir, fmt.Sprintf("resultMatrix_%d.txt", size))
}

// TimingPath returns dir/timingResults_<variant>.txt.
func TimingPath(dir, variant string) string {
	return filepath.Join(dir, fmt.Sprintf("timingResults_%s.txt", variant))
}
