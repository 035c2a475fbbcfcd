package wsnet

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/katalvlaran/matbench/comm"
)

// tagHello is the first frame a dialing rank sends: payload [rank, size].
const tagHello comm.Tag = -1

// headerLen is the number of int64 words before the payload: src, tag, n.
const headerLen = 3

var errFrame = errors.New("wsnet: malformed frame")

// frame is one decoded websocket binary message.
type frame struct {
	src  int
	tag  comm.Tag
	data []int64
}

// encodeFrame lays out [src, tag, n, data...] as little-endian int64 words.
func encodeFrame(src int, tag comm.Tag, data []int64) []byte {
	buf := make([]byte, 8*(headerLen+len(data)))
	binary.LittleEndian.PutUint64(buf[0:], uint64(src))
	binary.LittleEndian.PutUint64(buf[8:], uint64(tag))
	binary.LittleEndian.PutUint64(buf[16:], uint64(len(data)))
	for i, v := range data {
		binary.LittleEndian.PutUint64(buf[8*(headerLen+i):], uint64(v))
	}

	return buf
}

func decodeFrame(buf []byte) (frame, error) {
	if len(buf) < 8*headerLen || len(buf)%8 != 0 {
		return frame{}, fmt.Errorf("%d bytes: %w", len(buf), errFrame)
	}
	f := frame{
		src: int(int64(binary.LittleEndian.Uint64(buf[0:]))),
		tag: comm.Tag(int64(binary.LittleEndian.Uint64(buf[8:]))),
	}
	n := int(binary.LittleEndian.Uint64(buf[16:]))
	if n != len(buf)/8-headerLen {
		return frame{}, fmt.Errorf("declared %d values, carries %d: %w", n, len(buf)/8-headerLen, errFrame)
	}
	f.data = make([]int64, n)
	for i := range f.data {
		f.data[i] = int64(binary.LittleEndian.Uint64(buf[8*(headerLen+i):]))
	}

	return f, nil
}
