package codec

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/redisutil/pkg/logger"
)

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 1024*1024 { // Don't pool very large buffers
		return
	}
	bufferPool.Put(buf)
}

// EncodeBinary returns the gob encoding of v, or nil when v is nil or cannot
// be encoded. Failures are logged.
func EncodeBinary(v interface{}) []byte {
	if isNil(v) {
		return nil
	}

	buf := getBuffer()
	defer putBuffer(buf)

	if err := gob.NewEncoder(buf).Encode(v); err != nil {
		logger.Get().Warn("binary encode failed",
			zap.String("type", fmt.Sprintf("%T", v)),
			zap.Error(err))
		return nil
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

// DecodeBinary decodes gob data into out and reports whether it succeeded.
// Empty data is not an error but decodes nothing. Failures are logged.
func DecodeBinary(data []byte, out interface{}) bool {
	if len(data) == 0 {
		return false
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(out); err != nil {
		logger.Get().Warn("binary decode failed",
			zap.String("type", fmt.Sprintf("%T", out)),
			zap.Int("size", len(data)),
			zap.Error(err))
		return false
	}
	return true
}
