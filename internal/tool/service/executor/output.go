package executor

import (
	"bytes"

	"github.com/Cyclone1070/aiagent/internal/tool/helper/content"
)

// BinaryMarker replaces a stream that looks like binary data.
const BinaryMarker = "[Binary Content]"

// collector captures one output stream with a size limit and binary detection.
// It always reports the full length as written so the child never blocks.
type collector struct {
	buffer    bytes.Buffer
	maxBytes  int
	truncated bool
	isBinary  bool
	isText    bool // stream opened with a BOM

	bytesChecked int
	sampleSize   int
}

func newCollector(maxBytes int, sampleSize int) *collector {
	if sampleSize <= 0 {
		sampleSize = content.DefaultSampleSize
	}
	return &collector{
		maxBytes:   maxBytes,
		sampleSize: sampleSize,
	}
}

func (c *collector) Write(p []byte) (n int, err error) {
	if c.isBinary {
		return len(p), nil
	}

	if c.bytesChecked < c.sampleSize {
		toCheck := p[:min(len(p), c.sampleSize-c.bytesChecked)]
		var binary bool
		if c.bytesChecked == 0 {
			c.isText = content.HasTextBOM(toCheck)
			binary = content.IsBinaryContent(toCheck, len(toCheck))
		} else if !c.isText {
			binary = bytes.IndexByte(toCheck, 0) >= 0
		}
		if binary {
			c.isBinary = true
			c.truncated = true
			c.buffer.Reset()
			return len(p), nil
		}
		c.bytesChecked += len(toCheck)
	}

	remainingSpace := c.maxBytes - c.buffer.Len()
	if remainingSpace <= 0 {
		c.truncated = true
		return len(p), nil
	}

	toWrite := p
	if len(toWrite) > remainingSpace {
		toWrite = toWrite[:remainingSpace]
		c.truncated = true
	}

	if _, err := c.buffer.Write(toWrite); err != nil {
		return 0, err
	}

	return len(p), nil
}

func (c *collector) String() string {
	if c.isBinary {
		return BinaryMarker
	}
	return c.buffer.String()
}

func (c *collector) Truncated() bool {
	return c.truncated
}
