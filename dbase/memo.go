package dbase

import (
	"encoding/binary"
)

// memoReader resolves block indices in a .dbt/.fpt file into the raw memo
// bytes; the record codec transcodes them to text.
type memoReader struct {
	handle    FileHandle
	version   FileVersion
	blockSize int64
	fileSize  int64
}

const memoHeaderProbeSize = 8

// openMemoReader opens the memo file and discovers its block size per the
// version-specific rule.
func openMemoReader(fs FileSystem, path string, version FileVersion) (*memoReader, error) {
	h, err := fs.OpenFile(path, false)
	if err != nil {
		return nil, err
	}
	size, err := fs.Size(h)
	if err != nil {
		h.Close()
		return nil, wrap("stat memo file", err)
	}
	probe := make([]byte, memoHeaderProbeSize)
	n, _ := h.ReadAt(probe, 0)
	blockSize := int64(512)
	switch version {
	case VisualFoxPro:
		if n >= 8 {
			v := binary.BigEndian.Uint16(probe[6:8])
			if v != 0 {
				blockSize = int64(v)
			}
		}
	case DBaseIVMemo:
		if n >= 8 {
			v := int32(binary.LittleEndian.Uint32(probe[4:8]))
			if v != 0 {
				blockSize = int64(v)
			}
		}
	case FoxBasePlusMemo:
		blockSize = 512
	}
	return &memoReader{handle: h, version: version, blockSize: blockSize, fileSize: size}, nil
}

func (m *memoReader) Close() error {
	return m.handle.Close()
}

// read resolves a block index to its raw, not yet transcoded, memo bytes.
func (m *memoReader) read(index int64) ([]byte, error) {
	offset := index * m.blockSize
	if offset >= m.fileSize {
		return nil, wrap("read memo block", ErrMemoReadPastEnd)
	}
	switch m.version {
	case VisualFoxPro:
		return m.readVFP(offset)
	case DBaseIVMemo:
		return m.readDBaseIV(offset)
	default:
		return m.readDBaseIII(offset)
	}
}

func (m *memoReader) readBlock(offset int64) ([]byte, error) {
	buf := make([]byte, m.blockSize)
	n, err := m.handle.ReadAt(buf, offset)
	if n == 0 && err != nil {
		return nil, wrap("read memo block", err)
	}
	return buf[:n], nil
}

func (m *memoReader) readDBaseIII(offset int64) ([]byte, error) {
	var out []byte
	for offset < m.fileSize {
		block, err := m.readBlock(offset)
		if err != nil {
			return nil, err
		}
		if idx := indexByte(block, 0x1A); idx >= 0 {
			out = append(out, block[:idx]...)
			return out, nil
		}
		out = append(out, block...)
		offset += m.blockSize
	}
	return out, nil
}

func (m *memoReader) readDBaseIV(offset int64) ([]byte, error) {
	first, err := m.readBlock(offset)
	if err != nil {
		return nil, err
	}
	if len(first) < 8 {
		return nil, nil
	}
	length := binary.LittleEndian.Uint32(first[4:8])
	remaining := int64(length) - 8
	if remaining < 0 {
		remaining = 0
	}
	out := make([]byte, 0, remaining)
	chunk := first[8:]
	if int64(len(chunk)) > remaining {
		chunk = chunk[:remaining]
	}
	out = append(out, chunk...)
	remaining -= int64(len(chunk))
	offset += m.blockSize
	for remaining > 0 && offset < m.fileSize {
		block, err := m.readBlock(offset)
		if err != nil {
			return nil, err
		}
		take := block
		if int64(len(take)) > remaining {
			take = take[:remaining]
		}
		out = append(out, take...)
		remaining -= int64(len(take))
		offset += m.blockSize
	}
	return out, nil
}

func (m *memoReader) readVFP(offset int64) ([]byte, error) {
	first, err := m.readBlock(offset)
	if err != nil {
		return nil, err
	}
	if len(first) < 8 {
		return nil, nil
	}
	memoType := binary.BigEndian.Uint32(first[0:4])
	if memoType != 1 {
		return nil, nil
	}
	length := binary.BigEndian.Uint32(first[4:8])
	remaining := int64(length)
	out := make([]byte, 0, remaining)
	chunk := first[8:]
	if int64(len(chunk)) > remaining {
		chunk = chunk[:remaining]
	}
	out = append(out, chunk...)
	remaining -= int64(len(chunk))
	offset += m.blockSize
	for remaining > 0 && offset < m.fileSize {
		block, err := m.readBlock(offset)
		if err != nil {
			return nil, err
		}
		take := block
		if int64(len(take)) > remaining {
			take = take[:remaining]
		}
		out = append(out, take...)
		remaining -= int64(len(take))
		offset += m.blockSize
	}
	return out, nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
