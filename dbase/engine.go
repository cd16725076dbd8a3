package dbase

import (
	"encoding/binary"
	"iter"
	"math"
)

// ReadRecords returns up to maxCount records starting at the current read
// cursor, advancing it by the number of record frames consumed (including
// skipped deleted ones). Pass a non-positive maxCount for "as many as
// remain".
func (f *File) ReadRecords(maxCount int) ([]Record, error) {
	if maxCount <= 0 {
		maxCount = math.MaxInt32
	}
	h, err := f.fs.OpenFile(f.path, false)
	if err != nil {
		return nil, wrap("read records", err)
	}
	defer h.Close()

	codec := f.codec()
	out := make([]Record, 0, min(maxCount, batchSize))
	position := int64(f.headerLength) + int64(f.recordLength)*f.readCursor

	for len(out) < maxCount {
		remainingInFile := int64(f.recordCount) - f.readCursor
		remainingInRequest := int64(maxCount - len(out))
		thisBatch := minInt64(remainingInFile, remainingInRequest, batchSize)
		if thisBatch <= 0 {
			break
		}

		buf := make([]byte, thisBatch*int64(f.recordLength))
		if _, err := h.ReadAt(buf, position); err != nil {
			return nil, wrap("read record batch", err)
		}

		for i := int64(0); i < thisBatch; i++ {
			frame := buf[i*int64(f.recordLength) : (i+1)*int64(f.recordLength)]
			rec, ok, err := codec.decodeFrame(frame, f.includeDel)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, rec)
			}
		}

		f.readCursor += thisBatch
		position += thisBatch * int64(f.recordLength)
	}
	return out, nil
}

// AppendRecords validates and writes each record at the end of the file,
// rewrites the EOF marker, and patches the header's record_count.
func (f *File) AppendRecords(records ...Record) (*File, error) {
	if len(records) == 0 {
		return f, nil
	}
	h, err := f.fs.OpenFile(f.path, false)
	if err != nil {
		return nil, wrap("append records", err)
	}
	defer h.Close()

	codec := f.codec()
	position := int64(f.headerLength) + int64(f.recordLength)*int64(f.recordCount)

	for _, rec := range records {
		frame, err := codec.encodeFrame(rec, int(f.recordLength))
		if err != nil {
			return nil, wrap("append record", err)
		}
		if _, err := h.WriteAt(frame, position); err != nil {
			return nil, wrap("write record", err)
		}
		position += int64(f.recordLength)
	}

	if _, err := h.WriteAt([]byte{byte(markerEOF)}, position); err != nil {
		return nil, wrap("write eof marker", err)
	}

	f.recordCount += int32(len(records))
	countBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(countBytes, uint32(f.recordCount))
	if _, err := h.WriteAt(countBytes, 4); err != nil {
		return nil, wrap("update record count", err)
	}

	debugf("appended %d records to %s, record_count now %d", len(records), f.path, f.recordCount)
	return f, nil
}

// Records returns an iterator that yields decoded records in batches of
// chunk (or iterChunk if chunk is non-positive), advancing the read cursor
// as it goes, until the cursor reaches record_count. Iteration stops
// early, yielding the error, if a batch read fails.
func (f *File) Records(chunk int) iter.Seq2[Record, error] {
	if chunk <= 0 {
		chunk = iterChunk
	}
	return func(yield func(Record, error) bool) {
		for f.readCursor < int64(f.recordCount) {
			batch, err := f.ReadRecords(chunk)
			if err != nil {
				yield(nil, err)
				return
			}
			if len(batch) == 0 {
				return
			}
			for _, rec := range batch {
				if !yield(rec, nil) {
					return
				}
			}
		}
	}
}

func minInt64(values ...int64) int64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
