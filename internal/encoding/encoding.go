// Package encoding provides helpers to marshal and unmarshal sequences
// of fixed-size wire fields in network byte order.
package encoding

import (
	"bytes"
	"encoding/binary"
	"io"
)

// reader type used to calculate the count of bytes retrieved from the
// configured reader instance.
type reader struct {
	io.Reader
	read int64
}

// Read implements io.Reader interface.
func (r *reader) Read(b []byte) (int, error) {
	n, err := r.Reader.Read(b)
	r.read += int64(n)
	return n, err
}

// WriteTo writes each element to w in big-endian byte order. Elements
// implementing io.WriterTo serialize themselves; everything else goes
// through binary.Write. The whole sequence is buffered, so either all
// of it reaches w or none of it does.
func WriteTo(w io.Writer, v ...interface{}) (int64, error) {
	var (
		wbuf bytes.Buffer
		err  error
	)

	for _, elem := range v {
		switch elem := elem.(type) {
		case nil:
			continue
		case io.WriterTo:
			_, err = elem.WriteTo(&wbuf)
		default:
			err = binary.Write(&wbuf, binary.BigEndian, elem)
		}

		if err != nil {
			return 0, err
		}
	}

	return wbuf.WriteTo(w)
}

// ReadFrom reads each element from r in big-endian byte order. Elements
// implementing io.ReaderFrom deserialize themselves; everything else
// goes through binary.Read. Returns the count of consumed bytes.
func ReadFrom(r io.Reader, v ...interface{}) (int64, error) {
	var (
		num int64
		err error
	)

	rd := &reader{r, 0}

	for _, elem := range v {
		switch elem := elem.(type) {
		case io.ReaderFrom:
			num, err = elem.ReadFrom(r)
			rd.read += num
		default:
			err = binary.Read(rd, binary.BigEndian, elem)
		}

		if err != nil {
			return rd.read, err
		}
	}

	return rd.read, nil
}
