package tracesource

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// netCDF classic header tags and external types
const (
	tagDimension = 0x0A
	tagVariable  = 0x0B
	tagAttribute = 0x0C

	ncByte   = 1
	ncChar   = 2
	ncShort  = 3
	ncInt    = 4
	ncFloat  = 5
	ncDouble = 6

	streaming = 0xFFFFFFFF
)

var (
	errTruncated = errors.New("cdf: truncated header")
	errExtent    = errors.New("cdf: variable data extends past end of file")
)

// cdfHeader is the part of a classic header needed to bound the data section
type cdfHeader struct {
	version int
	size    int64
	numRecs int64
	dims    []int64
	vars    []cdfVar
	recSize int64
}

type cdfVar struct {
	name   string
	dimIDs []int
	typ    int
	vsize  int64
	begin  int64
	record bool
}

func isClassic(b []byte) bool { return len(b) >= 3 && bytes.Equal(b[:3], []byte("CDF")) }

// checkExtents rejects classic files whose header declares more data than the
// file holds. The sizes are bounded by len(b) at every step so no product
// can overflow
func checkExtents(b []byte) error {
	h, err := scanHeader(b)
	if err != nil {
		return err
	}
	size := h.size
	if h.numRecs > size {
		return fmt.Errorf("cdf: %d records in a %d byte file", h.numRecs, size)
	}
	for i := range h.vars {
		v := &h.vars[i]
		n, ok := h.valueBytes(v)
		if !ok || v.begin < 0 || v.begin > size || n > size-v.begin {
			return fmt.Errorf("%w: %q", errExtent, v.name)
		}
		if !v.record || h.numRecs == 0 {
			continue
		}
		stride, ok := mulWithin(h.numRecs-1, h.recSize, size)
		if !ok || stride > size-v.begin-n {
			return fmt.Errorf("%w: %q records", errExtent, v.name)
		}
	}
	return nil
}

// valueBytes is the size of one record of v (all of v for fixed variables),
// or false when it would exceed the file
func (h *cdfHeader) valueBytes(v *cdfVar) (int64, bool) {
	n := typeSize(v.typ)
	for i, id := range v.dimIDs {
		if v.record && i == 0 {
			continue
		}
		var ok bool
		if n, ok = mulWithin(n, h.dims[id], h.size); !ok {
			return 0, false
		}
	}
	return n, true
}

func mulWithin(a, b, limit int64) (int64, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a != 0 && b > limit/a {
		return 0, false
	}
	return a * b, true
}

func scanHeader(b []byte) (*cdfHeader, error) {
	if len(b) < 4 {
		return nil, errTruncated
	}
	h := &cdfHeader{version: int(b[3]), size: int64(len(b))}
	if h.version != 1 && h.version != 2 {
		return nil, fmt.Errorf("cdf: unsupported classic version %d", h.version)
	}
	p := &cursor{b: b, off: 4}

	nr, err := p.u32()
	if err != nil {
		return nil, err
	}
	if h.dims, err = p.dims(); err != nil {
		return nil, err
	}
	if err := p.skipAttrs(); err != nil {
		return nil, err
	}
	if h.vars, err = p.vars(h); err != nil {
		return nil, err
	}
	h.layoutRecords()

	switch {
	case nr != streaming:
		h.numRecs = int64(nr)
	case h.recSize > 0:
		h.numRecs = max(int64(len(b))-h.firstRecordBegin(), 0) / h.recSize
	}
	return h, nil
}

// layoutRecords marks record variables and computes the record stride.
// A lone record variable is stored unpadded
func (h *cdfHeader) layoutRecords() {
	var recs []*cdfVar
	for i := range h.vars {
		v := &h.vars[i]
		if len(v.dimIDs) > 0 && h.dims[v.dimIDs[0]] == 0 {
			v.record = true
			recs = append(recs, v)
		}
	}
	switch len(recs) {
	case 0:
	case 1:
		h.recSize, _ = h.valueBytes(recs[0])
	default:
		for _, v := range recs {
			h.recSize += v.vsize
		}
	}
}

func (h *cdfHeader) firstRecordBegin() int64 {
	first := int64(-1)
	for _, v := range h.vars {
		if v.record && (first < 0 || v.begin < first) {
			first = v.begin
		}
	}
	return first
}

func typeSize(t int) int64 {
	switch t {
	case ncByte, ncChar:
		return 1
	case ncShort:
		return 2
	case ncInt, ncFloat:
		return 4
	case ncDouble:
		return 8
	}
	return 0
}

// cursor walks the big-endian header
type cursor struct {
	b   []byte
	off int
}

func (c *cursor) take(n int64) ([]byte, error) {
	if n < 0 || n > int64(len(c.b)-c.off) {
		return nil, errTruncated
	}
	s := c.b[c.off : c.off+int(n)]
	c.off += int(n)
	return s, nil
}

func (c *cursor) u32() (uint32, error) {
	s, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(s), nil
}

func (c *cursor) u64() (uint64, error) {
	s, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(s), nil
}

func pad4(n int64) int64 { return (n + 3) &^ 3 }

func (c *cursor) name() (string, error) {
	n, err := c.u32()
	if err != nil {
		return "", err
	}
	s, err := c.take(pad4(int64(n)))
	if err != nil {
		return "", err
	}
	return string(s[:n]), nil
}

// list reads a tag/count pair; ABSENT is two zero words. Every entry takes at
// least four header bytes, which bounds n
func (c *cursor) list(want uint32) (int, error) {
	tag, err := c.u32()
	if err != nil {
		return 0, err
	}
	n, err := c.u32()
	if err != nil {
		return 0, err
	}
	if tag == 0 && n == 0 {
		return 0, nil
	}
	if tag != want {
		return 0, fmt.Errorf("cdf: header tag %#x, want %#x", tag, want)
	}
	if int64(n) > int64(len(c.b)-c.off)/4 {
		return 0, errTruncated
	}
	return int(n), nil
}

func (c *cursor) dims() ([]int64, error) {
	n, err := c.list(tagDimension)
	if err != nil {
		return nil, err
	}
	out := make([]int64, n)
	for i := range out {
		if _, err := c.name(); err != nil {
			return nil, err
		}
		l, err := c.u32()
		if err != nil {
			return nil, err
		}
		out[i] = int64(l)
	}
	return out, nil
}

func (c *cursor) skipAttrs() error {
	n, err := c.list(tagAttribute)
	if err != nil {
		return err
	}
	for range n {
		if _, err := c.name(); err != nil {
			return err
		}
		typ, err := c.u32()
		if err != nil {
			return err
		}
		cnt, err := c.u32()
		if err != nil {
			return err
		}
		size := typeSize(int(typ))
		if size == 0 {
			return fmt.Errorf("cdf: attribute of unknown type %d", typ)
		}
		if _, err := c.take(pad4(int64(cnt) * size)); err != nil {
			return err
		}
	}
	return nil
}

func (c *cursor) vars(h *cdfHeader) ([]cdfVar, error) {
	n, err := c.list(tagVariable)
	if err != nil {
		return nil, err
	}
	out := make([]cdfVar, n)
	for i := range out {
		v := &out[i]
		if v.name, err = c.name(); err != nil {
			return nil, err
		}
		nd, err := c.u32()
		if err != nil {
			return nil, err
		}
		if int64(nd) > int64(len(c.b)-c.off)/4 {
			return nil, errTruncated
		}
		v.dimIDs = make([]int, nd)
		for j := range v.dimIDs {
			id, err := c.u32()
			if err != nil {
				return nil, err
			}
			if int(id) >= len(h.dims) {
				return nil, fmt.Errorf("cdf: variable %q references dimension %d", v.name, id)
			}
			v.dimIDs[j] = int(id)
		}
		if err := c.skipAttrs(); err != nil {
			return nil, err
		}
		typ, err := c.u32()
		if err != nil {
			return nil, err
		}
		if typeSize(int(typ)) == 0 {
			return nil, fmt.Errorf("cdf: variable %q has unknown type %d", v.name, typ)
		}
		v.typ = int(typ)
		vs, err := c.u32()
		if err != nil {
			return nil, err
		}
		v.vsize = int64(vs)
		if h.version == 2 {
			b, err := c.u64()
			if err != nil {
				return nil, err
			}
			if b > 1<<62 {
				return nil, fmt.Errorf("%w: %q", errExtent, v.name)
			}
			v.begin = int64(b)
		} else {
			b, err := c.u32()
			if err != nil {
				return nil, err
			}
			v.begin = int64(b)
		}
	}
	return out, nil
}
