package imgfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// On-disk sizes. Fields are little-endian at their naturally aligned
// offsets, with the padding bytes zero.
const (
	// HeaderSize is the serialized size of the container header.
	//
	//   0   name, MaxImgFSName+1 bytes, NUL terminated
	//  32   version   u32
	//  36   nb_files  u32
	//  40   max_files u32
	//  44   resized_res, 4 x u16
	//  52   reserved  u32
	//  56   reserved  u64
	HeaderSize = 64

	// SlotSize is the serialized size of one metadata slot.
	//
	//    0   img_id, MaxImgID+1 bytes, NUL terminated
	//  128   SHA, 32 bytes
	//  160   orig_res, 2 x u32
	//  168   size, 3 x u32
	//  180   padding to align offsets
	//  184   offset, 3 x u64
	//  208   is_valid  u16
	//  210   reserved  u16
	//  212   trailing struct padding
	SlotSize = 216
)

func (h *Header) put(b []byte) {
	_ = b[HeaderSize-1]
	for i := range b[:HeaderSize] {
		b[i] = 0
	}
	copy(b[0:MaxImgFSName], h.Name)
	binary.LittleEndian.PutUint32(b[32:], h.Version)
	binary.LittleEndian.PutUint32(b[36:], h.NbFiles)
	binary.LittleEndian.PutUint32(b[40:], h.MaxFiles)
	for i, r := range h.ResizedRes {
		binary.LittleEndian.PutUint16(b[44+2*i:], r)
	}
}

func (h *Header) parse(b []byte) error {
	if len(b) < HeaderSize {
		return fmt.Errorf("%w: short header (%d bytes)", ErrIO, len(b))
	}
	h.Name = cstring(b[0 : MaxImgFSName+1])
	h.Version = binary.LittleEndian.Uint32(b[32:])
	h.NbFiles = binary.LittleEndian.Uint32(b[36:])
	h.MaxFiles = binary.LittleEndian.Uint32(b[40:])
	for i := range h.ResizedRes {
		h.ResizedRes[i] = binary.LittleEndian.Uint16(b[44+2*i:])
	}
	if h.MaxFiles == 0 {
		return fmt.Errorf("%w: header has max_files = 0", ErrIO)
	}
	return nil
}

func (m *Metadata) put(b []byte) {
	_ = b[SlotSize-1]
	for i := range b[:SlotSize] {
		b[i] = 0
	}
	copy(b[0:MaxImgID], m.ImgID)
	copy(b[128:160], m.SHA[:])
	binary.LittleEndian.PutUint32(b[160:], m.OrigRes[0])
	binary.LittleEndian.PutUint32(b[164:], m.OrigRes[1])
	for i, s := range m.Size {
		binary.LittleEndian.PutUint32(b[168+4*i:], s)
	}
	for i, o := range m.Offset {
		binary.LittleEndian.PutUint64(b[184+8*i:], o)
	}
	binary.LittleEndian.PutUint16(b[208:], m.Valid)
}

func (m *Metadata) parse(b []byte) error {
	if len(b) < SlotSize {
		return fmt.Errorf("%w: short metadata slot (%d bytes)", ErrIO, len(b))
	}
	m.ImgID = cstring(b[0 : MaxImgID+1])
	copy(m.SHA[:], b[128:160])
	m.OrigRes[0] = binary.LittleEndian.Uint32(b[160:])
	m.OrigRes[1] = binary.LittleEndian.Uint32(b[164:])
	for i := range m.Size {
		m.Size[i] = binary.LittleEndian.Uint32(b[168+4*i:])
	}
	for i := range m.Offset {
		m.Offset[i] = binary.LittleEndian.Uint64(b[184+8*i:])
	}
	m.Valid = binary.LittleEndian.Uint16(b[208:])
	return nil
}

// cstring returns the bytes of b up to the first NUL as a string.
func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
