package imgfs

import (
	"crypto/sha256"
)

// Resolutions, in the order their sizes and offsets appear in a slot.
const (
	ThumbRes = 0
	SmallRes = 1
	OrigRes  = 2
	NbRes    = 3
)

const (
	// MaxImgFSName is the capacity of the header name field, not
	// counting the NUL terminator.
	MaxImgFSName = 31

	// MaxImgID is the capacity of a slot's image id, not counting the
	// NUL terminator.
	MaxImgID = 127

	// ContainerLabel is written into the name field of every container
	// we create.
	ContainerLabel = "EPFL ImgFS 2024"
)

// Slot valid flags.
const (
	Empty    uint16 = 0
	NonEmpty uint16 = 1
)

// Header is the in-memory mirror of the fixed container header at
// offset 0. MaxFiles and ResizedRes are set at create time and immutable
// afterwards. Version counts successful inserts and deletes; populating a
// derived resolution does not bump it.
type Header struct {
	Name       string
	Version    uint32
	NbFiles    uint32
	MaxFiles   uint32
	ResizedRes [2 * (NbRes - 1)]uint16 // thumb w, thumb h, small w, small h
}

// Metadata is the in-memory mirror of one slot of the metadata table.
// A resolution r is present iff Size[r] != 0; Offset[r] is then an
// absolute file offset past the end of the table.
type Metadata struct {
	ImgID   string
	SHA     [sha256.Size]byte
	OrigRes [2]uint32 // width, height of the original
	Size    [NbRes]uint32
	Offset  [NbRes]uint64
	Valid   uint16
}

// ResolutionAtoi maps a resolution name from the CLI or the HTTP query
// string to its index. Matching is case-sensitive. Returns -1 for an
// unknown name.
func ResolutionAtoi(s string) int {
	switch s {
	case "thumb", "thumbnail":
		return ThumbRes
	case "small":
		return SmallRes
	case "orig", "original":
		return OrigRes
	}
	return -1
}
