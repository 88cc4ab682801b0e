package imgfs

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/imgfs/imgfs/util"
)

// Insert adds buf as a new image under imgID. The id is truncated to
// MaxImgID bytes. Identical payloads already in the container are shared
// rather than appended again; an existing valid slot with the same id
// fails with ErrDuplicateID and leaves the container unchanged.
//
// The on-disk write order is: zero the target slot, append the payload,
// write the populated slot, write the header. A crash in the middle
// leaves the slot empty on disk, so the table invariants survive at the
// cost of some dead payload bytes. Every failure path restores the
// in-memory header and slot, re-zeroing the slot on disk best effort.
func (fs *ImgFS) Insert(buf []byte, imgID string) error {
	fs.gate.Enter()
	defer fs.gate.Leave()

	if len(buf) == 0 || imgID == "" {
		return ErrInvalidArgument
	}
	if !fs.writable {
		return fmt.Errorf("%w: container opened read-only", ErrIO)
	}
	if len(imgID) > MaxImgID {
		imgID = imgID[:MaxImgID]
	}

	if fs.Header.NbFiles >= fs.Header.MaxFiles {
		return ErrImgFSFull
	}
	index := -1
	for i := range fs.Metadata {
		if fs.Metadata[i].Valid == Empty {
			index = i
			break
		}
	}
	if index < 0 {
		// cannot happen while the nb_files invariant holds
		return ErrRuntime
	}
	i := uint32(index)

	// clear any tombstone remains from the slot before reusing it
	if err := fs.zeroSlot(i); err != nil {
		return err
	}

	md := &fs.Metadata[i]
	sum, err := util.DigestSHA256(bytes.NewReader(buf))
	if err != nil {
		return ioError(err)
	}
	copy(md.SHA[:], sum)
	md.ImgID = imgID
	md.Valid = NonEmpty
	fs.Header.NbFiles++

	rollback := func() {
		fs.Metadata[i] = Metadata{}
		fs.Header.NbFiles--
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		rollback()
		return imglibError(err)
	}
	md.OrigRes[0] = uint32(cfg.Width)
	md.OrigRes[1] = uint32(cfg.Height)

	if err := fs.dedup(i); err != nil {
		rollback()
		return err
	}

	if md.Offset[OrigRes] == 0 {
		offset, err := fs.appendBlob(buf, md.SHA[:])
		if err != nil {
			rollback()
			return err
		}
		md.Offset[OrigRes] = offset
		md.Size[OrigRes] = uint32(len(buf))
	}

	if err := fs.writeSlot(i); err != nil {
		rollback()
		fs.zeroSlot(i)
		return err
	}
	fs.Header.Version++
	if err := fs.writeHeader(); err != nil {
		fs.Header.Version--
		rollback()
		fs.zeroSlot(i)
		return err
	}
	return nil
}
