package imgfs

import "bytes"

// dedup scans the table for conflicts with the freshly populated slot at
// index. A valid slot with the same id fails the whole insert. A valid
// slot with the same SHA donates its offsets and sizes for every
// resolution; all such slots agree by invariant, so the first match in
// table order is as good as any.
//
// Offset[OrigRes] of the target is cleared before the scan. If it is
// still zero afterwards no content duplicate exists and the caller must
// append the payload itself.
func (fs *ImgFS) dedup(index uint32) error {
	if index >= fs.Header.MaxFiles {
		return ErrImageNotFound
	}
	target := &fs.Metadata[index]
	if target.Valid != NonEmpty {
		return ErrImageNotFound
	}

	target.Offset[OrigRes] = 0
	for i := range fs.Metadata {
		if uint32(i) == index || fs.Metadata[i].Valid != NonEmpty {
			continue
		}
		if fs.Metadata[i].ImgID == target.ImgID {
			return ErrDuplicateID
		}
		if bytes.Equal(fs.Metadata[i].SHA[:], target.SHA[:]) {
			for r := 0; r < NbRes; r++ {
				target.Offset[r] = fs.Metadata[i].Offset[r]
				target.Size[r] = fs.Metadata[i].Size[r]
			}
		}
	}
	return nil
}
