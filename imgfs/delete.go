package imgfs

import "fmt"

// Delete removes imgID from the container by clearing the valid flag of
// its slot. Payload bytes are left in place; another slot may still
// reference them through content deduplication, and the container never
// reclaims space anyway.
func (fs *ImgFS) Delete(imgID string) error {
	fs.gate.Enter()
	defer fs.gate.Leave()

	if !fs.writable {
		return fmt.Errorf("%w: container opened read-only", ErrIO)
	}
	i := fs.findValid(imgID)
	if i < 0 {
		return ErrImageNotFound
	}

	fs.Metadata[i].Valid = Empty
	if err := fs.writeSlot(uint32(i)); err != nil {
		fs.Metadata[i].Valid = NonEmpty
		return err
	}
	fs.Header.NbFiles--
	fs.Header.Version++
	return fs.writeHeader()
}
