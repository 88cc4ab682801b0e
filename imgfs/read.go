package imgfs

import "fmt"

// Read returns the image imgID at the requested resolution. A missing
// derived resolution is generated, appended to the container and cached
// in the slot before the read; only the first read of a given (id,
// resolution) pair pays for the resize.
func (fs *ImgFS) Read(imgID string, res int) ([]byte, error) {
	fs.gate.Enter()
	defer fs.gate.Leave()

	if res < ThumbRes || res >= NbRes {
		return nil, ErrResolutions
	}
	i := fs.findValid(imgID)
	if i < 0 {
		return nil, ErrImageNotFound
	}
	md := &fs.Metadata[i]

	if res != OrigRes && md.Size[res] == 0 {
		if err := fs.lazilyResize(res, uint32(i)); err != nil {
			return nil, err
		}
	}
	if md.Size[res] == 0 {
		return nil, fmt.Errorf("%w: empty payload range for %q", ErrIO, imgID)
	}
	return fs.readBlob(md.Offset[res], md.Size[res])
}
