package imgfs

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// LazilyResize makes sure the image in slot index exists at the given
// resolution, deriving and appending it from the original payload if
// necessary. Requesting the original, or a resolution that is already
// present, is a no-op. The header version is not bumped: a resize is
// cache population, not a logical mutation.
func (fs *ImgFS) LazilyResize(res int, index uint32) error {
	fs.gate.Enter()
	defer fs.gate.Leave()
	return fs.lazilyResize(res, index)
}

// lazilyResize is LazilyResize without the gate, for callers already
// holding it.
func (fs *ImgFS) lazilyResize(res int, index uint32) error {
	if res < ThumbRes || res >= NbRes {
		return ErrResolutions
	}
	if index >= fs.Header.MaxFiles || fs.Metadata[index].Valid != NonEmpty {
		return ErrInvalidImgID
	}
	md := &fs.Metadata[index]
	if res == OrigRes || md.Size[res] != 0 {
		return nil
	}
	if !fs.writable {
		return fmt.Errorf("%w: container opened read-only", ErrIO)
	}

	orig, err := fs.readBlob(md.Offset[OrigRes], md.Size[OrigRes])
	if err != nil {
		return err
	}
	resized, err := resizeJPEG(orig,
		int(fs.Header.ResizedRes[2*res]), int(fs.Header.ResizedRes[2*res+1]))
	if err != nil {
		return err
	}

	offset, err := fs.appendBlob(resized, nil)
	if err != nil {
		return err
	}
	md.Offset[res] = offset
	md.Size[res] = uint32(len(resized))
	if err := fs.writeSlot(index); err != nil {
		md.Offset[res] = 0
		md.Size[res] = 0
		return err
	}
	return nil
}

// resizeJPEG decodes buf, scales it to fit inside a w x h box while
// keeping the aspect ratio, and re-encodes it as JPEG. Upscaling is
// allowed; the binding dimension lands exactly on the box edge.
func resizeJPEG(buf []byte, w, h int) ([]byte, error) {
	src, err := jpeg.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, imglibError(err)
	}
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()
	if sw == 0 || sh == 0 {
		return nil, fmt.Errorf("%w: degenerate source image", ErrImgLib)
	}

	var dw, dh int
	if sw*h >= sh*w {
		dw = w
		dh = (sh*w + sw/2) / sw
	} else {
		dh = h
		dw = (sw*h + sh/2) / sh
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, nil); err != nil {
		return nil, imglibError(err)
	}
	return out.Bytes(), nil
}
