package imgfs

import (
	"fmt"
	"io"
	"os"

	"github.com/imgfs/imgfs/util"
)

// containerFile is the slice of *os.File behavior the engine needs.
type containerFile interface {
	io.ReaderAt
	io.WriterAt
	io.Writer
	io.Seeker
	io.Closer
}

// ImgFS is an open container. All exported operations enter the gate, so
// one ImgFS may be shared between any number of goroutines; operations
// are totally ordered by gate acquisition.
type ImgFS struct {
	Header   Header
	Metadata []Metadata

	file     containerFile
	writable bool
	gate     util.Gate
}

// CreateOptions configures a new container. MaxFiles must be positive.
// Zero resolution pairs fall back to the defaults (64x64 thumbnails,
// 256x256 small images).
type CreateOptions struct {
	MaxFiles uint32
	ThumbRes [2]uint16
	SmallRes [2]uint16
}

const (
	// DefaultMaxFiles is the table size used when none is given.
	DefaultMaxFiles = 128

	defaultThumbRes uint16 = 64
	defaultSmallRes uint16 = 256
)

// Create makes a new container file at path, truncating any existing
// file, and returns it open for writing. The header and the zeroed
// metadata table are written before Create returns.
func Create(path string, opts CreateOptions) (*ImgFS, error) {
	if opts.MaxFiles == 0 {
		return nil, ErrMaxFiles
	}
	for i := 0; i < 2; i++ {
		if opts.ThumbRes[i] == 0 {
			opts.ThumbRes[i] = defaultThumbRes
		}
		if opts.SmallRes[i] == 0 {
			opts.SmallRes[i] = defaultSmallRes
		}
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return nil, ioError(err)
	}
	fs := &ImgFS{
		Header: Header{
			Name:     ContainerLabel,
			Version:  0,
			NbFiles:  0,
			MaxFiles: opts.MaxFiles,
			ResizedRes: [4]uint16{
				opts.ThumbRes[0], opts.ThumbRes[1],
				opts.SmallRes[0], opts.SmallRes[1],
			},
		},
		Metadata: make([]Metadata, opts.MaxFiles),
		file:     f,
		writable: true,
		gate:     util.NewGate(1),
	}
	if err := fs.writeHeader(); err != nil {
		f.Close()
		return nil, err
	}
	for i := range fs.Metadata {
		if err := fs.writeSlot(uint32(i)); err != nil {
			f.Close()
			return nil, err
		}
	}
	fmt.Printf("%d item(s) written\n", 1+fs.Header.NbFiles)
	return fs, nil
}

// Open opens an existing container and loads the header and the whole
// metadata table into memory. Pass writable = false to open read-only;
// insert, delete and non-original reads then fail with an I/O error.
func Open(path string, writable bool) (*ImgFS, error) {
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, ioError(err)
	}
	fs := &ImgFS{
		file:     f,
		writable: writable,
		gate:     util.NewGate(1),
	}

	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(io.NewSectionReader(f, 0, HeaderSize), buf); err != nil {
		f.Close()
		return nil, ioError(err)
	}
	if err := fs.Header.parse(buf); err != nil {
		f.Close()
		return nil, err
	}

	fs.Metadata = make([]Metadata, fs.Header.MaxFiles)
	slot := make([]byte, SlotSize)
	for i := range fs.Metadata {
		off := slotOffset(uint32(i))
		if _, err := f.ReadAt(slot, off); err != nil {
			f.Close()
			return nil, ioError(err)
		}
		if err := fs.Metadata[i].parse(slot); err != nil {
			f.Close()
			return nil, err
		}
	}
	return fs, nil
}

// Version returns the current header version.
func (fs *ImgFS) Version() uint32 {
	fs.gate.Enter()
	defer fs.gate.Leave()
	return fs.Header.Version
}

// Close releases the metadata table and closes the backing file.
func (fs *ImgFS) Close() error {
	fs.Metadata = nil
	if fs.file == nil {
		return nil
	}
	err := fs.file.Close()
	fs.file = nil
	return ioError(err)
}

func slotOffset(i uint32) int64 {
	return HeaderSize + int64(i)*SlotSize
}

// writeHeader rewrites the header at offset 0 from the in-memory copy.
func (fs *ImgFS) writeHeader() error {
	var b [HeaderSize]byte
	fs.Header.put(b[:])
	_, err := fs.file.WriteAt(b[:], 0)
	return ioError(err)
}

// writeSlot rewrites slot i at its fixed table position.
func (fs *ImgFS) writeSlot(i uint32) error {
	var b [SlotSize]byte
	fs.Metadata[i].put(b[:])
	_, err := fs.file.WriteAt(b[:], slotOffset(i))
	return ioError(err)
}

// zeroSlot clears slot i both in memory and on disk.
func (fs *ImgFS) zeroSlot(i uint32) error {
	fs.Metadata[i] = Metadata{}
	return fs.writeSlot(i)
}

// readBlob reads size bytes at the given absolute offset into a fresh
// buffer.
func (fs *ImgFS) readBlob(offset uint64, size uint32) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := fs.file.ReadAt(buf, int64(offset)); err != nil {
		return nil, ioError(err)
	}
	return buf, nil
}

// appendBlob writes buf at the current end of the file and returns the
// offset it was written at. When sha is non-nil the bytes are digested
// while being written and compared against it; a mismatch is an I/O
// error and the slot must not be made to point at the range.
func (fs *ImgFS) appendBlob(buf []byte, sha []byte) (uint64, error) {
	end, err := fs.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, ioError(err)
	}
	hw := util.NewHashWriter(fs.file)
	if _, err := hw.Write(buf); err != nil {
		return 0, ioError(err)
	}
	if sha != nil && !hw.Check(sha) {
		return 0, fmt.Errorf("%w: payload digest mismatch during append", ErrIO)
	}
	return uint64(end), nil
}

// findValid returns the index of the valid slot with the given id, or -1.
func (fs *ImgFS) findValid(imgID string) int {
	for i := range fs.Metadata {
		if fs.Metadata[i].Valid == NonEmpty && fs.Metadata[i].ImgID == imgID {
			return i
		}
	}
	return -1
}
