package imgfs

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"code.cloudfoundry.org/bytefmt"
)

// ListMode selects the output of List.
type ListMode int

const (
	// ListStdout prints the header followed by one line per valid slot
	// (or a placeholder for an empty container) to standard output.
	ListStdout ListMode = iota
	// ListJSON returns a JSON object {"Images": [id, ...]} with the
	// valid ids in slot order.
	ListJSON
)

// List reports the container contents in the requested mode. The
// returned string is empty unless mode is ListJSON.
func (fs *ImgFS) List(mode ListMode) (string, error) {
	fs.gate.Enter()
	defer fs.gate.Leave()

	switch mode {
	case ListStdout:
		fs.Header.Print(os.Stdout)
		if fs.Header.NbFiles == 0 {
			fmt.Println("<< empty imgFS >>")
			return "", nil
		}
		for i := range fs.Metadata {
			if fs.Metadata[i].Valid == NonEmpty {
				fs.Metadata[i].Print(os.Stdout)
			}
		}
		return "", nil
	case ListJSON:
		out := struct {
			Images []string `json:"Images"`
		}{Images: []string{}}
		for i := range fs.Metadata {
			if fs.Metadata[i].Valid == NonEmpty {
				out.Images = append(out.Images, fs.Metadata[i].ImgID)
			}
		}
		b, err := json.Marshal(out)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrRuntime, err)
		}
		return string(b), nil
	}
	return "", ErrInvalidArgument
}

// Print writes a human-readable rendering of the header to w.
func (h *Header) Print(w io.Writer) {
	fmt.Fprintf(w, "*****************************************\n")
	fmt.Fprintf(w, "**********IMGFS HEADER START*************\n")
	fmt.Fprintf(w, "TYPE: %s\n", h.Name)
	fmt.Fprintf(w, "VERSION: %d\n", h.Version)
	fmt.Fprintf(w, "IMAGE COUNT: %d\t\tMAX IMAGES: %d\n", h.NbFiles, h.MaxFiles)
	fmt.Fprintf(w, "THUMBNAIL: %d x %d\tSMALL: %d x %d\n",
		h.ResizedRes[0], h.ResizedRes[1], h.ResizedRes[2], h.ResizedRes[3])
	fmt.Fprintf(w, "***********IMGFS HEADER END**************\n")
	fmt.Fprintf(w, "*****************************************\n")
}

// Print writes a human-readable rendering of one slot to w.
func (m *Metadata) Print(w io.Writer) {
	fmt.Fprintf(w, "IMAGE ID: %s\n", m.ImgID)
	fmt.Fprintf(w, "SHA: %s\n", hex.EncodeToString(m.SHA[:]))
	fmt.Fprintf(w, "VALID: %d\n", m.Valid)
	fmt.Fprintf(w, "OFFSET ORIG. : %d\t\tSIZE ORIG. : %s\n",
		m.Offset[OrigRes], bytefmt.ByteSize(uint64(m.Size[OrigRes])))
	fmt.Fprintf(w, "OFFSET THUMB.: %d\t\tSIZE THUMB.: %s\n",
		m.Offset[ThumbRes], bytefmt.ByteSize(uint64(m.Size[ThumbRes])))
	fmt.Fprintf(w, "OFFSET SMALL : %d\t\tSIZE SMALL : %s\n",
		m.Offset[SmallRes], bytefmt.ByteSize(uint64(m.Size[SmallRes])))
	fmt.Fprintf(w, "ORIGINAL: %d x %d\n", m.OrigRes[0], m.OrigRes[1])
	fmt.Fprintf(w, "*****************************************\n")
}
