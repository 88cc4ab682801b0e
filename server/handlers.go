package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/imgfs/imgfs/imgfs"
)

// IndexHandler serves the static base page.
func (s *Server) IndexHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	http.ServeFile(w, r, s.BaseFile)
}

// ListHandler handles GET /imgfs/list.
func (s *Server) ListHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	body, err := s.FS.List(imgfs.ListJSON)
	if err != nil {
		replyError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, body)
}

// ReadHandler handles GET /imgfs/read?img_id=...&res=...
//
// Identical concurrent requests are collapsed into a single engine call,
// so a thundering herd of first reads triggers one lazy resize instead of
// queueing a resize per request on the gate. The container version is
// part of the collapse key, so a read arriving after an insert or delete
// never shares the result of a flight that predates the mutation.
func (s *Server) ReadHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	q := r.URL.Query()
	imgID := q.Get("img_id")
	resName := q.Get("res")
	if imgID == "" || resName == "" {
		replyError(w, imgfs.ErrNotEnoughArguments)
		return
	}
	res := imgfs.ResolutionAtoi(resName)
	if res == -1 {
		replyError(w, imgfs.ErrResolutions)
		return
	}

	key := strconv.FormatUint(uint64(s.FS.Version()), 10) +
		"\x00" + strconv.Itoa(res) + "\x00" + imgID
	v, err := s.reads.Do(key, func() (interface{}, error) {
		return s.FS.Read(imgID, res)
	})
	if err != nil {
		replyError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(v.([]byte))
}

// DeleteHandler handles GET /imgfs/delete?img_id=...
func (s *Server) DeleteHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	imgID := r.URL.Query().Get("img_id")
	if imgID == "" {
		replyError(w, imgfs.ErrNotEnoughArguments)
		return
	}
	if err := s.FS.Delete(imgID); err != nil {
		replyError(w, err)
		return
	}
	reply302(w)
}

// InsertHandler handles POST /imgfs/insert?name=...
// The request body is the complete JPEG payload.
func (s *Server) InsertHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	imgID := r.URL.Query().Get("name")
	if imgID == "" {
		replyError(w, imgfs.ErrNotEnoughArguments)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		replyError(w, imgfs.ErrIO)
		return
	}
	if len(body) == 0 {
		replyError(w, imgfs.ErrInvalidArgument)
		return
	}
	if err := s.FS.Insert(body, imgID); err != nil {
		replyError(w, err)
		return
	}
	reply302(w)
}

// reply302 redirects the browser back to the index page after a
// successful mutation.
func reply302(w http.ResponseWriter) {
	w.Header().Set("Location", "/index.html")
	w.WriteHeader(http.StatusFound)
}
