package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/facebookgo/httpdown"
	raven "github.com/getsentry/raven-go"
	"github.com/golang/groupcache/singleflight"
	"github.com/julienschmidt/httprouter"

	"github.com/imgfs/imgfs/imgfs"
)

// Version is the published version of the server.
const Version = "2024.1"

// Server exposes one open container over HTTP.
//
// Set the public fields and then call Run. Run listens on the given port
// and blocks handling requests; Stop shuts the listener down and waits
// for in-flight requests. Do not change any fields after calling Run.
type Server struct {
	// PortNumber to listen on. Defaults to 8000.
	PortNumber string

	// FS is the open container. Run panics if FS is nil.
	FS *imgfs.ImgFS

	// BaseFile is the path of the static HTML page served at / and
	// /index.html. Defaults to "index.html".
	BaseFile string

	server httpdown.Server    // used to close our listening socket
	reads  singleflight.Group // collapses identical concurrent reads
}

// Run starts the server and blocks until it is stopped.
func (s *Server) Run() error {
	log.Println("==========")
	log.Printf("Starting ImgFS server version %s", Version)

	if s.FS == nil {
		panic("No container given. FS is nil.")
	}
	if s.PortNumber == "" {
		s.PortNumber = "8000"
	}
	if s.BaseFile == "" {
		s.BaseFile = "index.html"
	}

	log.Println("Listening on", s.PortNumber)
	h := httpdown.HTTP{}
	var err error
	s.server, err = h.ListenAndServe(&http.Server{
		Addr:    ":" + s.PortNumber,
		Handler: s.AddRoutes(),
	})
	if err != nil {
		log.Println(err)
		return err
	}
	return s.server.Wait()
}

// Stop closes the listening socket and waits for the HTTP connections to
// drain.
func (s *Server) Stop() error {
	return s.server.Stop()
}

// AddRoutes returns the router for this server. It is exported so tests
// can mount it on an httptest server.
func (s *Server) AddRoutes() http.Handler {
	var routes = []struct {
		method  string
		route   string
		handler httprouter.Handle
	}{
		{"GET", "/", s.IndexHandler},
		{"GET", "/index.html", s.IndexHandler},
		{"GET", "/imgfs/list", s.ListHandler},
		{"GET", "/imgfs/read", s.ReadHandler},
		{"GET", "/imgfs/delete", s.DeleteHandler},
		{"POST", "/imgfs/insert", s.InsertHandler},
	}

	r := httprouter.New()
	for _, route := range routes {
		r.Handle(route.method, route.route, logWrapper(route.handler))
	}
	// unknown URIs get a 500 with the invalid command message, not a 404
	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		log.Println(req.Method, req.URL)
		replyError(w, imgfs.ErrInvalidCommand)
	})
	return r
}

// logWrapper takes a handler and returns a handler which does the same
// thing, after first logging the request URL.
func logWrapper(handler httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		log.Println(r.Method, r.URL)
		handler(w, r, ps)
	}
}

// replyError translates an engine error into the 500 response the
// frontend contract prescribes. Environment errors are also captured to
// Sentry when a DSN is configured.
func replyError(w http.ResponseWriter, err error) {
	if errors.Is(err, imgfs.ErrIO) || errors.Is(err, imgfs.ErrRuntime) {
		raven.CaptureError(err, nil)
	}
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte("Error: " + err.Error() + "\n"))
}
