package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/imgfs/imgfs/imgfs"
)

var (
	testServer *httptest.Server
	testFS     *imgfs.ImgFS
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "imgfs-server-test")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	testFS, err = imgfs.Create(filepath.Join(dir, "test.imgfs"),
		imgfs.CreateOptions{MaxFiles: 10})
	if err != nil {
		panic(err)
	}
	base := filepath.Join(dir, "index.html")
	os.WriteFile(base, []byte("<html>imgfs</html>"), 0666)

	s := &Server{FS: testFS, BaseFile: base}
	testServer = httptest.NewServer(s.AddRoutes())

	code := m.Run()
	testServer.Close()
	testFS.Close()
	os.Exit(code)
}

func smallJPEG(t *testing.T, w, h int, seed uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: seed, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLifecycle(t *testing.T) {
	pic := smallJPEG(t, 80, 40, 1)

	// insert
	resp := post(t, "/imgfs/insert?name=dog1", pic)
	if resp.StatusCode != 302 {
		t.Fatalf("insert: status %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/index.html" {
		t.Errorf("insert: Location %q", loc)
	}
	resp.Body.Close()

	// list
	body, ct := getbody(t, "/imgfs/list", 200)
	if !strings.HasPrefix(ct, "application/json") {
		t.Errorf("list: Content-Type %q", ct)
	}
	var listing struct{ Images []string }
	if err := json.Unmarshal([]byte(body), &listing); err != nil {
		t.Fatal(err)
	}
	if len(listing.Images) != 1 || listing.Images[0] != "dog1" {
		t.Errorf("list: %v", listing.Images)
	}

	// read original
	body, ct = getbody(t, "/imgfs/read?img_id=dog1&res=orig", 200)
	if ct != "image/jpeg" {
		t.Errorf("read: Content-Type %q", ct)
	}
	if body != string(pic) {
		t.Error("read returned different bytes than inserted")
	}

	// read thumbnail twice, identical
	thumb1, _ := getbody(t, "/imgfs/read?img_id=dog1&res=thumb", 200)
	thumb2, _ := getbody(t, "/imgfs/read?img_id=dog1&res=thumbnail", 200)
	if thumb1 != thumb2 {
		t.Error("thumbnail reads differ")
	}

	// delete
	resp = get(t, "/imgfs/delete?img_id=dog1")
	if resp.StatusCode != 302 {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}
	resp.Body.Close()
	body, _ = getbody(t, "/imgfs/list", 200)
	if strings.Contains(body, "dog1") {
		t.Errorf("deleted id still listed: %s", body)
	}

	// a read after the delete must not serve the cached thumbnail
	resp = get(t, "/imgfs/read?img_id=dog1&res=thumb")
	defer resp.Body.Close()
	if resp.StatusCode != 500 {
		t.Errorf("read after delete: status %d, expected 500", resp.StatusCode)
	}
	stale, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(stale), "image not found") {
		t.Errorf("read after delete: body %q", stale)
	}
}

func TestErrorReplies(t *testing.T) {
	var table = []struct {
		method, route string
		expected      string
	}{
		{"GET", "/imgfs/read?img_id=ghost&res=orig", "image not found"},
		{"GET", "/imgfs/read?img_id=x&res=huge", "invalid resolution"},
		{"GET", "/imgfs/read?img_id=x", "not enough arguments"},
		{"GET", "/imgfs/read?res=orig", "not enough arguments"},
		{"GET", "/imgfs/delete", "not enough arguments"},
		{"GET", "/imgfs/delete?img_id=ghost", "image not found"},
		{"POST", "/imgfs/insert", "not enough arguments"},
		{"GET", "/no/such/route", "invalid command"},
		{"GET", "/imgfs/unknown", "invalid command"},
	}
	for _, tab := range table {
		req, _ := http.NewRequest(tab.method, testServer.URL+tab.route, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(tab.route, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != 500 {
			t.Errorf("%s: status %d, expected 500", tab.route, resp.StatusCode)
		}
		if !strings.Contains(string(body), tab.expected) {
			t.Errorf("%s: body %q, expected it to mention %q",
				tab.route, body, tab.expected)
		}
	}
}

func TestInsertDuplicate(t *testing.T) {
	pic := smallJPEG(t, 20, 20, 7)
	resp := post(t, "/imgfs/insert?name=dup", pic)
	resp.Body.Close()
	resp = post(t, "/imgfs/insert?name=dup", pic)
	defer resp.Body.Close()
	if resp.StatusCode != 500 {
		t.Errorf("duplicate insert: status %d, expected 500", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "duplicate image id") {
		t.Errorf("duplicate insert: body %q", body)
	}
}

func TestIndexServed(t *testing.T) {
	for _, route := range []string{"/", "/index.html"} {
		body, _ := getbody(t, route, 200)
		if !strings.Contains(body, "imgfs") {
			t.Errorf("%s: body %q", route, body)
		}
	}
}

func get(t *testing.T, route string) *http.Response {
	t.Helper()
	// don't follow the 302 redirects the mutation routes reply with
	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Get(testServer.URL + route)
	if err != nil {
		t.Fatal(route, err)
	}
	return resp
}

func post(t *testing.T, route string, payload []byte) *http.Response {
	t.Helper()
	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Post(testServer.URL+route, "image/jpeg", bytes.NewReader(payload))
	if err != nil {
		t.Fatal(route, err)
	}
	return resp
}

func getbody(t *testing.T, route string, expstatus int) (string, string) {
	t.Helper()
	resp := get(t, route)
	defer resp.Body.Close()
	if resp.StatusCode != expstatus {
		t.Fatalf("%s: status %d, expected %d", route, resp.StatusCode, expstatus)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(route, err)
	}
	return string(body), resp.Header.Get("Content-Type")
}
