// Command imgfsclient is a small client for a running imgfsd.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/antonholmquist/jason"

	"github.com/imgfs/imgfs/imgfs"
)

var (
	host  = flag.String("host", "http://localhost:8000", "imgfsd server to talk to")
	usage = `
imgfsclient [-host URL] <command> <command arguments>

Possible commands:
    list

    insert <img id> <jpeg file>

    read <img id> [orig|original|small|thumb|thumbnail]

    delete <img id>
`
)

var errServer = errors.New("server returned an error")

var client = &http.Client{Timeout: 5 * time.Minute}

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		fmt.Print(usage)
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "list":
		err = dolist()
	case "insert":
		err = doinsert(args[1:])
	case "read":
		err = doread(args[1:])
	case "delete":
		err = dodelete(args[1:])
	default:
		fmt.Print(usage)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func dolist() error {
	resp, err := client.Get(*host + "/imgfs/list")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return errServer
	}
	v, err := jason.NewObjectFromReader(resp.Body)
	if err != nil {
		return err
	}
	images, err := v.GetStringArray("Images")
	if err != nil {
		return err
	}
	for _, id := range images {
		fmt.Println(id)
	}
	return nil
}

func doinsert(args []string) error {
	if len(args) != 2 {
		return imgfs.ErrNotEnoughArguments
	}
	buf, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	target := *host + "/imgfs/insert?name=" + url.QueryEscape(args[0])
	resp, err := client.Post(target, "image/jpeg", bytes.NewReader(buf))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return errServer
	}
	return nil
}

func doread(args []string) error {
	if len(args) != 1 && len(args) != 2 {
		return imgfs.ErrNotEnoughArguments
	}
	resName := "orig"
	if len(args) == 2 {
		resName = args[1]
		if imgfs.ResolutionAtoi(resName) == -1 {
			return imgfs.ErrResolutions
		}
	}
	target := *host + "/imgfs/read?img_id=" + url.QueryEscape(args[0]) +
		"&res=" + url.QueryEscape(resName)
	resp, err := client.Get(target)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return errServer
	}
	out, err := os.Create(args[0] + "_" + resName + ".jpg")
	if err != nil {
		return err
	}
	_, err = io.Copy(out, resp.Body)
	if err2 := out.Close(); err == nil {
		err = err2
	}
	return err
}

func dodelete(args []string) error {
	if len(args) != 1 {
		return imgfs.ErrNotEnoughArguments
	}
	// the server redirects to the index page on success; don't follow it
	noRedirect := &http.Client{
		Timeout: client.Timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := noRedirect.Get(*host + "/imgfs/delete?img_id=" + url.QueryEscape(args[0]))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		return errServer
	}
	return nil
}
