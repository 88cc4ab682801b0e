package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/toml"
	raven "github.com/getsentry/raven-go"

	"github.com/imgfs/imgfs/imgfs"
	"github.com/imgfs/imgfs/server"
)

// settings mirrors the TOML configuration file. Flags override the file.
type settings struct {
	ImgFS     string // path to the container
	Port      string
	BaseFile  string // static HTML page served at /
	SentryDSN string
}

func main() {
	var (
		configFile = flag.String("config", "", "path to TOML configuration file")
		port       = flag.String("port", "", "port to listen on (default 8000)")
		baseFile   = flag.String("base", "", "static HTML file served at /")
	)
	flag.Parse()

	var conf settings
	if *configFile != "" {
		if _, err := toml.DecodeFile(*configFile, &conf); err != nil {
			log.Fatalln("Error reading configuration:", err)
		}
	}
	if *port != "" {
		conf.Port = *port
	}
	if *baseFile != "" {
		conf.BaseFile = *baseFile
	}
	if args := flag.Args(); len(args) > 0 {
		conf.ImgFS = args[0]
	}
	if conf.ImgFS == "" {
		log.Fatalln("Usage: imgfsd [flags] <imgFS_filename>")
	}
	if conf.SentryDSN != "" {
		raven.SetDSN(conf.SentryDSN)
	}

	fs, err := imgfs.Open(conf.ImgFS, true)
	if err != nil {
		log.Fatalln("Error opening container:", err)
	}
	fs.Header.Print(os.Stderr)

	s := &server.Server{
		PortNumber: conf.Port,
		BaseFile:   conf.BaseFile,
		FS:         fs,
	}

	// SIGINT or SIGTERM stops the listener; Run then returns and we
	// close the container.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Println("Shutting down the imgfs server...")
		signal.Stop(sig)
		s.Stop()
	}()

	err = s.Run()
	if err2 := fs.Close(); err == nil {
		err = err2
	}
	if err != nil {
		log.Fatalln(err)
	}
}
