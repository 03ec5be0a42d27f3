// Command ggmap draws vector data with the gg 2D graphics library.
//
// Usage:
//
//	ggmap render [flags] file...   draw files to a PNG
//	ggmap view [flags] file...     browse files in the terminal
//
// Files are read by extension: .geojson and .json as GeoJSON, .wkt as
// well-known text (one geometry per line), .wkb and .hex as well-known
// binary.
package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "render":
		err = runRender(args)
	case "view":
		err = runView(args)
	case "help", "-h", "-help", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "ggmap: unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("ggmap: %v", err)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage:
  ggmap render [flags] file...   draw files to a PNG
  ggmap view [flags] file...     browse files in the terminal

Run "ggmap <command> -h" for the flags of a command.
`)
}
