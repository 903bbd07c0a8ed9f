// Command brdec decompresses a raw brotli stream.
package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/dsnet/brotli/brotli"
)

func main() {
	inputFile := flag.String("i", "", "input file (default stdin)")
	outputFile := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	in := os.Stdin
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		in = f
	}
	out := os.Stdout
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		out = f
	}

	r := brotli.NewReader(in)
	if _, err := io.Copy(out, r); err != nil {
		log.Fatal(err)
	}
	if err := r.Close(); err != nil {
		log.Fatal(err)
	}
}
