// Command brcat reads one or more .br files, verifying every embedded
// brotli stream and check value, and writes the concatenation of their
// decompressed content to stdout.
package main

import (
	"bytes"
	"flag"
	"io/ioutil"
	"log"
	"os"

	"github.com/dsnet/brotli/br"
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		args = []string{"-"}
	}

	for _, name := range args {
		var data []byte
		var err error
		if name == "-" {
			data, err = ioutil.ReadAll(os.Stdin)
		} else {
			data, err = ioutil.ReadFile(name)
		}
		if err != nil {
			log.Fatal(err)
		}

		segs, err := br.Unwrap(bytes.NewReader(data))
		if err != nil {
			log.Fatalf("%s: %v", name, err)
		}
		for _, seg := range segs {
			if _, err := os.Stdout.Write(seg.Data); err != nil {
				log.Fatal(err)
			}
		}
	}
}
