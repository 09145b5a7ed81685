// Command mapjson normalizes a JSON object by decoding it into a typed map
// and encoding it again.
//
// The key type decides how property names are read: with --key-type=int the
// name "007" becomes the key 7 and is written back as "7", with uuid the names
// are parsed and written in canonical lower case form.
//
//	mapjson --key-type=uuid --deterministic --indent="  " owners.json
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

func main() {
	if err := run(os.Args[1:], afero.NewOsFs(), os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "mapjson:", err)
		os.Exit(1)
	}
}
