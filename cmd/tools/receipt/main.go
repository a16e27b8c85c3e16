// Command receipt rings up a basket file on a register and prints the receipt.
//
//	receipt -catalog catalog.yaml -basket basket.yaml
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/noah-isme/toko-register/internal/catalog"
	"github.com/noah-isme/toko-register/internal/register"
)

func main() {
	var (
		catalogPath = flag.String("catalog", os.Getenv("CATALOG_PATH"), "catalog YAML used to resolve item codes")
		basketPath  = flag.String("basket", "-", "basket YAML to ring up; - reads stdin")
		lenient     = flag.Bool("lenient", false, "accept items that fail validation (e.g. negative prices)")
		showTotal   = flag.Bool("subtotals", false, "print the running subtotal after each scan")
	)
	flag.Parse()

	var items *catalog.Catalog
	if *catalogPath != "" {
		c, err := catalog.Load(*catalogPath)
		if err != nil {
			log.Fatalf("load catalog: %v", err)
		}
		items = c
	}

	data, err := readInput(*basketPath)
	if err != nil {
		log.Fatalf("read basket: %v", err)
	}
	b, err := parseBasket(data)
	if err != nil {
		log.Fatalf("parse basket: %v", err)
	}

	var opts []register.Option
	if !*lenient {
		opts = append(opts, register.WithStrictItems())
	}
	reg := register.New(opts...)
	var progress io.Writer = io.Discard
	if *showTotal {
		progress = os.Stderr
	}
	if err := ringUp(reg, items, b, progress); err != nil {
		log.Fatalf("ring up: %v", err)
	}
	fmt.Println(reg.Finalize().Output())
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
