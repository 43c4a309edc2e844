// Command assess scores a single flight reading from flags or a file, either
// locally or against a running risk service.
//
// Usage:
//
//	go run ./cmd/assess --speed 550 --acceleration 0 --temperature 15 \
//	  --humidity 60 --wind-speed 10 --visibility 10
//	go run ./cmd/assess --file reading.yaml --output json
//	go run ./cmd/assess --file reading.yaml --html-dir charts
//	go run ./cmd/assess --file reading.json --server http://localhost:8000
//	go run ./cmd/assess factors
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
