package main

import (
	"flag"
	"fmt"
	"os"

	"sqrts/internal/crypto"
)

func main() {
	keyFile := flag.String("out", "master.key", "Where to write the hex master key")
	flag.Parse()

	if _, err := os.Stat(*keyFile); err == nil {
		fmt.Fprintf(os.Stderr, "Error: %s already exists. Refusing to overwrite.\n", *keyFile)
		os.Exit(1)
	}
	hexKey, err := crypto.GenerateMasterKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating random key: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*keyFile, []byte(hexKey+"\n"), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *keyFile, err)
		os.Exit(1)
	}
	fmt.Printf("Master key written to %s\n", *keyFile)
	fmt.Println("Point SQRTS_MASTER_KEY_FILE at it to encrypt the session file.")
}
