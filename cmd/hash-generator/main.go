// Command hash-generator prints the bcrypt hash of passwords for the
// SCRY_AUTH_PASSWORD_HASH setting.
//
// Usage:
//
//	hash-generator PASSWORD...
//	echo -n PASSWORD | hash-generator
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/phrazzld/scry-study/internal/auth"
)

func main() {
	passwords := os.Args[1:]
	if len(passwords) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
				passwords = append(passwords, line)
			}
		}
	}
	if len(passwords) == 0 {
		fmt.Fprintln(os.Stderr, "usage: hash-generator PASSWORD...")
		os.Exit(2)
	}

	failed := false
	for _, password := range passwords {
		hash, err := auth.HashPassword(password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating hash: %v\n", err)
			failed = true
			continue
		}
		fmt.Println(hash)
	}
	if failed {
		os.Exit(1)
	}
}
