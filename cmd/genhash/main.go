// Command genhash prints the bcrypt hash to put in ADMIN_PASSWORD_HASH.
//
//	go run ./cmd/genhash 'mi-clave'
//	ADMIN_PASSWORD=mi-clave go run ./cmd/genhash
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := os.Getenv("ADMIN_PASSWORD")
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	if len(password) < 4 {
		fmt.Fprintln(os.Stderr, "uso: genhash <password> (minimo 4 caracteres)")
		os.Exit(2)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(h))
}
