// Package main prints the bcrypt hash for GYMSTATS_ADMIN_PASSWORD_HASH.
// The password is read from stdin so it stays out of shell history.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/2beens/gymprofile/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Fprint(os.Stderr, "password: ")
	password, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && password == "" {
		log.Fatalf("read password: %s", err)
	}

	password = strings.TrimRight(password, "\r\n")
	if password == "" {
		log.Fatalln("empty password")
	}

	hash, err := pkg.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %s", err)
	}
	fmt.Println(hash)
}
