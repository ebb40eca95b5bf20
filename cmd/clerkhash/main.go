// Command clerkhash prints a bcrypt hash suitable for CLERK_PASSWORD_HASH.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/polkiloo/giftpromo/internal/pkg/auth"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "clerkhash: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	flags := flag.NewFlagSet("clerkhash", flag.ContinueOnError)
	cost := flags.Int("cost", 0, "bcrypt cost (0 uses the library default)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	password, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("read password: %w", err)
	}
	password = strings.TrimRight(password, "\r\n")

	hash, err := auth.NewBcryptHasher(*cost).Hash(password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}
