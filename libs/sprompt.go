package libs

import (
	"bufio"
	"bytes"
	"fmt"
	abytes "github.com/rigochain/rigo-vote/types/bytes"
	"golang.org/x/crypto/ssh/terminal"
	"io"
	"os"
	"os/signal"
)

func ClearCredential(c []byte) {
	abytes.ClearBytes(c)
}

// ReadCredential prints prompt and reads a passphrase from stdin.
// The input is not echoed when stdin is a terminal.
func ReadCredential(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !terminal.IsTerminal(fd) {
		fmt.Print(prompt)
		return readLine(os.Stdin)
	}

	state, err := terminal.GetState(fd)
	if err != nil {
		return nil, err
	}

	// restore the terminal on ^C
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer func() {
		signal.Stop(c)
		close(c)
	}()
	go func() {
		if _, ok := <-c; ok {
			_ = terminal.Restore(fd, state)
			os.Exit(1)
		}
	}()

	fmt.Print(prompt)
	p, err := terminal.ReadPassword(fd)
	fmt.Println("")
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(p), nil
}

func readLine(r io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(r).ReadBytes('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	return bytes.TrimSpace(line), nil
}
