package main

import (
	"bytes"
	_ "embed"
	"io"
)

//go:embed demo_emails.json
var demoEmails []byte

// demoMailbox returns a sample mailbox for trying the tracker without credentials
func demoMailbox() io.Reader {
	return bytes.NewReader(demoEmails)
}
