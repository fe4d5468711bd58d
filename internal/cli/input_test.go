package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("ftp.example.com\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Host?", &out)
	if err != nil || got != "ftp.example.com" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Host?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("called them\nno answer\n\n\n"))
	var out bytes.Buffer
	got, err := GetMultiline(in, "Note text", &out)
	if err != nil {
		t.Fatal(err)
	}
	want := "called them\nno answer"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return []byte("hunter2"), nil
	}
	var out bytes.Buffer
	got, err := GetPassword(&out, "FTP password")
	if err != nil || got != "hunter2" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	if !strings.Contains(out.String(), "FTP password") {
		t.Fatalf("prompt missing from output: %q", out.String())
	}
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetPassword(&out, "FTP password")
	if err == nil {
		t.Fatal("expected error")
	}
}
