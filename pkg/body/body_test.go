package body

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/yourusername/httpcore/pkg/errs"
	"github.com/yourusername/httpcore/pkg/header"
)

func TestFromBytes_LenAndRead(t *testing.T) {
	b := FromBytes([]byte("hello"))
	n, ok := b.Len()
	if !ok || n != 5 {
		t.Fatalf("Len() = %d, %v, want 5, true", n, ok)
	}
	got, err := Bytes(b)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Errorf("Bytes() = %q, want %q", got, "hello")
	}
	if tr := b.Trailers(); tr != nil {
		t.Errorf("Trailers() = %v, want nil", tr)
	}
}

func TestFromSlice_IsZeroCopy(t *testing.T) {
	data := []byte("borrowed")
	b := FromSlice(data)
	got, err := Bytes(b)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "borrowed" {
		t.Errorf("Bytes() = %q, want %q", got, "borrowed")
	}
}

func TestFromBytes_SecondReadIsEmpty(t *testing.T) {
	b := FromBytes([]byte("x"))
	io.ReadAll(b)
	n, err := b.Read(make([]byte, 4))
	if n != 0 || err != io.EOF {
		t.Errorf("second read = %d, %v, want 0, io.EOF", n, err)
	}
}

func TestFromReader_ExactLength(t *testing.T) {
	b := FromReader(strings.NewReader("exactly12byt"), 12)
	got, err := Bytes(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 12 {
		t.Errorf("len = %d, want 12", len(got))
	}
}

func TestFromReader_ShortReadIsConnectionAborted(t *testing.T) {
	b := FromReader(strings.NewReader("short"), 100)
	_, err := Bytes(b)
	if err == nil {
		t.Fatal("expected an error for a short body")
	}
	if errs.KindOf(err) != errs.ConnectionAborted {
		t.Errorf("KindOf(err) = %v, want ConnectionAborted", errs.KindOf(err))
	}
}

func TestFromChunkedSource_LenUnknown(t *testing.T) {
	src := &fakeChunkedSource{r: strings.NewReader("abc"), trailers: header.NewMap()}
	b := FromChunkedSource(src)
	if _, ok := b.Len(); ok {
		t.Error("Len() ok = true for chunked body, want false")
	}
	if b.Trailers() != nil {
		t.Error("Trailers() before EOF should be nil")
	}
	io.ReadAll(b)
	if b.Trailers() == nil {
		t.Error("Trailers() after EOF should be the source's map")
	}
}

type fakeChunkedSource struct {
	r        io.Reader
	read     bool
	trailers *header.Map
}

func (f *fakeChunkedSource) Read(p []byte) (int, error) {
	f.read = true
	return f.r.Read(p)
}

func (f *fakeChunkedSource) Trailers() *header.Map {
	if !f.read {
		return nil
	}
	return f.trailers
}

func TestText_RejectsInvalidUTF8(t *testing.T) {
	b := FromBytes([]byte{0xff, 0xfe, 0xfd})
	_, err := Text(b)
	if err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
}

func TestText_AcceptsValidUTF8(t *testing.T) {
	b := FromBytes([]byte("héllo"))
	got, err := Text(b)
	if err != nil {
		t.Fatal(err)
	}
	if got != "héllo" {
		t.Errorf("Text() = %q, want héllo", got)
	}
}

func TestEmpty(t *testing.T) {
	n, ok := Empty().Len()
	if !ok || n != 0 {
		t.Errorf("Empty().Len() = %d, %v, want 0, true", n, ok)
	}
}

var errBoom = errors.New("boom")

type erroringReader struct{}

func (erroringReader) Read([]byte) (int, error) { return 0, errBoom }

func TestFromReader_PropagatesUnderlyingError(t *testing.T) {
	b := FromReader(erroringReader{}, 10)
	_, err := Bytes(b)
	if !errors.Is(err, errBoom) {
		t.Errorf("expected wrapped errBoom, got %v", err)
	}
}

func TestFromBytes_Copies(t *testing.T) {
	data := []byte("abc")
	b := FromBytes(data)
	data[0] = 'z'
	got, _ := Bytes(b)
	if !bytes.Equal(got, []byte("abc")) {
		t.Errorf("FromBytes did not copy: got %q", got)
	}
}
