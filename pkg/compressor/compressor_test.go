package compressor

import (
	"bytes"
	"compress/gzip"
	"io"
	"strings"
	"testing"
)

func TestRegistry_NilSupportsNothing(t *testing.T) {
	var r *Registry
	for _, coding := range []string{"gzip", "deflate", "br"} {
		if r.Supports(coding) {
			t.Errorf("nil Registry.Supports(%q) = true, want false", coding)
		}
	}
}

func TestRegistry_EmptySupportsNothing(t *testing.T) {
	r := NewRegistry()
	for _, coding := range []string{"gzip", "deflate", "br"} {
		if r.Supports(coding) {
			t.Errorf("empty Registry.Supports(%q) = true, want false", coding)
		}
	}
}

func TestRegistry_Default(t *testing.T) {
	r := Default()
	for _, coding := range []string{"gzip", "deflate", "br", "GZIP", "x-gzip"} {
		if !r.Supports(coding) {
			t.Errorf("Default().Supports(%q) = false, want true", coding)
		}
	}
	if r.Supports("zstd") {
		t.Error("Default().Supports(\"zstd\") = true, want false")
	}
}

func TestWrap_UnregisteredCodingPassesThrough(t *testing.T) {
	r := NewRegistry("deflate")
	src := strings.NewReader("raw bytes, not actually gzipped")
	out, wrapped, err := r.Wrap("gzip", src)
	if err != nil {
		t.Fatal(err)
	}
	if wrapped {
		t.Error("wrapped = true for an unregistered coding, want false")
	}
	if out != src {
		t.Error("Wrap returned a different reader for an unregistered coding")
	}
}

func TestWrap_NilRegistryPassesThrough(t *testing.T) {
	var r *Registry
	src := strings.NewReader("raw bytes")
	out, wrapped, err := r.Wrap("br", src)
	if err != nil {
		t.Fatal(err)
	}
	if wrapped {
		t.Error("wrapped = true on a nil Registry, want false")
	}
	if out != src {
		t.Error("Wrap returned a different reader on a nil Registry")
	}
}

func TestWrap_RegisteredGzipDecodes(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	io.WriteString(zw, "hello, world")
	zw.Close()

	r := NewRegistry("gzip")
	out, wrapped, err := r.Wrap("gzip", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if !wrapped {
		t.Fatal("wrapped = false for a registered coding, want true")
	}
	got, err := io.ReadAll(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello, world" {
		t.Errorf("decoded = %q, want %q", got, "hello, world")
	}
}

func TestWrap_IdentityAlwaysPassesThrough(t *testing.T) {
	r := Default()
	src := strings.NewReader("unchanged")
	out, wrapped, err := r.Wrap("identity", src)
	if err != nil {
		t.Fatal(err)
	}
	if wrapped || out != src {
		t.Error("identity coding should always pass through unwrapped")
	}
}
