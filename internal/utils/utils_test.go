package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir", "data.json")

	if err := WriteFileAtomic(path, []byte(`[]`), 0644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if err := WriteFileAtomic(path, []byte(`[{"id":"a"}]`), 0644); err != nil {
		t.Fatalf("WriteFileAtomic overwrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(data) != `[{"id":"a"}]` {
		t.Errorf("unexpected content: %s", data)
	}

	// No temp files should be left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}

func TestCompressionRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte(`{"id":"Package","downloads":42},`), 200)

	gz, err := GzipCompress(data)
	if err != nil {
		t.Fatalf("GzipCompress failed: %v", err)
	}
	if len(gz) >= len(data) {
		t.Errorf("gzip output not smaller: %d >= %d", len(gz), len(data))
	}
	plain, err := GzipDecompress(gz)
	if err != nil {
		t.Fatalf("GzipDecompress failed: %v", err)
	}
	if !bytes.Equal(plain, data) {
		t.Errorf("gzip round trip mismatch")
	}

	zst, err := ZstdCompress(data)
	if err != nil {
		t.Fatalf("ZstdCompress failed: %v", err)
	}
	plain, err = ZstdDecompress(zst)
	if err != nil {
		t.Fatalf("ZstdDecompress failed: %v", err)
	}
	if !bytes.Equal(plain, data) {
		t.Errorf("zstd round trip mismatch")
	}
}

func TestFileChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	sum, err := FileChecksum(path)
	if err != nil {
		t.Fatalf("FileChecksum failed: %v", err)
	}
	if sum != CalculateChecksum([]byte("hello")) {
		t.Errorf("file and data checksums differ")
	}
	if sum != "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824" {
		t.Errorf("unexpected sha256: %s", sum)
	}
}
