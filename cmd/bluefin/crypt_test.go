package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"

	"github.com/dcrodman/bluefin/internal/core"
	"github.com/dcrodman/bluefin/internal/keyring"
)

func TestTransformFiles_BatchRoundTrip(t *testing.T) {
	dir := t.TempDir()

	db, err := keyring.Initialize(sqlite.Open(filepath.Join(dir, "test.db")), false)
	if err != nil {
		t.Fatalf("error initializing test database: %s", err)
	}
	defer func() {
		if err := keyring.Shutdown(db); err != nil {
			t.Errorf("Shutdown() unexpected error: %v", err)
		}
	}()

	if err := keyring.CreateKey(db, &keyring.Key{Name: "filekey", Secret: []byte("file secret")}); err != nil {
		t.Fatalf("error creating test key: %v", err)
	}

	cache := keyring.NewScheduleCache(-1)

	cfg := &core.Config{}
	cfg.Logging.LogLevel = "error"
	logger, err := core.NewLogger(cfg)
	if err != nil {
		t.Fatalf("error initializing logger: %v", err)
	}

	contents := [][]byte{
		[]byte("the first input file"),
		[]byte("a second, differently sized input"),
		{},
	}
	var inputs []string
	for i, c := range contents {
		p := filepath.Join(dir, fmt.Sprintf("in%d.txt", i))
		if err := os.WriteFile(p, c, 0644); err != nil {
			t.Fatalf("error writing test input: %v", err)
		}
		inputs = append(inputs, p)
	}

	if err := transformFiles(db, cache, logger, "filekey", inputs, "", false); err != nil {
		t.Fatalf("transformFiles() encrypt error: %v", err)
	}

	// One derivation served the whole batch and is still cached.
	if _, found := cache.Get("filekey"); !found {
		t.Error("expected the shared cache to hold the derived schedule after a batch")
	}

	var encrypted []string
	for i, in := range inputs {
		enc := in + encryptedSuffix
		data, err := os.ReadFile(enc)
		if err != nil {
			t.Fatalf("expected encrypted output %s: %v", enc, err)
		}
		if bytes.Equal(data, contents[i]) && len(contents[i]) > 0 {
			t.Errorf("expected %s to differ from its plaintext", enc)
		}
		encrypted = append(encrypted, enc)

		// Remove the original so the decrypt pass provably recreates it.
		if err := os.Remove(in); err != nil {
			t.Fatalf("error removing input: %v", err)
		}
	}

	if err := transformFiles(db, cache, logger, "filekey", encrypted, "", true); err != nil {
		t.Fatalf("transformFiles() decrypt error: %v", err)
	}

	for i, in := range inputs {
		got, err := os.ReadFile(in)
		if err != nil {
			t.Fatalf("expected decrypted output %s: %v", in, err)
		}
		if !bytes.Equal(got, contents[i]) {
			t.Errorf("round-tripped %s = %q, want %q", in, got, contents[i])
		}
	}
}

func TestTransformFiles_UnknownKey(t *testing.T) {
	dir := t.TempDir()

	db, err := keyring.Initialize(sqlite.Open(filepath.Join(dir, "test.db")), false)
	if err != nil {
		t.Fatalf("error initializing test database: %s", err)
	}
	defer keyring.Shutdown(db)

	cfg := &core.Config{}
	cfg.Logging.LogLevel = "error"
	logger, err := core.NewLogger(cfg)
	if err != nil {
		t.Fatalf("error initializing logger: %v", err)
	}

	input := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(input, []byte("data"), 0644); err != nil {
		t.Fatalf("error writing test input: %v", err)
	}

	err = transformFiles(db, keyring.NewScheduleCache(-1), logger, "nope", []string{input}, "", false)
	if err == nil {
		t.Fatal("expected transformFiles() to fail for an unregistered key")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		decrypt bool
		want    string
	}{
		{
			name: "encrypt appends the suffix",
			in:   "notes.txt",
			want: "notes.txt.bfn",
		},
		{
			name:    "decrypt strips the suffix",
			in:      "notes.txt.bfn",
			decrypt: true,
			want:    "notes.txt",
		},
		{
			name:    "decrypt of an unsuffixed file stays distinct",
			in:      "mystery.bin",
			decrypt: true,
			want:    "mystery.bin.out",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.in, tt.decrypt); got != tt.want {
				t.Errorf("outputPath() = %s, want %s", got, tt.want)
			}
		})
	}
}
