package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsAudioFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"song.mp3", true},
		{"song.FLAC", true},
		{"dir/song.opus", true},
		{"cover.jpg", false},
		{"notes.txt", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsAudioFile(tt.path); got != tt.want {
			t.Errorf("IsAudioFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFindAudioFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "album")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"a.mp3", "album/b.flac", "album/cover.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := FindAudioFiles(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("found %d files, want 2: %v", len(files), files)
	}
}

func TestFindAudioFilesEmptyDir(t *testing.T) {
	if _, err := FindAudioFiles(""); err == nil {
		t.Error("expected error for empty directory path")
	}
}
