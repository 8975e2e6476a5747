package xfile

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{"绝对路径", "/var/log/app.log", "/var/log/app.log", nil},
		{"冗余斜杠", "/var//log/./app.log", "/var/log/app.log", nil},
		{"绝对路径中的点点", "/var/log/../tmp/app.log", "/var/tmp/app.log", nil},
		{"相对路径", "logs/app.log", "logs/app.log", nil},
		{"点开头文件名", "logs/..config", "logs/..config", nil},
		{"空路径", "", "", ErrEmptyPath},
		{"空字节", "/var/log/a\x00b", "", ErrNullByte},
		{"目录形式", "/var/log/", "", ErrInvalidPath},
		{"相对路径穿越", "../etc/passwd", "", ErrPathTraversal},
		{"中间穿越", "logs/../../etc", "", ErrPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizePath(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SanitizePath(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SanitizePath(%q) 意外错误: %v", tt.path, err)
			}
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("SanitizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home := filepath.FromSlash("/home/ops")

	tests := []struct {
		path string
		home string
		want string
	}{
		{"~", home, home},
		{"~/logs", home, filepath.Join(home, "logs")},
		{"~ops/logs", home, "~ops/logs"},
		{"/var/log", home, "/var/log"},
		{"~/logs", "", "~/logs"},
		{"", home, ""},
	}

	for _, tt := range tests {
		if got := ExpandHome(tt.path, tt.home); got != tt.want {
			t.Errorf("ExpandHome(%q, %q) = %q, want %q", tt.path, tt.home, got, tt.want)
		}
	}
}

func TestStripExt(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"job", "job"},
		{"job.py", "job"},
		{"/usr/local/bin/job.sh", "job"},
		{"archive.tar.gz", "archive.tar"},
		{".hidden", ".hidden"},
	}

	for _, tt := range tests {
		if got := StripExt(tt.in); got != tt.want {
			t.Errorf("StripExt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
