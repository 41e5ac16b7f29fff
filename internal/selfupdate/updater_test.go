package selfupdate

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveFor(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
		wantErr      bool
	}{
		{"darwin", "arm64", "skillbit_darwin_arm64.tar.gz", false},
		{"linux", "amd64", "skillbit_linux_amd64.tar.gz", false},
		{"linux", "arm64", "skillbit_linux_arm64.tar.gz", false},
		{"windows", "amd64", "", true},
		{"linux", "mips", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			got, err := archiveFor(tt.goos, tt.goarch)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupported)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChecksumFor(t *testing.T) {
	sums := []byte("ABC123  skillbit_linux_amd64.tar.gz\nbadline\n\ndef456 *skillbit_darwin_arm64.tar.gz\n")

	got, err := checksumFor(sums, "skillbit_linux_amd64.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	got, err = checksumFor(sums, "skillbit_darwin_arm64.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "def456", got)

	_, err = checksumFor(sums, "skillbit_linux_arm64.tar.gz")
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestUnpack(t *testing.T) {
	content := []byte("#!/bin/sh\necho skillbit")

	got, err := unpack(tarball(t, "dist/skillbit", content))
	require.NoError(t, err)
	assert.Equal(t, content, got)

	_, err = unpack(tarball(t, "README.md", content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReplaceExecutableKeepsMode(t *testing.T) {
	target := filepath.Join(t.TempDir(), "skillbit")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o750))

	require.NoError(t, replaceExecutable(target, []byte("new")))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be gone")
}

// releaseHost serves a v2.0.0 release whose checksums.txt lists sum for
// the running platform's archive.
func releaseHost(t *testing.T, archive []byte, sum string) *httptest.Server {
	t.Helper()
	asset, err := archiveFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		t.Skipf("no release build for %s/%s", runtime.GOOS, runtime.GOARCH)
	}
	dl := "/skillbit/skillbit/releases/download/v2.0.0/"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/skillbit/skillbit/releases/latest":
			_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","html_url":"https://example.com/v2.0.0"}`))
		case dl + asset:
			if archive == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write(archive)
		case dl + "checksums.txt":
			_, _ = w.Write([]byte(sum + "  " + asset + "\n"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestUpdate(t *testing.T) {
	binary := []byte("new-skillbit-binary")
	archive := tarball(t, "skillbit", binary)
	digest := sha256.Sum256(archive)
	good := hex.EncodeToString(digest[:])

	install := func(t *testing.T, srv *httptest.Server) (string, []Stage, error) {
		t.Helper()
		execPath := filepath.Join(t.TempDir(), "skillbit")
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0o755))
		checker := NewChecker(
			WithBaseURL(srv.URL),
			WithDownloadBaseURL(srv.URL),
			withExecPath(func() (string, error) { return execPath, nil }),
		)
		var stages []Stage
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(p UpdateProgress) {
			stages = append(stages, p.Stage)
		})
		return execPath, stages, err
	}

	t.Run("installs verified release", func(t *testing.T) {
		execPath, stages, err := install(t, releaseHost(t, archive, good))
		require.NoError(t, err)

		got, err := os.ReadFile(execPath)
		require.NoError(t, err)
		assert.Equal(t, binary, got)
		assert.Equal(t, []Stage{StageCheck, StageDownload, StageVerify, StageInstall, StageDone}, stages)
	})

	t.Run("checksum mismatch leaves binary alone", func(t *testing.T) {
		execPath, _, err := install(t, releaseHost(t, archive, "00"))
		assert.ErrorIs(t, err, ErrChecksum)

		got, rerr := os.ReadFile(execPath)
		require.NoError(t, rerr)
		assert.Equal(t, []byte("old"), got)
	})

	t.Run("missing archive", func(t *testing.T) {
		_, _, err := install(t, releaseHost(t, nil, good))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download archive")
	})

	t.Run("dev build", func(t *testing.T) {
		err := NewChecker().Update(context.Background(), &UpdateInput{CurrentVersion: "(devel)"}, nil)
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		srv := releaseServer(t, "v1.0.0")
		err := NewChecker(WithBaseURL(srv.URL)).Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})
}

// tarball builds a gzipped tar holding a single file.
func tarball(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     name,
		Size:     int64(len(content)),
		Mode:     0o755,
		Typeflag: tar.TypeReg,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}
