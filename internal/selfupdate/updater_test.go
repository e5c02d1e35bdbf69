package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetNameFor(t *testing.T) {
	cases := map[string]struct {
		goos, goarch string
		want         string
	}{
		"darwin is universal": {"darwin", "arm64", "mathsnap_Darwin_all.tar.gz"},
		"linux amd64":         {"linux", "amd64", "mathsnap_Linux_x86_64.tar.gz"},
		"linux 386":           {"linux", "386", "mathsnap_Linux_i386.tar.gz"},
		"windows arm64":       {"windows", "arm64", "mathsnap_Windows_arm64.zip"},
		"unsupported os":      {"plan9", "amd64", ""},
		"unsupported arch":    {"linux", "riscv64", ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := assetNameFor(tc.goos, tc.goarch)
			if tc.want == "" {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseChecksums(t *testing.T) {
	got := parseChecksums([]byte("aa11  one.tar.gz\nnot-a-pair\n\nx y z\nbb22  two.zip\n"))
	assert.Equal(t, map[string]string{"one.tar.gz": "aa11", "two.zip": "bb22"}, got)
	assert.Empty(t, parseChecksums(nil))
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("solve for x")
	sum := sha256.Sum256(data)
	good := hex.EncodeToString(sum[:])

	assert.NoError(t, verifyChecksum(data, good))
	assert.NoError(t, verifyChecksum(data, strings.ToUpper(good)))
	assert.ErrorIs(t, verifyChecksum(data, "deadbeef"), ErrChecksum)
}

func TestExtractBinary(t *testing.T) {
	bin := []byte("\x7fELF mathsnap")

	got, err := extractBinary(tarGz(t, "dist/mathsnap", bin), "mathsnap_Linux_x86_64.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, bin, got)

	got, err = extractBinary(zipOf(t, "mathsnap.exe", bin), "mathsnap_Windows_x86_64.zip")
	require.NoError(t, err)
	assert.Equal(t, bin, got)

	_, err = extractBinary(tarGz(t, "README.md", bin), "mathsnap_Linux_x86_64.tar.gz")
	assert.ErrorContains(t, err, "not found")
}

func TestApplyUpdate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "mathsnap")
	require.NoError(t, os.WriteFile(target, []byte("v1"), 0o750))

	bin := []byte("v2")
	sum := sha256.Sum256(bin)
	require.NoError(t, applyUpdate(bin, target, sum[:]))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, bin, got)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())

	other := sha256.Sum256([]byte("v3"))
	assert.ErrorIs(t, applyUpdate(bin, target, other[:]), ErrChecksum)
}

// releaseHost serves a v2.0.0 release whose archive holds bin. Files missing
// from assets return 404.
func releaseHost(t *testing.T, assets map[string][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/abhisek/mathsnap/releases/latest" {
			_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","html_url":"https://example.com/v2.0.0"}`))
			return
		}
		name := filepath.Base(r.URL.Path)
		if data, ok := assets[name]; ok && r.URL.Path == "/abhisek/mathsnap/releases/download/v2.0.0/"+name {
			_, _ = w.Write(data)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestUpdate(t *testing.T) {
	asset, err := assetNameFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		t.Skipf("no release asset for this platform: %v", err)
	}
	bin := []byte("mathsnap v2")
	var archive []byte
	if filepath.Ext(asset) == ".zip" {
		archive = zipOf(t, "mathsnap.exe", bin)
	} else {
		archive = tarGz(t, "mathsnap", bin)
	}
	sum := sha256.Sum256(archive)
	sums := []byte(fmt.Sprintf("%s  %s\n", hex.EncodeToString(sum[:]), asset))

	newChecker := func(srv *httptest.Server, exec string) *Checker {
		return NewChecker(
			WithBaseURL(srv.URL),
			WithDownloadBaseURL(srv.URL),
			withExecPath(func() (string, error) { return exec, nil }),
		)
	}

	t.Run("installs latest release", func(t *testing.T) {
		exec := filepath.Join(t.TempDir(), "mathsnap")
		require.NoError(t, os.WriteFile(exec, []byte("mathsnap v1"), 0o755))
		srv := releaseHost(t, map[string][]byte{asset: archive, "checksums.txt": sums})

		var stages []string
		err := newChecker(srv, exec).Update(context.Background(), &UpdateInput{CurrentVersion: "1.0.0"}, func(p UpdateProgress) {
			stages = append(stages, p.Stage)
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"check", "download", "verify", "extract", "apply", "done"}, stages)

		got, err := os.ReadFile(exec)
		require.NoError(t, err)
		assert.Equal(t, bin, got)
	})

	t.Run("explicit target skips the check", func(t *testing.T) {
		exec := filepath.Join(t.TempDir(), "mathsnap")
		require.NoError(t, os.WriteFile(exec, []byte("mathsnap v1"), 0o755))
		srv := releaseHost(t, map[string][]byte{asset: archive, "checksums.txt": sums})

		err := newChecker(srv, exec).Update(context.Background(), &UpdateInput{CurrentVersion: "v9.0.0", TargetVersion: "v2.0.0"}, nil)
		require.NoError(t, err)
	})

	t.Run("development build", func(t *testing.T) {
		err := NewChecker().Update(context.Background(), &UpdateInput{CurrentVersion: "(devel)"}, nil)
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		srv := releaseHost(t, nil)
		err := newChecker(srv, "").Update(context.Background(), &UpdateInput{CurrentVersion: "v2.0.0"}, nil)
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		bad := []byte(fmt.Sprintf("%064d  %s\n", 0, asset))
		srv := releaseHost(t, map[string][]byte{asset: archive, "checksums.txt": bad})
		err := newChecker(srv, "").Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("missing archive", func(t *testing.T) {
		srv := releaseHost(t, nil)
		err := newChecker(srv, "").Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		assert.ErrorContains(t, err, "download archive")
	})
}

func tarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Size: int64(len(content)), Mode: 0o755, Typeflag: tar.TypeReg}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func zipOf(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
