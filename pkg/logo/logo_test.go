package logo

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writePNG(testingT *testing.T, path string, fill color.Color) {
	testingT.Helper()
	source := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			source.Set(x, y, fill)
		}
	}
	file, err := os.Create(path)
	require.NoError(testingT, err)
	require.NoError(testingT, png.Encode(file, source))
	require.NoError(testingT, file.Close())
}

func TestLoaderScalesFirstExistingCandidate(testingT *testing.T) {
	directory := testingT.TempDir()
	missing := filepath.Join(directory, "logo_25.png")
	present := filepath.Join(directory, "attached.png")
	writePNG(testingT, present, color.Black)

	asset := NewLoader([]string{missing, present}, 0, nil).Load()
	require.NotNil(testingT, asset)
	require.Equal(testingT, present, asset.Path)
	require.Equal(testingT, image.Rect(0, 0, DefaultSize, DefaultSize), asset.Image.Bounds())
}

func TestLoaderReturnsNilWithoutCandidates(testingT *testing.T) {
	require.Nil(testingT, NewLoader(nil, 32, nil).Load())
	require.Nil(testingT, NewLoader([]string{"", filepath.Join(testingT.TempDir(), "absent.png")}, 32, nil).Load())
}

func TestLoaderSwallowsCorruptImage(testingT *testing.T) {
	path := filepath.Join(testingT.TempDir(), "logo_25.png")
	require.NoError(testingT, os.WriteFile(path, []byte("not an image"), 0o644))

	require.Nil(testingT, NewLoader([]string{path}, 32, nil).Load())
}

func TestASCIIRendersDarkPixelsDense(testingT *testing.T) {
	path := filepath.Join(testingT.TempDir(), "logo.png")
	writePNG(testingT, path, color.Black)
	asset := NewLoader([]string{path}, 16, nil).Load()
	require.NotNil(testingT, asset)

	lines := asset.ASCII(10)
	require.Len(testingT, lines, 5)
	for _, line := range lines {
		require.Equal(testingT, strings.Repeat("@", 10), line)
	}
}

func TestASCIITreatsTransparencyAsBlank(testingT *testing.T) {
	path := filepath.Join(testingT.TempDir(), "logo.png")
	writePNG(testingT, path, color.Transparent)
	asset := NewLoader([]string{path}, 16, nil).Load()
	require.NotNil(testingT, asset)

	for _, line := range asset.ASCII(8) {
		require.Empty(testingT, line)
	}
}

func TestASCIIHandlesNilAsset(testingT *testing.T) {
	var asset *Asset
	require.Nil(testingT, asset.ASCII(10))
}
