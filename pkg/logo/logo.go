package logo

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

const (
	DefaultSize = 120

	logEventLogoLoaded   = "logo_loaded"
	logEventLogoFailed   = "logo_load_failed"
	logEventLogoNotFound = "logo_not_found"
	logFieldPath         = "path"

	// Characters from lightest to darkest.
	asciiRamp        = " .:-=+*#%@"
	opaqueAlphaLimit = 0x8000
)

// DefaultCandidates are the locations probed when no paths are configured.
var DefaultCandidates = []string{
	"logo_25.png",
	"attached_assets/logo_25_1753675354587.png",
}

var errEmptyImage = errors.New("logo: empty image")

// Asset is a decoded logo scaled to a square.
type Asset struct {
	Path  string
	Image image.Image
}

// Loader finds and decodes the logo. Loading is best effort: failures are logged, never returned.
type Loader struct {
	candidates []string
	size       int
	logger     *zap.Logger
}

func NewLoader(candidates []string, size int, logger *zap.Logger) *Loader {
	if size <= 0 {
		size = DefaultSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{candidates: candidates, size: size, logger: logger}
}

// Load decodes the first candidate that exists. It returns nil when none exists or decoding fails.
func (loader *Loader) Load() *Asset {
	for _, candidate := range loader.candidates {
		path := strings.TrimSpace(candidate)
		if path == "" {
			continue
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
			continue
		}
		asset, loadErr := loadFile(path, loader.size)
		if loadErr != nil {
			loader.logger.Warn(logEventLogoFailed, zap.String(logFieldPath, path), zap.Error(loadErr))
			return nil
		}
		loader.logger.Debug(logEventLogoLoaded, zap.String(logFieldPath, path))
		return asset
	}
	loader.logger.Debug(logEventLogoNotFound, zap.Strings(logFieldPath, loader.candidates))
	return nil
}

func loadFile(path string, size int) (*Asset, error) {
	file, openErr := os.Open(path)
	if openErr != nil {
		return nil, openErr
	}
	defer func() { _ = file.Close() }()

	source, _, decodeErr := image.Decode(file)
	if decodeErr != nil {
		return nil, fmt.Errorf("decode %s: %w", path, decodeErr)
	}
	if source.Bounds().Empty() {
		return nil, errEmptyImage
	}

	scaled := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), source, source.Bounds(), draw.Over, nil)
	return &Asset{Path: path, Image: scaled}, nil
}

// ASCII renders the logo as width columns of characters, using half as many rows
// because terminal cells are about twice as tall as they are wide.
func (asset *Asset) ASCII(width int) []string {
	if asset == nil || asset.Image == nil || width <= 0 {
		return nil
	}
	bounds := asset.Image.Bounds()
	height := width / 2
	if height == 0 {
		height = 1
	}

	lines := make([]string, 0, height)
	for row := 0; row < height; row++ {
		var line strings.Builder
		sampleY := bounds.Min.Y + row*bounds.Dy()/height
		for column := 0; column < width; column++ {
			sampleX := bounds.Min.X + column*bounds.Dx()/width
			line.WriteByte(shade(asset.Image.At(sampleX, sampleY)))
		}
		lines = append(lines, strings.TrimRight(line.String(), " "))
	}
	return lines
}

func shade(pixel color.Color) byte {
	_, _, _, alpha := pixel.RGBA()
	if alpha < opaqueAlphaLimit {
		return asciiRamp[0]
	}
	luminance := color.GrayModel.Convert(pixel).(color.Gray).Y
	index := (255 - int(luminance)) * (len(asciiRamp) - 1) / 255
	return asciiRamp[index]
}
