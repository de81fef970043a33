package cover

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/browser/browsertest"
)

func TestCropRect(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want image.Rectangle
	}{
		{"too wide keeps center", 2400, 648, image.Rect(600, 0, 1800, 648)},
		{"too tall keeps top", 1200, 1200, image.Rect(0, 0, 1200, 648)},
		{"exact", 1200, 648, image.Rect(0, 0, 1200, 648)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CropRect(tt.w, tt.h, PaperCoverWidth, PaperCoverHeight))
		})
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestFit(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "cover_material.png")
	writePNG(t, src, 300, 400)

	require.NoError(t, Fit(src, src, PaperCoverWidth, PaperCoverHeight))

	f, err := os.Open(src)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, PaperCoverWidth, cfg.Width)
	assert.Equal(t, PaperCoverHeight, cfg.Height)
}

func TestFit_InvalidImage(t *testing.T) {
	src := filepath.Join(t.TempDir(), "x.png")
	require.NoError(t, os.WriteFile(src, []byte("not an image"), 0o644))
	assert.Error(t, Fit(src, src, 10, 10))
}

func TestMaker_Make(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cover", "cover.png")
	htmlURL := "file://" + filepath.ToSlash(HTMLPath(out))
	b := &browsertest.Static{Pages: map[string][]string{htmlURL: {"<png>"}}}

	m, err := NewMaker(b)
	require.NoError(t, err)
	err = m.Make(context.Background(), KindCompExpress, CoverData{
		Title:    "图像匹配挑战 2025",
		Host:     "Kaggle",
		Keywords: []string{"三维重建", "图像匹配"},
	}, out)
	require.NoError(t, err)

	html, err := os.ReadFile(HTMLPath(out))
	require.NoError(t, err)
	assert.Contains(t, string(html), "Kaggle竞赛速递")
	assert.Contains(t, string(html), "三维重建、图像匹配")
	assert.FileExists(t, out)
	assert.Equal(t, []string{htmlURL}, b.Opened)
}

func TestMaker_Weekly(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cover.png")
	htmlURL := "file://" + filepath.ToSlash(HTMLPath(out))
	m, err := NewMaker(&browsertest.Static{Pages: map[string][]string{htmlURL: {"<png>"}}})
	require.NoError(t, err)

	require.NoError(t, m.Make(context.Background(), KindPaperExpress, CoverData{Year: 2025, Week: "W05"}, out))
	html, err := os.ReadFile(HTMLPath(out))
	require.NoError(t, err)
	assert.Contains(t, string(html), "2025年第5周")

	assert.Error(t, m.Make(context.Background(), "unknown", CoverData{}, out))
}
