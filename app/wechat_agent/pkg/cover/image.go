package cover

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// 论文封面统一尺寸
const (
	PaperCoverWidth  = 1200
	PaperCoverHeight = 648
)

// CropRect 按目标宽高比计算裁剪区域
// 过宽时水平居中裁剪，过高时保留顶部
func CropRect(w, h, tw, th int) image.Rectangle {
	if w*th > h*tw {
		nw := h * tw / th
		left := (w - nw) / 2
		return image.Rect(left, 0, left+nw, h)
	}
	return image.Rect(0, 0, w, w*th/tw)
}

// Fit 裁剪并缩放 src 到 tw x th，以 PNG 写入 dst，src 与 dst 可以相同
func Fit(src, dst string, tw, th int) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode %s failed: %w", filepath.Base(src), err)
	}

	b := img.Bounds()
	rect := CropRect(b.Dx(), b.Dy(), tw, th).Add(b.Min)
	out := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(out, out.Bounds(), img, rect, draw.Over, nil)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return fmt.Errorf("encode png failed: %w", err)
	}
	return os.WriteFile(dst, buf.Bytes(), 0o644)
}
