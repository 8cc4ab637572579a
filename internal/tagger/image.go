package tagger

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// resizeCover scales data down to fit within maxSize x maxSize, preserving the
// aspect ratio, and re-encodes it as JPEG. Covers already within bounds are
// returned unchanged with changed set to false.
func resizeCover(data []byte, maxSize int) ([]byte, bool, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}
	if cfg.Width <= maxSize && cfg.Height <= maxSize {
		return data, false, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}

	width, height := fit(cfg.Width, cfg.Height, maxSize)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, false, err
	}
	return buf.Bytes(), true, nil
}

func fit(width, height, maxSize int) (int, int) {
	if width >= height {
		return maxSize, max(1, height*maxSize/width)
	}
	return max(1, width*maxSize/height), maxSize
}
