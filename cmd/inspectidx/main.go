package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/webp"

	"mesh-cells-renderer/internal/cellcolor"
)

// inspectidx decodes a rendered cell-index image and prints coverage
// statistics, for checking renderer output by hand.
func main() {
	queryX := flag.Int("x", -1, "Print the cell index at this pixel (with -y)")
	queryY := flag.Int("y", -1, "Print the cell index at this pixel (with -x)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: inspectidx [-x N -y N] <image.png|image.webp>")
		os.Exit(1)
	}
	path := flag.Arg(0)

	img, err := loadImage(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	idx := cellcolor.DecodeImage(img)
	stats := idx.ComputeStats()

	fmt.Printf("File:       %s\n", path)
	fmt.Printf("Size:       %dx%d\n", idx.Width, idx.Height)
	fmt.Printf("Foreground: %d px (%.1f%%)\n", stats.Foreground,
		100*float64(stats.Foreground)/float64(idx.Width*idx.Height))
	fmt.Printf("Background: %d px\n", stats.Background)
	fmt.Printf("Cells seen: %d unique", stats.Unique)
	if stats.Unique > 0 {
		fmt.Printf(" (index %d..%d)", stats.MinIndex, stats.MaxIndex)
	}
	fmt.Println()

	if *queryX >= 0 && *queryY >= 0 {
		if cell, ok := idx.At(*queryX, *queryY); ok {
			fmt.Printf("Pixel (%d,%d): cell %d\n", *queryX, *queryY, cell)
		} else {
			fmt.Printf("Pixel (%d,%d): background\n", *queryX, *queryY)
		}
	}
}

func loadImage(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		img, err = png.Decode(f)
	case ".webp":
		img, err = webp.Decode(f)
	default:
		return nil, fmt.Errorf("unsupported image type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba, nil
	}
	b := img.Bounds()
	nrgba := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			nrgba.Set(x, y, img.At(x, y))
		}
	}
	return nrgba, nil
}
