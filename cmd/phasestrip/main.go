// Command phasestrip renders evenly spaced moon phases into one grid image.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/echoflaresat/skydome/ephem"
	"github.com/echoflaresat/skydome/render"
)

func parseLayout(s string) (cols, rows int, err error) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid tile format: %s (expected NxM)", s)
	}
	if cols, err = strconv.Atoi(parts[0]); err != nil || cols <= 0 {
		return 0, 0, fmt.Errorf("invalid cols: %q", parts[0])
	}
	if rows, err = strconv.Atoi(parts[1]); err != nil || rows <= 0 {
		return 0, 0, fmt.Errorf("invalid rows: %q", parts[1])
	}
	return cols, rows, nil
}

// strip shades cols*rows phases from new moon onward, row by row.
func strip(ctx context.Context, cols, rows int, p render.Phase, dark bool) (*image.NRGBA, error) {
	n := cols * rows
	tile := p.Size
	canvas := image.NewNRGBA(image.Rect(0, 0, cols*tile, rows*tile))

	tiles := make([]*image.NRGBA, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tiles[i] = render.RenderPhase(p, float64(i)/float64(n), dark)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, t := range tiles {
		x := (i % cols) * tile
		y := (i / cols) * tile
		draw.Draw(canvas, image.Rect(x, y, x+tile, y+tile), t, image.Point{}, draw.Over)
	}
	return canvas, nil
}

func main() {
	size := flag.Int("size", 128, "Tile size in pixels")
	ss := flag.Int("ss", 2, "Supersampling factor")
	dark := flag.Bool("dark", false, "Dark color theme")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <cols>x<rows> <output.png|.tiff>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}
	cols, rows, err := parseLayout(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	output := flag.Arg(1)

	p := render.DefaultPhase()
	p.Size = *size
	p.Supersample = *ss

	canvas, err := strip(context.Background(), cols, rows, p, *dark)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("-> creating %s\n", output)
	outFile, err := os.Create(output)
	if err != nil {
		log.Fatalf("Could not create %s: %v", output, err)
	}
	defer outFile.Close()

	if err := render.Encode(outFile, canvas, render.FormatFor(output)); err != nil {
		log.Fatalf("Failed to encode %s: %v", output, err)
	}
	n := cols * rows
	for i := 0; i < n; i++ {
		fmt.Printf("  %2d %s\n", i, ephem.PhaseName(float64(i)/float64(n)))
	}
}
