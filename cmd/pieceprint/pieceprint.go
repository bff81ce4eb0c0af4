// Binary pieceprint prints the pieces of a place on the terminal.
package main

import (
	"flag"
	"image"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/nfnt/resize"

	"badc0de.net/pkg/go-pieces/datasource"
	"badc0de.net/pkg/go-pieces/imageprint"
	"badc0de.net/pkg/go-pieces/paths"
	"badc0de.net/pkg/go-pieces/splitter"
)

var (
	placeID       = flag.String("place", "", "id of the place to print")
	hasBackground = flag.Bool("has_background", true, "whether label files contain a background record")
	col           = flag.Bool("col", true, "whether to use color at all")
	col256        = flag.Bool("col256", false, "whether to use 256 col instead of 24 bit")
	rasterm       = flag.Bool("rasterm", false, "whether to print with kitty, iterm or sixel graphics")
	blanks        = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize      = flag.Bool("downsize", true, "whether to shrink pieces to fit the terminal")
	banner        = flag.Bool("banner", true, "whether to print the place id as a banner first")

	dataDir string
)

func out(p *imageprint.Printer, title string, img image.Image) {
	if *downsize {
		if termSize, err := GetTermSize(); err == nil {
			if termSize.WSXPixel != 0 && termSize.WSYPixel != 0 && *rasterm {
				img = resize.Thumbnail(termSize.WSXPixel/2, termSize.WSYPixel/2, img, resize.Lanczos3)
			} else if termSize.WSCol != 0 && termSize.WSRow > 2 {
				// Each pixel takes two cells horizontally.
				img = resize.Thumbnail(termSize.WSCol/2, termSize.WSRow-2, img, resize.Lanczos3)
			}
		} else {
			glog.V(1).Infof("not downsizing: %v", err)
		}
	}
	if err := p.PrintTitled(title, img); err != nil {
		glog.Errorf("printing %s: %v", title, err)
	}
}

func main() {
	paths.SetupDirFlag("precomputed", "data_dir", &dataDir)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if *placeID == "" || dataDir == "" {
		glog.Exitf("usage: pieceprint -data_dir DIR -place ID")
	}

	src, err := datasource.NewDir(dataDir)
	if err != nil {
		glog.Exitf("opening data directory: %v", err)
	}
	place, ok, err := splitter.New(src, splitter.WithBackground(*hasBackground)).Split(*placeID)
	if err != nil {
		glog.Exitf("loading %q: %v", *placeID, err)
	}
	if !ok {
		glog.Exitf("no place %q in %s", *placeID, src.Path())
	}

	p := &imageprint.Printer{W: os.Stdout, Blanks: *blanks}
	switch {
	case *rasterm:
		p.Mode = imageprint.ModeRasTerm
	case !*col:
		p.Mode = imageprint.ModeNoColor
	case *col256:
		p.Mode = imageprint.Mode256Color
	default:
		p.Mode = imageprint.Mode24bit
	}

	if *banner {
		figure.NewFigure(place.ID, "", true).Print()
	}
	for _, piece := range place.Pieces {
		img, err := place.Sprite.Extract(piece.BitmapImage)
		if err != nil {
			glog.Exitf("extracting %s: %v", piece.ID, err)
		}
		out(p, piece.ID, img)
	}
}
