package imageprint

import (
	"fmt"
	"image"
	"io"
)

func printRasTerm(io.Writer, image.Image) error {
	return fmt.Errorf("imageprint: rasterm not supported on windows")
}
