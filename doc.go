/*
Package distort is an image warping library. Every output pixel is computed by
mapping its coordinates back into the source image through a formula and
averaging the source pixels found at antialias×antialias sub-sample positions.
Samples landing outside the source are skipped; a pixel without any valid
sample gets the empty color.

The warp kernels are LensWarp and PolarWarp (full frame, normalized
coordinates), RegionWarp and GlobalWave (absolute coordinates inside a box),
LocalWarp (a radial pull around a point) and Wave (a vertical sine
displacement). They all implement Effect and can be chained in a Pipeline
together with the overlays and filters of the package.

The package provides a command line interface too. To check the supported commands type:

	$ distort --help

A simple example:

	package main

	import (
		"context"
		"log"

		"github.com/esimov/distort"
	)

	func main() {
		lens, err := distort.NewLensWarp(distort.SignSquare, distort.WithAntialias(3))
		if err != nil {
			log.Fatal(err)
		}
		wave, err := distort.NewWave(0.05, 1)
		if err != nil {
			log.Fatal(err)
		}
		p := distort.NewPipeline("demo", lens, wave)

		out, err := p.Apply(context.Background(), img)
		...
	}
*/
package distort
