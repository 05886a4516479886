package distort

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns the xxHash64 of the image size, channel count and
// pixel values as 16 hex chars. Two images with the same fingerprint hold
// the same pixels for all practical purposes. Images in modes other than
// gray, NRGBA and RGBA are hashed through their NRGBA conversion.
func Fingerprint(img image.Image) string {
	r, err := newRaster(img)
	if err != nil {
		if r, err = newRaster(ToNRGBA(img)); err != nil {
			return fmt.Sprintf("%016x", xxhash.Sum64(nil))
		}
	}

	h := xxhash.New()
	var hdr [12]byte
	binary.BigEndian.PutUint32(hdr[0:], uint32(r.width))
	binary.BigEndian.PutUint32(hdr[4:], uint32(r.height))
	binary.BigEndian.PutUint32(hdr[8:], uint32(r.nband))
	h.Write(hdr[:])

	rowSize := r.width * r.nband
	for y := 0; y < r.height; y++ {
		h.Write(r.pix[y*r.stride : y*r.stride+rowSize])
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
