package mask

import "image"

// feather blurs src with a separable box filter of the given radius. The
// window is clipped at the image edges, so a fully painted mask stays fully
// painted.
func feather(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := image.NewGray(b)
	dst := image.NewGray(b)

	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for x, v := range row {
			prefix[x+1] = prefix[x] + int(v)
		}
		for x := 0; x < w; x++ {
			x0, x1 := max(0, x-radius), min(w-1, x+radius)
			tmp.Pix[y*tmp.Stride+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(0, y-radius), min(h-1, y+radius)
			dst.Pix[y*dst.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return dst
}
