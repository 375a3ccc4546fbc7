package analyzer

import "github.com/KwakOri/zuku-sub002/internal/domain"

// FindBlobs returns the 4-connected foreground components of region with at least
// minArea pixels. Order follows the raster scan of each blob's first pixel.
func FindBlobs(region *Region, minArea int) []domain.Blob {
	w, h := region.Width(), region.Height()
	visited := make([]bool, w*h)
	queue := make([]int, 0, 64)

	blobs := []domain.Blob{}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			start := y*w + x
			if visited[start] || region.Pix[start] != 0 {
				continue
			}

			var blob domain.Blob
			blob, queue = floodFill(region, visited, queue[:0], start)
			if blob.Area >= minArea {
				blobs = append(blobs, blob)
			}
		}
	}

	return blobs
}

// floodFill walks one component breadth-first from start. queue is scratch space
// reused between components; indexes are linear pixel offsets.
func floodFill(region *Region, visited []bool, queue []int, start int) (domain.Blob, []int) {
	w, h := region.Width(), region.Height()
	minX, minY := start%w, start/w
	maxX, maxY := minX, minY
	area := 0

	visited[start] = true
	queue = append(queue, start)

	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		x, y := idx%w, idx/w
		area++

		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}

		// up, down, left, right
		if y > 0 {
			queue = visit(region, visited, queue, idx-w)
		}
		if y < h-1 {
			queue = visit(region, visited, queue, idx+w)
		}
		if x > 0 {
			queue = visit(region, visited, queue, idx-1)
		}
		if x < w-1 {
			queue = visit(region, visited, queue, idx+1)
		}
	}

	return domain.Blob{
		CenterX: float64(minX+maxX) / 2,
		CenterY: float64(minY+maxY) / 2,
		Width:   maxX - minX + 1,
		Height:  maxY - minY + 1,
		Area:    area,
	}, queue
}

func visit(region *Region, visited []bool, queue []int, idx int) []int {
	if visited[idx] || region.Pix[idx] != 0 {
		return queue
	}
	visited[idx] = true
	return append(queue, idx)
}
