package heatmap

import "math"

// pixel is a projected point in raster coordinates.
type pixel struct {
	x, y float64
}

// cell is one aggregated density cell, centered at (x, y) in raster
// coordinates with its drawable extent and weight.
type cell struct {
	x, y   float64
	w, h   float64
	weight float64
}

func bbox(pts []pixel) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p.x)
		minY = math.Min(minY, p.y)
		maxX = math.Max(maxX, p.x)
		maxY = math.Max(maxY, p.y)
	}
	return
}

// hexbin assigns each point to the nearest center of a dual offset lattice,
// nx columns wide. Row count keeps the cells close to regular hexagons.
// Returned cell.w is the hexagon circumradius, weights are counts.
func hexbin(pts []pixel, nx int) []cell {
	if len(pts) == 0 {
		return nil
	}

	minX, minY, maxX, maxY := bbox(pts)
	ny := int(math.Max(1, math.Round(float64(nx)/math.Sqrt(3))))

	sx := (maxX - minX) / float64(nx)
	sy := (maxY - minY) / float64(ny)
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}

	// doubled indices keep both lattices in one map: even pairs are the
	// base lattice, odd pairs the half-offset one
	type key struct{ i, j int }
	counts := make(map[key]float64)

	for _, p := range pts {
		px := (p.x - minX) / sx
		py := (p.y - minY) / sy

		ix1 := math.Round(px)
		iy1 := math.Round(py)
		d1 := (px-ix1)*(px-ix1) + 3*(py-iy1)*(py-iy1)

		ix2 := math.Floor(px) + 0.5
		iy2 := math.Floor(py) + 0.5
		d2 := (px-ix2)*(px-ix2) + 3*(py-iy2)*(py-iy2)

		if d1 <= d2 {
			counts[key{int(2 * ix1), int(2 * iy1)}]++
		} else {
			counts[key{int(2 * ix2), int(2 * iy2)}]++
		}
	}

	radius := sx / math.Sqrt(3)
	cells := make([]cell, 0, len(counts))
	for k, n := range counts {
		cells = append(cells, cell{
			x:      minX + float64(k.i)/2*sx,
			y:      minY + float64(k.j)/2*sy,
			w:      radius,
			weight: n,
		})
	}
	return cells
}

// hist2d bins points into an n x n rectangular grid over their bounding
// box. Only non-empty bins are returned.
func hist2d(pts []pixel, n int) []cell {
	if len(pts) == 0 {
		return nil
	}

	minX, minY, maxX, maxY := bbox(pts)
	wx := (maxX - minX) / float64(n)
	wy := (maxY - minY) / float64(n)
	if wx == 0 {
		wx = 1
	}
	if wy == 0 {
		wy = 1
	}

	counts := make(map[[2]int]float64)
	for _, p := range pts {
		i := int((p.x - minX) / wx)
		j := int((p.y - minY) / wy)
		// points on the upper edge belong to the last bin
		if i >= n {
			i = n - 1
		}
		if j >= n {
			j = n - 1
		}
		counts[[2]int{i, j}]++
	}

	cells := make([]cell, 0, len(counts))
	for k, c := range counts {
		cells = append(cells, cell{
			x:      minX + (float64(k[0])+0.5)*wx,
			y:      minY + (float64(k[1])+0.5)*wy,
			w:      wx,
			h:      wy,
			weight: c,
		})
	}
	return cells
}

// kde evaluates a Gaussian kernel density estimate on an n x n grid over
// the bounding box. Bandwidth per axis is the sample standard deviation
// scaled by Scott's factor. Needs at least two points.
func kde(pts []pixel, n int) []cell {
	if len(pts) < 2 {
		return nil
	}

	minX, minY, maxX, maxY := bbox(pts)

	var meanX, meanY float64
	for _, p := range pts {
		meanX += p.x
		meanY += p.y
	}
	meanX /= float64(len(pts))
	meanY /= float64(len(pts))

	var varX, varY float64
	for _, p := range pts {
		varX += (p.x - meanX) * (p.x - meanX)
		varY += (p.y - meanY) * (p.y - meanY)
	}
	varX /= float64(len(pts) - 1)
	varY /= float64(len(pts) - 1)

	factor := math.Pow(float64(len(pts)), -1.0/6.0)
	hx := math.Sqrt(varX) * factor
	hy := math.Sqrt(varY) * factor
	if hx == 0 {
		hx = 1
	}
	if hy == 0 {
		hy = 1
	}

	stepX := 0.0
	stepY := 0.0
	if n > 1 {
		stepX = (maxX - minX) / float64(n-1)
		stepY = (maxY - minY) / float64(n-1)
	}

	cells := make([]cell, 0, n*n)
	for j := 0; j < n; j++ {
		gy := minY + float64(j)*stepY
		for i := 0; i < n; i++ {
			gx := minX + float64(i)*stepX

			var z float64
			for _, p := range pts {
				dx := (gx - p.x) / hx
				dy := (gy - p.y) / hy
				z += math.Exp(-0.5 * (dx*dx + dy*dy))
			}

			cells = append(cells, cell{
				x:      gx,
				y:      gy,
				w:      math.Max(stepX, 1),
				h:      math.Max(stepY, 1),
				weight: z,
			})
		}
	}
	return cells
}
