package imaging

import (
	"fmt"
	"image"
	"sort"

	"gocv.io/x/gocv"
)

// Preprocessor normalizes a captured frame before zone extraction.
// Implementations take a bitmap in and hand a bitmap back, so fixed-zone
// cropping works the same with or without them.
type Preprocessor interface {
	Process(img image.Image) (image.Image, error)
}

// NopPreprocessor passes the frame through unchanged.
type NopPreprocessor struct{}

func (NopPreprocessor) Process(img image.Image) (image.Image, error) { return img, nil }

// Rectifier finds the card boundary in a frame via contour detection and
// warps it to a flat, upright rectangle. It is an optional refinement over
// fixed-zone cropping for photos taken at an angle.
type Rectifier struct {
	// OutputWidth is the width of the rectified card in pixels. Height
	// follows the standard card aspect ratio (63x88mm).
	OutputWidth int
}

// NewRectifier creates a rectifier with a 630px output width.
func NewRectifier() *Rectifier {
	return &Rectifier{OutputWidth: 630}
}

// Process locates the largest four-cornered contour in the frame and
// perspective-corrects it. If no card-like contour is found the original
// frame is returned with an error, so callers can fall back to fixed zones.
func (r *Rectifier) Process(img image.Image) (image.Image, error) {
	src, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return img, fmt.Errorf("failed to convert image: %w", err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorRGBAToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: 5, Y: 5}, 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, 50, 150)

	corners, err := findCardCorners(edges)
	if err != nil {
		return img, err
	}

	outW := r.OutputWidth
	outH := outW * 88 / 63

	srcPts := gocv.NewPointVectorFromPoints(corners)
	defer srcPts.Close()
	dstPts := gocv.NewPointVectorFromPoints([]image.Point{
		{X: 0, Y: 0},
		{X: outW - 1, Y: 0},
		{X: outW - 1, Y: outH - 1},
		{X: 0, Y: outH - 1},
	})
	defer dstPts.Close()

	transform := gocv.GetPerspectiveTransform(srcPts, dstPts)
	defer transform.Close()

	warped := gocv.NewMat()
	defer warped.Close()
	gocv.WarpPerspective(src, &warped, transform, image.Point{X: outW, Y: outH})

	out, err := warped.ToImage()
	if err != nil {
		return img, fmt.Errorf("failed to convert warped mat: %w", err)
	}
	return out, nil
}

// findCardCorners returns the four corners of the largest quadrilateral
// contour, ordered top-left, top-right, bottom-right, bottom-left.
func findCardCorners(edges gocv.Mat) ([]image.Point, error) {
	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	minArea := float64(edges.Rows()*edges.Cols()) * 0.1

	bestArea := 0.0
	var best []image.Point
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area < minArea || area <= bestArea {
			continue
		}
		peri := gocv.ArcLength(contour, true)
		approx := gocv.ApproxPolyDP(contour, 0.02*peri, true)
		if approx.Size() == 4 {
			bestArea = area
			best = approx.ToPoints()
		}
		approx.Close()
	}

	if best == nil {
		return nil, fmt.Errorf("no card boundary found")
	}
	return orderCorners(best), nil
}

// orderCorners sorts four points into top-left, top-right, bottom-right,
// bottom-left order using the sum/difference heuristic.
func orderCorners(pts []image.Point) []image.Point {
	sorted := make([]image.Point, len(pts))
	copy(sorted, pts)

	// Top-left has the smallest x+y, bottom-right the largest.
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].X+sorted[i].Y < sorted[j].X+sorted[j].Y
	})
	tl, br := sorted[0], sorted[3]

	// Of the remaining two, top-right has the smaller y-x.
	a, b := sorted[1], sorted[2]
	tr, bl := a, b
	if a.Y-a.X > b.Y-b.X {
		tr, bl = b, a
	}

	return []image.Point{tl, tr, br, bl}
}
