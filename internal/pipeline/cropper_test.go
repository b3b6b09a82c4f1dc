package pipeline

import (
	"math"
	"testing"

	"github.com/amankumarsingh77/shortform-backend/internal/models"
)

func newTestCropper(smoothing float64) Cropper {
	return NewSmartCropper(nil, 1.2, smoothing, 720, 1280)
}

func assertInBounds(t *testing.T, r models.CropRegion, fw, fh int) {
	t.Helper()
	if r.X < 0 || r.Y < 0 {
		t.Fatalf("crop origin out of bounds: %+v", r)
	}
	if r.X+r.Width > fw || r.Y+r.Height > fh {
		t.Fatalf("crop exceeds frame %dx%d: %+v", fw, fh, r)
	}
}

func assertAspect(t *testing.T, r models.CropRegion) {
	t.Helper()
	want := 720.0 / 1280.0
	got := float64(r.Width) / float64(r.Height)
	// One pixel of rounding slack on the shorter dimension.
	tolerance := 1.0 / float64(r.Height)
	if math.Abs(got-want) > tolerance {
		t.Fatalf("crop aspect %f, want %f (region %+v)", got, want, r)
	}
}

func TestComputeCrop_NoDetectionsFallsBackToCenterUpperThird(t *testing.T) {
	c := newTestCropper(0)
	fw, fh := 1920, 1080

	r := c.ComputeCrop([]*Point{nil, nil, nil}, fw, fh)

	assertInBounds(t, r, fw, fh)
	assertAspect(t, r)
	if r.Height != fh {
		t.Fatalf("landscape source should keep full height, got %d", r.Height)
	}
	centerX := r.X + r.Width/2
	if centerX < fw/2-1 || centerX > fw/2+1 {
		t.Fatalf("fallback crop not horizontally centered: center %d, frame %d", centerX, fw)
	}
	// Target at frame height/3 sits a third of the way down the crop.
	targetRow := r.Y + r.Height/3
	if targetRow < fh/3-1 || targetRow > fh/3+1 {
		t.Fatalf("fallback crop misses upper third: row %d, want ~%d", targetRow, fh/3)
	}
}

func TestComputeCrop_FollowsDetections(t *testing.T) {
	c := newTestCropper(0)
	fw, fh := 1920, 1080
	points := []*Point{
		{X: 1500, Y: 400, Confidence: 0.9},
		{X: 1520, Y: 410, Confidence: 0.9},
		{X: 1510, Y: 405, Confidence: 0.9},
	}

	r := c.ComputeCrop(points, fw, fh)

	assertInBounds(t, r, fw, fh)
	assertAspect(t, r)
	centerX := float64(r.X) + float64(r.Width)/2
	if math.Abs(centerX-1510) > 15 {
		t.Fatalf("crop center %f far from subject at ~1510", centerX)
	}
}

func TestComputeCrop_RecencyWeighting(t *testing.T) {
	c := newTestCropper(0)
	fw, fh := 1920, 1080
	points := []*Point{
		{X: 400, Y: 540, Confidence: 1},
		{X: 1200, Y: 540, Confidence: 1},
	}

	r := c.ComputeCrop(points, fw, fh)

	// The later detection weighs more, so the center must sit past the
	// unweighted mean of 800.
	centerX := float64(r.X) + float64(r.Width)/2
	if centerX <= 800 {
		t.Fatalf("crop center %f not biased toward later detection", centerX)
	}
}

func TestComputeCrop_ConfidenceWeighting(t *testing.T) {
	c := newTestCropper(0)
	fw, fh := 1920, 1080

	balanced := c.ComputeCrop([]*Point{
		{X: 600, Y: 540, Confidence: 0.5},
		{X: 1400, Y: 540, Confidence: 0.5},
	}, fw, fh)
	skewed := c.ComputeCrop([]*Point{
		{X: 600, Y: 540, Confidence: 0.1},
		{X: 1400, Y: 540, Confidence: 0.9},
	}, fw, fh)

	if skewed.X <= balanced.X {
		t.Fatalf("high-confidence detection should pull the crop: balanced x=%d skewed x=%d",
			balanced.X, skewed.X)
	}
}

func TestComputeCrop_SubjectNearEdgeStaysInBounds(t *testing.T) {
	c := newTestCropper(0)
	cases := []struct {
		name   string
		fw, fh int
		point  Point
	}{
		{"left edge", 1920, 1080, Point{X: 5, Y: 540, Confidence: 1}},
		{"right edge", 1920, 1080, Point{X: 1915, Y: 540, Confidence: 1}},
		{"top edge", 1920, 1080, Point{X: 960, Y: 2, Confidence: 1}},
		{"bottom edge", 1920, 1080, Point{X: 960, Y: 1078, Confidence: 1}},
		{"corner", 1280, 720, Point{X: 1279, Y: 719, Confidence: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.point
			r := c.ComputeCrop([]*Point{&p}, tc.fw, tc.fh)
			assertInBounds(t, r, tc.fw, tc.fh)
			assertAspect(t, r)
		})
	}
}

func TestComputeCrop_PortraitSourceCropsHeight(t *testing.T) {
	c := newTestCropper(0)
	fw, fh := 500, 2000

	r := c.ComputeCrop(nil, fw, fh)

	assertInBounds(t, r, fw, fh)
	assertAspect(t, r)
	if r.Width != fw {
		t.Fatalf("narrow source should keep full width, got %d", r.Width)
	}
}

func TestSmooth_BlendsOriginOnly(t *testing.T) {
	c := newTestCropper(0.3)
	fw, fh := 1920, 1080
	prev := models.CropRegion{X: 0, Y: 0, Width: 608, Height: 1080}
	next := models.CropRegion{X: 100, Y: 0, Width: 608, Height: 1080}

	got := c.Smooth(prev, next, fw, fh)

	if got.X != 30 {
		t.Fatalf("smoothed x = %d, want 30", got.X)
	}
	if got.Width != next.Width || got.Height != next.Height {
		t.Fatalf("smoothing must not change dimensions: %+v", got)
	}
	assertInBounds(t, got, fw, fh)
}

func TestSmooth_DisabledOrNoHistoryReturnsNext(t *testing.T) {
	fw, fh := 1920, 1080
	next := models.CropRegion{X: 100, Y: 0, Width: 608, Height: 1080}

	if got := newTestCropper(0).Smooth(models.CropRegion{X: 0, Y: 0, Width: 608, Height: 1080}, next, fw, fh); got != next {
		t.Fatalf("smoothing disabled should pass next through, got %+v", got)
	}
	if got := newTestCropper(0.3).Smooth(models.CropRegion{}, next, fw, fh); got != next {
		t.Fatalf("empty previous region should pass next through, got %+v", got)
	}
}
