package renderer

import (
	"context"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestGetSamplesForPass(t *testing.T) {
	tests := []struct {
		name       string
		maxSamples int
		initial    int
		passes     int
		expected   []int
	}{
		{"single pass", 50, 1, 1, []int{50}},
		{"seven passes", 50, 1, 7, []int{1, 9, 17, 25, 33, 41, 50}},
		{"initial larger than max", 4, 10, 3, []int{4, 4, 4}},
		{"more passes than samples", 3, 1, 5, []int{1, 1, 1, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := &ProgressiveRaytracer{
				maxSamples: tt.maxSamples,
				config:     RenderConfig{InitialSamples: tt.initial, MaxPasses: tt.passes},
			}
			for i, want := range tt.expected {
				if got := pr.getSamplesForPass(i + 1); got != want {
					t.Errorf("Pass %d: expected %d samples, got %d", i+1, want, got)
				}
			}
		})
	}
}

func TestRenderProgressive_PassesConvergeToTarget(t *testing.T) {
	const spp = 12
	sc := createTestScene(t, 10, 6, spp)
	config := testConfig(3, 4, 5)
	config.MaxPasses = 4
	config.InitialSamples = 2

	mock := &MockIntegrator{returnColor: core.NewVec3(0.25, 0.5, 1)}
	pr, err := NewProgressiveRaytracer(sc, config, mock, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	numTiles := len(pr.tiles)

	passChan, tileChan, errChan := pr.RenderProgressive(context.Background(), RenderOptions{TileUpdates: true})

	tileEvents := 0
	tileDone := make(chan struct{})
	go func() {
		defer close(tileDone)
		for range tileChan {
			tileEvents++
		}
	}()

	var passes []PassResult
	for result := range passChan {
		passes = append(passes, result)
	}
	<-tileDone
	if err := <-errChan; err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(passes) != 4 {
		t.Fatalf("Expected 4 passes, got %d", len(passes))
	}
	previous := 0
	for i, pass := range passes {
		if pass.PassNumber != i+1 {
			t.Errorf("Expected pass number %d, got %d", i+1, pass.PassNumber)
		}
		if pass.Stats.MinSamples < previous {
			t.Errorf("Pass %d: sample count went backwards (%d < %d)", pass.PassNumber, pass.Stats.MinSamples, previous)
		}
		if pass.Stats.MinSamples != pass.Stats.MaxSamplesUsed {
			t.Errorf("Pass %d: expected uniform sample counts, got min %d max %d", pass.PassNumber, pass.Stats.MinSamples, pass.Stats.MaxSamplesUsed)
		}
		previous = pass.Stats.MinSamples
	}

	last := passes[len(passes)-1]
	if !last.IsLast {
		t.Error("Expected final pass to be marked last")
	}
	if !pr.Framebuffer().Complete(spp) {
		t.Errorf("Expected every pixel at exactly %d samples", spp)
	}
	if mock.callCount.Load() != int64(10*6*spp) {
		t.Errorf("Expected %d integrator calls across passes, got %d", 10*6*spp, mock.callCount.Load())
	}
	if tileEvents > len(passes)*numTiles || tileEvents == 0 {
		t.Errorf("Expected between 1 and %d tile events, got %d", len(passes)*numTiles, tileEvents)
	}
}

func TestRenderPass_TileCallbackPerTile(t *testing.T) {
	sc := createTestScene(t, 9, 9, 2)
	pr, err := NewProgressiveRaytracer(sc, testConfig(2, 4, 1), &MockIntegrator{returnColor: core.NewVec3(1, 0, 0)}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer pr.Close()

	seen := make(map[[2]int]bool)
	calls := 0
	result, err := pr.RenderPass(context.Background(), 1, func(tile TileCompletionResult) {
		calls++
		seen[[2]int{tile.TileX, tile.TileY}] = true
		if tile.TotalTiles != 9 {
			t.Errorf("Expected 9 total tiles, got %d", tile.TotalTiles)
		}
		if tile.TileImage == nil {
			t.Error("Expected tile image")
		}
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if calls != 9 || len(seen) != 9 {
		t.Errorf("Expected 9 distinct tile callbacks, got %d calls over %d tiles", calls, len(seen))
	}
	if result.Stats.CompletionRate != 1 {
		t.Errorf("Expected completion rate 1, got %f", result.Stats.CompletionRate)
	}
	if got := result.Image.RGBAAt(8, 8); got.R != 255 || got.G != 0 {
		t.Errorf("Expected red corner pixel, got %+v", got)
	}
}
