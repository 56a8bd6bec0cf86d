package animation

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formwizard/pkg/model"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestCompute_ScalesRelativeToBase(t *testing.T) {
	base := model.Size{Width: 480, Height: 60}
	got := Compute(base, model.Size{Width: 480, Height: 120}, base)

	want := Params{
		WidthScale:  1,
		HeightScale: 2,
		Outer: Keyframes{
			From: Unit, To: Scale{X: 1, Y: 2}, Origin: OriginCenterTop,
			Duration: Duration, Timing: "linear", FillMode: "forwards",
		},
		Inverse: Keyframes{
			From: Unit, To: Scale{X: 1, Y: 0.5}, Origin: OriginLeftTop,
			Duration: Duration, Timing: "linear", FillMode: "forwards",
		},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute_InverseCancelsOuter(t *testing.T) {
	base := model.Size{Width: 480, Height: 60}
	got := Compute(model.Size{Width: 480, Height: 90}, model.Size{Width: 110, Height: 40}, base)

	for _, pair := range [][2]Scale{{got.Outer.From, got.Inverse.From}, {got.Outer.To, got.Inverse.To}} {
		if math.Abs(pair[0].X*pair[1].X-1) > 1e-9 || math.Abs(pair[0].Y*pair[1].Y-1) > 1e-9 {
			t.Fatalf("inverse does not cancel outer: %+v * %+v", pair[0], pair[1])
		}
	}
	if got.Outer.From.Y != 1.5 {
		t.Fatalf("expected outer to start from previous ratio 1.5, got %v", got.Outer.From.Y)
	}
}

func TestCompute_IsDeterministic(t *testing.T) {
	prev := model.Size{Width: 480, Height: 60}
	next := model.Size{Width: 480, Height: 180}
	base := model.Size{Width: 480, Height: 60}
	first := Compute(prev, next, base)
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, Compute(prev, next, base)); diff != "" {
			t.Fatalf("compute not deterministic (-first +again):\n%s", diff)
		}
	}
}

func TestCompute_MeasurementNotReadyFallsBackToBase(t *testing.T) {
	base := model.Size{Width: 480, Height: 60}
	got := Compute(base, model.Size{}, base)
	if !got.Pending {
		t.Fatalf("expected pending flag for unknown next size")
	}
	if got.WidthScale != 1 || got.HeightScale != 1 {
		t.Fatalf("expected base fallback scales, got %v x %v", got.WidthScale, got.HeightScale)
	}

	unknownBase := Compute(model.Size{Width: 1, Height: 1}, model.Size{Width: 2, Height: 2}, model.Size{})
	if unknownBase.WidthScale != 1 || unknownBase.HeightScale != 1 || unknownBase.Pending {
		t.Fatalf("expected identity without pending for unknown base and known sizes, got %+v", unknownBase)
	}
}

func TestGeometry_SubmitStepUsesSubmitWidth(t *testing.T) {
	g := NewGeometry(0, 110, 0)
	if !g.Capture(model.Size{Width: 480, Height: 60}) {
		t.Fatalf("expected first capture to succeed")
	}
	if g.Capture(model.Size{Width: 900, Height: 90}) {
		t.Fatalf("expected base to be captured once")
	}

	base, _ := g.Base()
	prev := g.StepSize(&model.Input{Name: "topics"}, model.Size{}, false)
	next := g.StepSize(nil, model.Size{}, true)
	params := g.Transition(prev, next)

	if diff := cmp.Diff(model.Size{Width: 480, Height: 60}, base); diff != "" {
		t.Fatalf("base mismatch (-want +got):\n%s", diff)
	}
	if math.Abs(params.WidthScale-0.2292) > 1e-4 {
		t.Fatalf("expected width scale ~0.2292, got %v", params.WidthScale)
	}
	if math.Abs(params.HeightScale-40.0/60.0) > 1e-9 {
		t.Fatalf("expected submit height ratio, got %v", params.HeightScale)
	}
}

func TestGeometry_StepSizePrefersMeasurement(t *testing.T) {
	g := NewGeometry(60, 110, 40)
	g.Capture(model.Size{Width: 480})

	declared := &model.Input{Name: "topics", Height: model.Float(150)}
	if got := g.StepSize(declared, model.Size{}, false); got.Height != 150 {
		t.Fatalf("expected declared height, got %v", got.Height)
	}
	if got := g.StepSize(declared, model.Size{Width: 300, Height: 200}, false); got.Height != 200 || got.Width != 480 {
		t.Fatalf("expected measured height on base width, got %+v", got)
	}
	if got := g.StepSize(&model.Input{Name: "url"}, model.Size{}, false); got.Height != 60 {
		t.Fatalf("expected base height fallback, got %v", got.Height)
	}
}
