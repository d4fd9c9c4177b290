package kinematics

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"penarm/arm"
)

const eps = 1e-3

func testSolver(maxIterations int) *TwoLink {
	return NewTwoLink(
		arm.LinkConfig{L1: 4, L3: 6},
		arm.SolverConfig{
			Epsilon:         eps,
			MaxIterations:   maxIterations,
			SingularEpsilon: 1e-9,
			InitialGuess:    [2]float64{math.Pi / 2, 0},
		},
	)
}

func residual(k *TwoLink, target arm.Vec, angles arm.JointAngles) float64 {
	p := k.Forward(angles)
	return math.Hypot(target.X-p.X, target.Y-p.Y)
}

func TestTwoLinkSolve(t *testing.T) {
	Convey("a 4in/6in arm", t, func() {
		k := testSolver(50)

		Convey("the initial guess is the drawing origin", func() {
			p := k.Forward(arm.JointAngles{Theta1: math.Pi / 2, Theta2: 0})
			So(p.X, ShouldAlmostEqual, -6, 1e-9)
			So(p.Y, ShouldAlmostEqual, 4, 1e-9)

			angles, err := k.Solve(arm.Vec{X: -6, Y: 4})
			So(err, ShouldBeNil)
			So(k.LastIterations(), ShouldEqual, 0)
			So(angles.Theta1, ShouldAlmostEqual, math.Pi/2, 1e-9)
		})

		Convey("every point of the drawing area converges", func() {
			width, height := 82/25.4, 80/25.4
			for x := 0.0; x <= 2039; x += 100 {
				for y := 0.0; y <= 2039; y += 100 {
					target := arm.Vec{X: x*width/2039 - 6, Y: y*height/2039 + 4}
					angles, err := k.Solve(target)
					So(err, ShouldBeNil)
					So(residual(k, target, angles), ShouldBeLessThan, eps)
					So(k.LastIterations(), ShouldBeLessThanOrEqualTo, 50)
				}
			}
		})

		Convey("every target inside the annulus converges", func() {
			for r := 2.05; r < 9.95; r += 0.25 {
				for step := 0; step < 72; step++ {
					a := float64(step) * math.Pi / 36
					target := arm.Vec{X: r * math.Cos(a), Y: r * math.Sin(a)}
					angles, err := k.Solve(target)
					So(err, ShouldBeNil)
					So(residual(k, target, angles), ShouldBeLessThan, eps)
				}
			}
		})

		Convey("targets near the fold and straight below the base converge", func() {
			for _, target := range []arm.Vec{{X: 3, Y: 5}, {X: 2.05, Y: 0}, {X: 0, Y: -5}} {
				angles, err := k.Solve(target)
				So(err, ShouldBeNil)
				So(residual(k, target, angles), ShouldBeLessThan, eps)
			}
		})

		Convey("a folded initial guess still escapes when the residual leaves the fold", func() {
			folded := NewTwoLink(
				arm.LinkConfig{L1: 4, L3: 6},
				arm.SolverConfig{Epsilon: eps, MaxIterations: 50, SingularEpsilon: 1e-9},
			)
			target := arm.Vec{X: -3, Y: 4}
			angles, err := folded.Solve(target)
			So(err, ShouldBeNil)
			So(residual(folded, target, angles), ShouldBeLessThan, eps)
		})

		Convey("known targets solve to the expected elbow branch", func() {
			angles, err := k.Solve(arm.Vec{X: -1.2501033005989504, Y: 8.634045560391268})
			So(err, ShouldBeNil)
			So(angles.Theta1, ShouldAlmostEqual, 1.0776, 1e-3)
			So(angles.Theta2, ShouldAlmostEqual, -1.0192, 1e-3)

			angles, err = k.Solve(arm.Vec{X: -8, Y: 2})
			So(err, ShouldBeNil)
			So(angles.Theta1, ShouldAlmostEqual, 2.1406, 1e-3)
			So(angles.Theta2, ShouldAlmostEqual, 0.2300, 1e-3)
		})

		Convey("solved angles round trip through the forward map", func() {
			for _, target := range []arm.Vec{{X: 0, Y: 8}, {X: -1, Y: 9}, {X: -8, Y: 2}, {X: 5, Y: -3}} {
				angles, err := k.Solve(target)
				So(err, ShouldBeNil)
				So(residual(k, target, angles), ShouldBeLessThan, eps)
				So(angles.Theta1, ShouldBeGreaterThan, -math.Pi)
				So(angles.Theta1, ShouldBeLessThanOrEqualTo, math.Pi)
				So(angles.Theta2, ShouldBeGreaterThan, -math.Pi)
				So(angles.Theta2, ShouldBeLessThanOrEqualTo, math.Pi)
			}
		})
	})
}

func TestTwoLinkUnreachable(t *testing.T) {
	Convey("targets the arm cannot reach", t, func() {
		k := testSolver(50)

		Convey("beyond full extension fails before iterating", func() {
			_, err := k.Solve(arm.Vec{X: 20, Y: 0})
			So(errors.Is(err, ErrUnreachable), ShouldBeTrue)

			var se *SolveError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.Reason, ShouldEqual, OutsideWorkspace)
			So(se.Iterations, ShouldEqual, 0)
		})

		Convey("inside the inner radius fails", func() {
			_, err := k.Solve(arm.Vec{X: 0.5, Y: 0.5})
			So(errors.Is(err, ErrUnreachable), ShouldBeTrue)
		})

		Convey("a single iteration is not enough from the default guess", func() {
			_, err := testSolver(1).Solve(arm.Vec{X: 0, Y: 8})
			So(errors.Is(err, ErrUnreachable), ShouldBeTrue)

			var se *SolveError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.Reason, ShouldEqual, NoConvergence)
			So(se.Iterations, ShouldEqual, 1)
		})

		Convey("a folded initial guess is singular", func() {
			folded := NewTwoLink(
				arm.LinkConfig{L1: 4, L3: 6},
				arm.SolverConfig{Epsilon: eps, MaxIterations: 50, SingularEpsilon: 1e-9},
			)
			_, err := folded.Solve(arm.Vec{X: -5, Y: 0})
			var se *SolveError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.Reason, ShouldEqual, SingularJacobian)
			So(se.Iterations, ShouldEqual, 0)
		})

	})
}

func TestWrap(t *testing.T) {
	Convey("angles normalize to (-π, π]", t, func() {
		So(wrap(math.Pi), ShouldAlmostEqual, math.Pi, 1e-12)
		So(wrap(-math.Pi), ShouldAlmostEqual, math.Pi, 1e-12)
		So(wrap(3*math.Pi/2), ShouldAlmostEqual, -math.Pi/2, 1e-12)
		So(wrap(-5*math.Pi/2), ShouldAlmostEqual, -math.Pi/2, 1e-12)
		So(wrap(0.5), ShouldAlmostEqual, 0.5, 1e-12)
	})
}
