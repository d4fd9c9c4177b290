package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"penarm/arm"
)

// TwoLink solves a planar two-link arm with Newton–Raphson iteration.
//
// The forward map is
//
//	x = L1·cos θ1 + L3·cos(θ2+π)
//	y = L1·sin θ1 + L3·sin(θ2+π)
//
// and every step solves a damped 2×2 system of the residual Jacobian in
// closed form. The initial guess picks which elbow branch the iteration
// settles on; the default (π/2, 0) is the pose over the drawing origin.
type TwoLink struct {
	l1, l3         float64
	epsilon        float64
	maxIterations  int
	singularEps    float64
	guess          mgl64.Vec2
	lastIterations int
}

// NewTwoLink creates a solver from the link and solver configuration
func NewTwoLink(links arm.LinkConfig, solver arm.SolverConfig) *TwoLink {
	return &TwoLink{
		l1:            links.L1,
		l3:            links.L3,
		epsilon:       solver.Epsilon,
		maxIterations: solver.MaxIterations,
		singularEps:   solver.SingularEpsilon,
		guess:         mgl64.Vec2{solver.InitialGuess[0], solver.InitialGuess[1]},
	}
}

// Forward implements Solver
func (k *TwoLink) Forward(angles arm.JointAngles) arm.Vec {
	p := k.forward(mgl64.Vec2{angles.Theta1, angles.Theta2})
	return arm.Vec{X: p[0], Y: p[1]}
}

func (k *TwoLink) forward(theta mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		k.l1*math.Cos(theta[0]) + k.l3*math.Cos(theta[1]+math.Pi),
		k.l1*math.Sin(theta[0]) + k.l3*math.Sin(theta[1]+math.Pi),
	}
}

// jacobian returns d(target - forward)/dθ, column-major
func (k *TwoLink) jacobian(theta mgl64.Vec2) mgl64.Mat2 {
	s1, c1 := math.Sincos(theta[0])
	s2, c2 := math.Sincos(theta[1])
	return mgl64.Mat2{
		k.l1 * s1, -k.l1 * c1,
		-k.l3 * s2, k.l3 * c2,
	}
}

// Reachable reports whether target lies inside the annulus swept by the arm
func (k *TwoLink) Reachable(target arm.Vec) bool {
	r := math.Hypot(target.X, target.Y)
	return r <= k.l1+k.l3 && r >= math.Abs(k.l1-k.l3)
}

// Damping bounds and the per-joint step cap of the iteration.
const (
	minDamping = 1e-3
	maxDamping = 1e8
	maxStep    = math.Pi / 4
)

// Solve implements Solver. The iteration count is bounded by the configured
// maximum, so a call always returns in bounded time.
func (k *TwoLink) Solve(target arm.Vec) (arm.JointAngles, error) {
	k.lastIterations = 0
	if !k.Reachable(target) {
		return arm.JointAngles{}, &SolveError{Target: target, Reason: OutsideWorkspace}
	}

	goal := mgl64.Vec2{target.X, target.Y}
	theta := k.guess
	damping := 0.0

	for i := 0; i < k.maxIterations; i++ {
		g := goal.Sub(k.forward(theta))
		if g.Len() < k.epsilon {
			k.lastIterations = i
			return wrapAngles(theta), nil
		}

		jac := k.jacobian(theta)
		singular := math.Abs(jac.Det()) < k.singularEps
		if singular {
			damping = math.Max(damping, minDamping)
		}

		next, d, ok := k.step(goal, theta, jac, g, damping)
		if !ok {
			k.lastIterations = i
			if singular {
				return arm.JointAngles{}, &SolveError{Target: target, Reason: SingularJacobian, Iterations: i}
			}
			return arm.JointAngles{}, &SolveError{Target: target, Reason: NoConvergence, Iterations: i}
		}
		if !finite(next[0]) || !finite(next[1]) {
			return arm.JointAngles{}, &SolveError{Target: target, Reason: Diverged, Iterations: i + 1}
		}
		theta, damping = next, d
	}

	k.lastIterations = k.maxIterations
	if goal.Sub(k.forward(theta)).Len() < k.epsilon {
		return wrapAngles(theta), nil
	}
	return arm.JointAngles{}, &SolveError{Target: target, Reason: NoConvergence, Iterations: k.maxIterations}
}

// step solves (JᵀJ + λI)·Δ = Jᵀg and returns θ − Δ with Δ capped to maxStep
// per joint. λ = 0 is the plain Newton step. A step is accepted only if it
// shrinks the residual; each rejection raises λ tenfold and an accepted step
// lowers it again. ok is false once λ passes maxDamping.
func (k *TwoLink) step(goal, theta mgl64.Vec2, jac mgl64.Mat2, g mgl64.Vec2, damping float64) (next mgl64.Vec2, d float64, ok bool) {
	jt := jac.Transpose()
	jtj := jt.Mul2(jac)
	jtg := jt.Mul2x1(g)
	norm := g.Len()

	for d = damping; d <= maxDamping; d = math.Max(d*10, minDamping) {
		sys := jtj.Add(mgl64.Ident2().Mul(d))
		if sys.Det() <= 1e-12 {
			continue
		}
		delta := sys.Inv().Mul2x1(jtg)
		if m := math.Max(math.Abs(delta[0]), math.Abs(delta[1])); m > maxStep {
			delta = delta.Mul(maxStep / m)
		}
		next = theta.Sub(delta)
		if goal.Sub(k.forward(next)).Len() < norm {
			if d /= 10; d < minDamping {
				d = 0
			}
			return next, d, true
		}
	}
	return theta, d, false
}

// LastIterations returns the steps taken by the latest Solve
func (k *TwoLink) LastIterations() int {
	return k.lastIterations
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func wrapAngles(theta mgl64.Vec2) arm.JointAngles {
	return arm.JointAngles{Theta1: wrap(theta[0]), Theta2: wrap(theta[1])}
}

// wrap normalizes an angle to (-π, π]
func wrap(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}
