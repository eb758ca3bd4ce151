package paran

import "math"

// brentq finds a root of f in the bracket [a, b] using Brent's method:
// inverse quadratic interpolation and secant steps guarded by bisection.
// fa and fb are the already-evaluated endpoint values and must differ in
// sign. Returns the root and whether it converged within maxIter
// iterations to the given tolerance.
func brentq(f func(float64) float64, a, b, fa, fb, tol float64, maxIter int) (float64, bool) {
	if fa == 0 {
		return a, true
	}
	if fb == 0 {
		return b, true
	}
	if fa*fb > 0 {
		return 0, false
	}

	c, fc := a, fa
	d := b - a
	e := d

	for i := 0; i < maxIter; i++ {
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol1 := 2*machEps*math.Abs(b) + tol/2
		xm := (c - b) / 2

		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, true
		}

		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			// Attempt interpolation
			s := fb / fa
			var p, q float64
			if a == c {
				// Secant
				p = 2 * xm * s
				q = 1 - s
			} else {
				// Inverse quadratic
				qq := fa / fc
				r := fb / fc
				p = s * (2*xm*qq*(qq-r) - (b-a)*(r-1))
				q = (qq - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)

			if 2*p < math.Min(3*xm*q-math.Abs(tol1*q), math.Abs(e*q)) {
				// Interpolation accepted
				e = d
				d = p / q
			} else {
				// Fall back to bisection
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)

		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
	}

	return b, false
}

const machEps = 2.220446049250313e-16
