package questiongen

import "fmt"

// Tier 0: two-operand arithmetic

func addition(s *Stream) problem {
	a, b := s.Between(12, 89), s.Between(12, 89)
	sum := a + b
	return problem{
		text:   fmt.Sprintf("What is %d + %d?", a, b),
		answer: num(sum),
		distractors: []string{
			num(sum - 10), // dropped carry
			num(sum + 10),
			num(abs(a - b)), // wrong operator
			num(sum + 1),
		},
	}
}

func subtraction(s *Stream) problem {
	a := s.Between(40, 99)
	b := s.Between(11, a-1)
	diff := a - b
	return problem{
		text:   fmt.Sprintf("What is %d - %d?", a, b),
		answer: num(diff),
		distractors: []string{
			num(-diff), // operands swapped
			num(diff + 10),
			num(a + b),
			num(diff - 1),
		},
	}
}

func multiplication(s *Stream) problem {
	a, b := s.Between(3, 12), s.Between(3, 12)
	prod := a * b
	return problem{
		text:   fmt.Sprintf("What is %d × %d?", a, b),
		answer: num(prod),
		distractors: []string{
			num(a * (b + 1)), // off by one group
			num((a - 1) * b),
			num(a + b),
			num(prod * 10),
		},
	}
}

// Tier 1: algebra

func linearEquation(s *Stream) problem {
	a := s.Between(2, 9)
	x := s.Between(-9, 9)
	if x == 0 {
		x = 4
	}
	b := s.Between(-20, 20)
	c := a*x + b
	ds := []string{
		num(-x),    // sign error
		num(c - b), // forgot to divide
	}
	if (c+b)%a == 0 {
		ds = append(ds, num((c+b)/a)) // moved b without flipping its sign
	}
	ds = append(ds, num(x+1), num(x*a))
	return problem{
		text:        fmt.Sprintf("Solve for x: %dx %s = %d", a, signed(b), c),
		answer:      num(x),
		distractors: ds,
	}
}

func squareOfSum(s *Stream) problem {
	k, a := s.Between(2, 9), s.Between(1, 9)
	return problem{
		text:   fmt.Sprintf("If x = %d, what is (x + %d)²?", k, a),
		answer: num((k + a) * (k + a)),
		distractors: []string{
			num(k*k + a*a),       // forgot the cross term
			num(k*k + a*a + k*a), // cross term not doubled
			num(2 * (k + a)),     // doubled instead of squared
			num((k + a) * (k + a - 1)),
		},
	}
}

func differenceOfSquares(s *Stream) problem {
	a := s.Between(11, 30)
	b := s.Between(2, a-1)
	return problem{
		text:   fmt.Sprintf("What is %d² - %d²?", a, b),
		answer: num(a*a - b*b),
		distractors: []string{
			num((a - b) * (a - b)), // squared the difference
			num(a*a + b*b),
			num(2 * (a - b)),
			num((a - b) * (a + b - 1)),
		},
	}
}

// Tier 2: geometry

func polygonAngles(s *Stream) problem {
	n := s.Between(5, 12)
	sum := (n - 2) * 180
	return problem{
		text:   fmt.Sprintf("What is the sum of the interior angles of a %d-sided polygon, in degrees?", n),
		answer: num(sum),
		distractors: []string{
			num(n * 180), // forgot to subtract two triangles
			num((n - 1) * 180),
			num(360),
			num((n - 3) * 180),
		},
	}
}

var triples = [][3]int{{3, 4, 5}, {5, 12, 13}, {8, 15, 17}, {7, 24, 25}}

func hypotenuse(s *Stream) problem {
	t := triples[s.Intn(len(triples))]
	k := s.Between(1, 4)
	a, b, c := t[0]*k, t[1]*k, t[2]*k
	return problem{
		text:   fmt.Sprintf("A right triangle has legs %d and %d. How long is the hypotenuse?", a, b),
		answer: num(c),
		distractors: []string{
			num(a + b),     // added the legs
			num(a*a + b*b), // forgot the square root
			num(b - a + c),
			num(c + k),
		},
	}
}

func rectanglePerimeter(s *Stream) problem {
	w, h := s.Between(3, 25), s.Between(3, 25)
	return problem{
		text:   fmt.Sprintf("A rectangle is %d by %d. What is its perimeter?", w, h),
		answer: num(2 * (w + h)),
		distractors: []string{
			num(w * h), // area instead of perimeter
			num(w + h), // forgot to double
			num(2*w + h),
			num(4 * w),
		},
	}
}

// Tier 3: calculus and trigonometry

func powerRule(s *Stream) problem {
	a, n, k := s.Between(2, 6), s.Between(2, 4), s.Between(1, 3)
	return problem{
		text:   fmt.Sprintf("If f(x) = %dx^%d, what is f'(%d)?", a, n, k),
		answer: num(a * n * pow(k, n-1)),
		distractors: []string{
			num(a * pow(k, n)),     // not differentiated
			num(a * n * pow(k, n)), // exponent not reduced
			num(a * pow(k, n-1)),   // dropped the factor n
			num(n * pow(k, n-1)),
		},
	}
}

func linearIntegral(s *Stream) problem {
	m := 2 * s.Between(1, 5)
	c := s.Between(1, 9)
	b := s.Between(1, 6)
	return problem{
		text:   fmt.Sprintf("Evaluate the integral of (%dx + %d) dx from 0 to %d.", m, c, b),
		answer: num(m*b*b/2 + c*b),
		distractors: []string{
			num(m*b*b + c*b), // missing the 1/2
			num(m*b + c),     // evaluated the integrand
			num(m * b * b / 2),
			num(m*b*b/2 + c),
		},
	}
}

// exact values of standard angles; the pool doubles as the fallback list
var angleValues = []string{"0", "1/2", "√2/2", "√3/2", "1", "-1/2", "-√2/2", "-√3/2", "-1"}

type angle struct {
	deg      int
	sin, cos string
}

var standardAngles = []angle{
	{0, "0", "1"},
	{30, "1/2", "√3/2"},
	{45, "√2/2", "√2/2"},
	{60, "√3/2", "1/2"},
	{90, "1", "0"},
	{120, "√3/2", "-1/2"},
	{135, "√2/2", "-√2/2"},
	{150, "1/2", "-√3/2"},
	{180, "0", "-1"},
}

func standardAngle(s *Stream) problem {
	a := standardAngles[s.Intn(len(standardAngles))]
	fn, answer, other := "sin", a.sin, a.cos
	if s.Intn(2) == 1 {
		fn, answer, other = "cos", a.cos, a.sin
	}
	return problem{
		text:   fmt.Sprintf("What is %s(%d°)?", fn, a.deg),
		answer: answer,
		distractors: []string{
			other, // sine and cosine swapped
			negate(answer),
			complementOf(answer),
		},
		fallback: func(k int) string {
			return angleValues[(k-1)%len(angleValues)]
		},
	}
}

func negate(v string) string {
	switch {
	case v == "0":
		return "0"
	case v[0] == '-':
		return v[1:]
	default:
		return "-" + v
	}
}

// complementOf swaps 1/2 and √3/2, the classic 30°/60° mix-up
func complementOf(v string) string {
	switch v {
	case "1/2":
		return "√3/2"
	case "√3/2":
		return "1/2"
	case "-1/2":
		return "-√3/2"
	case "-√3/2":
		return "-1/2"
	}
	return "√2/2"
}

func signed(v int) string {
	if v < 0 {
		return fmt.Sprintf("- %d", -v)
	}
	return fmt.Sprintf("+ %d", v)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func pow(b, e int) int {
	r := 1
	for i := 0; i < e; i++ {
		r *= b
	}
	return r
}
