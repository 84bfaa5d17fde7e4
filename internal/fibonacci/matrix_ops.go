package fibonacci

import "context"

// multiplyMatrices computes dest = m1 * m2, choosing between the classic
// 8-multiplication kernel and the 7-multiplication Strassen-Winograd
// decomposition on entry size. The Winograd variant trades one big-int
// product for 15 additions, which only pays once the products dominate.
func multiplyMatrices(ctx context.Context, dest, m1, m2 *matrix, st *matrixState, opts Options, inParallel bool) error {
	if maxPairBits(m1, m2) <= opts.StrassenThreshold {
		return multiplyClassic(ctx, dest, m1, m2, st, opts, inParallel)
	}
	return multiplyWinograd(ctx, dest, m1, m2, st, opts, inParallel)
}

// multiplyClassic is the schoolbook 2x2 product: 8 multiplications and
// 4 additions into pooled scratch.
func multiplyClassic(ctx context.Context, dest, m1, m2 *matrix, st *matrixState, opts Options, inParallel bool) error {
	p := &st.prod
	muls := []mulTask{
		{dest: &p[0], x: m1.a, y: m2.a, fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
		{dest: &p[1], x: m1.b, y: m2.c, fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
		{dest: &p[2], x: m1.a, y: m2.b, fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
		{dest: &p[3], x: m1.b, y: m2.d, fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
		{dest: &p[4], x: m1.c, y: m2.a, fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
		{dest: &p[5], x: m1.d, y: m2.c, fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
		{dest: &p[6], x: m1.c, y: m2.b, fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
		{dest: &p[7], x: m1.d, y: m2.d, fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
	}
	if err := runTasks(ctx, nil, muls, inParallel); err != nil {
		return err
	}

	dest.a.Add(p[0], p[1])
	dest.b.Add(p[2], p[3])
	dest.c.Add(p[4], p[5])
	dest.d.Add(p[6], p[7])
	return nil
}

// multiplyWinograd computes dest = m1 * m2 with Winograd's form of the
// Strassen decomposition: 7 multiplications, 8 pre-computed sums and 7
// post-additions. All intermediates live in pooled scratch.
func multiplyWinograd(ctx context.Context, dest, m1, m2 *matrix, st *matrixState, opts Options, inParallel bool) error {
	s := &st.sum
	s[0].Add(m1.c, m1.d)   // S1 = A21 + A22
	s[1].Sub(s[0], m1.a)   // S2 = S1 - A11
	s[2].Sub(m1.a, m1.c)   // S3 = A11 - A21
	s[3].Sub(m1.b, s[1])   // S4 = A12 - S2
	s[4].Sub(m2.b, m2.a)   // S5 = B12 - B11
	s[5].Sub(m2.d, s[4])   // S6 = B22 - S5
	s[6].Sub(m2.d, m2.b)   // S7 = B22 - B12
	s[7].Sub(s[5], m2.c)   // S8 = S6 - B21

	p := &st.prod
	muls := []mulTask{
		{dest: &p[0], x: s[1], y: s[5], fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
		{dest: &p[1], x: m1.a, y: m2.a, fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
		{dest: &p[2], x: m1.b, y: m2.c, fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
		{dest: &p[3], x: s[2], y: s[6], fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
		{dest: &p[4], x: s[0], y: s[4], fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
		{dest: &p[5], x: s[3], y: m2.d, fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
		{dest: &p[6], x: m1.d, y: s[7], fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
	}
	if err := runTasks(ctx, nil, muls, inParallel); err != nil {
		return err
	}

	t1, t2 := st.scr[0], st.scr[1]
	t1.Add(p[0], p[1]) // T1 = P1 + P2
	t2.Add(t1, p[3])   // T2 = T1 + P4

	dest.a.Add(p[1], p[2]) // C11 = P2 + P3
	dest.b.Add(t1, p[4])   // C12 = T1 + P5 + P6
	dest.b.Add(dest.b, p[5])
	dest.c.Sub(t2, p[6]) // C21 = T2 - P7
	dest.d.Add(t2, p[4]) // C22 = T2 + P5
	return nil
}

// squareSymmetricMatrix computes dest = mat² for symmetric mat (b == c),
// which every power of Q is. Symmetry leaves only 3 squarings plus one
// general product b·(a+d); the squarings transform their operand once,
// so this kernel costs well under half a general matrix product.
func squareSymmetricMatrix(ctx context.Context, dest, mat *matrix, st *matrixState, opts Options, inParallel bool) error {
	a2, b2, d2 := st.scr[0], st.scr[1], st.scr[2]
	bad, ad := st.scr[3], st.scr[4]
	ad.Add(mat.a, mat.d)

	sqrs := []sqrTask{
		{dest: &a2, x: mat.a, fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
		{dest: &b2, x: mat.b, fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
		{dest: &d2, x: mat.d, fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
	}
	muls := []mulTask{
		{dest: &bad, x: mat.b, y: ad, fft: opts.FFTThreshold, karatsuba: opts.KaratsubaThreshold},
	}
	if err := runTasks(ctx, sqrs, muls, inParallel); err != nil {
		return err
	}
	st.scr[0], st.scr[1], st.scr[2], st.scr[3] = a2, b2, d2, bad

	dest.a.Add(a2, b2)
	dest.b.Set(bad)
	dest.c.Set(bad)
	dest.d.Add(b2, d2)
	return nil
}

// maxMatrixBits returns the largest BitLen among the four entries.
func maxMatrixBits(m *matrix) int {
	maxLen := m.a.BitLen()
	if v := m.b.BitLen(); v > maxLen {
		maxLen = v
	}
	if v := m.c.BitLen(); v > maxLen {
		maxLen = v
	}
	if v := m.d.BitLen(); v > maxLen {
		maxLen = v
	}
	return maxLen
}

// maxPairBits returns the largest BitLen across two matrices.
func maxPairBits(m1, m2 *matrix) int {
	maxLen := maxMatrixBits(m1)
	if v := maxMatrixBits(m2); v > maxLen {
		maxLen = v
	}
	return maxLen
}
