// Copyright 2010 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// WARNING: the declarations below reach into math/big's unexported
// vector arithmetic via //go:linkname. The signatures must match the
// running Go version exactly; a mismatch is memory corruption, not a
// compile error. When a Go upgrade breaks this package, start here and
// compare against the current math/big sources.

package bigfft

import (
	"math/big"
	_ "unsafe" // for go:linkname
)

// Word is big.Word; a single digit of the word vectors below.
type Word = big.Word

//go:linkname addVV math/big.addVV
func addVV(z, x, y []Word) (c Word)

//go:linkname subVV math/big.subVV
func subVV(z, x, y []Word) (c Word)

//go:linkname addVW math/big.addVW
func addVW(z, x []Word, y Word) (c Word)

//go:linkname subVW math/big.subVW
func subVW(z, x []Word, y Word) (c Word)

//go:linkname shlVU math/big.shlVU
func shlVU(z, x []Word, s uint) (c Word)

//go:linkname addMulVVW math/big.addMulVVW
func addMulVVW(z, x []Word, y Word) (c Word)
