// Package insts provides 32-bit PowerPC instruction definitions, encoding,
// and decoding.
//
// The package covers the fixed-point instruction classes exercised by the
// conformance harness:
//   - Arithmetic (XO-form and D-form): add, addc, adde, addi, addic, addis,
//     addme, addze, subf, subfc, subfe, subfic, subfme, subfze, neg, mulhw,
//     mulhwu, mulli, mullw
//   - Logical (X-form and D-form): and, andc, andi., andis., cntlzw, eqv,
//     extsb, extsh, nand, nor, or, orc, ori, oris, xor, xori, xoris
//   - Shift and rotate: slw, sraw, srawi, srw, rlwimi, rlwinm, rlwnm
//   - Compare: cmp, cmpi, cmpl, cmpli
//   - Condition register logical (XL-form): crand, crandc, creqv, crnand,
//     crnor, cror, crorc, crxor
//
// Usage:
//
//	word := insts.EncodeXO(31, 10, 11, 12, false, 266, true) // add. r10,r11,r12
//	inst := insts.NewDecoder().Decode(word)
//	fmt.Printf("Op: %v, RT: %d, RA: %d, RB: %d\n", inst.Op, inst.RT, inst.RA, inst.RB)
package insts
