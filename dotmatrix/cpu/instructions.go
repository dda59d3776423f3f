package cpu

// mode is an addressing mode. It decides where an instruction's operand comes
// from and, for memory destinations, which address the result goes to.
type mode uint8

const (
	modeImplied       mode = iota
	modeImm8               // u8
	modeImm16              // u16
	modeReg                // src register
	modeRegToMem           // (dst) <- src
	modeMem                // (src)
	modeMemRMW             // (src), result back to the same address
	modeImm8ToMem          // (dst) <- u8
	modeRegToMemInc        // (HL+) <- src
	modeRegToMemDec        // (HL-) <- src
	modeMemInc             // (HL+)
	modeMemDec             // (HL-)
	modeHighImm8           // (FF00+u8)
	modeAbsImm16           // (u16)
	modeRegToHighImm8      // (FF00+u8) <- src
	modeRegToAbsImm16      // (u16) <- src
	modeSPOffset           // SP+i8, sets H and C
	modeRegToHighReg       // (FF00+dst) <- src
	modeHighReg            // (FF00+src)
)

type kind uint8

const (
	kindNone kind = iota
	kindNOP
	kindLD
	kindINC
	kindDEC
	kindRLCA
	kindRRCA
	kindRLA
	kindRRA
	kindADD
	kindADC
	kindSUB
	kindSBC
	kindAND
	kindXOR
	kindOR
	kindCP
	kindJR
	kindJP
	kindCALL
	kindRET
	kindRETI
	kindRST
	kindPUSH
	kindPOP
	kindDAA
	kindCPL
	kindSCF
	kindCCF
	kindHALT
	kindSTOP
	kindDI
	kindEI
	kindCB
	kindCount
)

type cond uint8

const (
	condAlways cond = iota
	condNZ
	condZ
	condNC
	condC
)

// Instruction describes one opcode: how to fetch its operand and what to do with it.
type Instruction struct {
	mode  mode
	kind  kind
	dst   Reg
	src   Reg
	cond  cond
	param uint8 // RST vector
}

// Defined reports whether the opcode has a handler.
func (in Instruction) Defined() bool {
	return in.kind != kindNone
}

// operand order of the 3-bit register field in opcode encodings, 6 is (HL)
var r8 = [8]Reg{RegB, RegC, RegD, RegE, RegH, RegL, RegHL, RegA}

var (
	r16      = [4]Reg{RegBC, RegDE, RegHL, RegSP}
	r16Stack = [4]Reg{RegBC, RegDE, RegHL, RegAF}
	conds    = [4]cond{condNZ, condZ, condNC, condC}
	aluKinds = [8]kind{kindADD, kindADC, kindSUB, kindSBC, kindAND, kindXOR, kindOR, kindCP}
)

// instructions is the base opcode table. Unlisted opcodes are illegal on the DMG.
var instructions = buildInstructions()

func buildInstructions() [256]Instruction {
	var t [256]Instruction

	t[0x00] = Instruction{kind: kindNOP}
	t[0x08] = Instruction{mode: modeRegToAbsImm16, kind: kindLD, src: RegSP}
	t[0x10] = Instruction{mode: modeImm8, kind: kindSTOP}
	t[0x18] = Instruction{mode: modeImm8, kind: kindJR}

	t[0x02] = Instruction{mode: modeRegToMem, kind: kindLD, dst: RegBC, src: RegA}
	t[0x12] = Instruction{mode: modeRegToMem, kind: kindLD, dst: RegDE, src: RegA}
	t[0x22] = Instruction{mode: modeRegToMemInc, kind: kindLD, dst: RegHL, src: RegA}
	t[0x32] = Instruction{mode: modeRegToMemDec, kind: kindLD, dst: RegHL, src: RegA}
	t[0x0A] = Instruction{mode: modeMem, kind: kindLD, dst: RegA, src: RegBC}
	t[0x1A] = Instruction{mode: modeMem, kind: kindLD, dst: RegA, src: RegDE}
	t[0x2A] = Instruction{mode: modeMemInc, kind: kindLD, dst: RegA, src: RegHL}
	t[0x3A] = Instruction{mode: modeMemDec, kind: kindLD, dst: RegA, src: RegHL}

	t[0x07] = Instruction{kind: kindRLCA}
	t[0x0F] = Instruction{kind: kindRRCA}
	t[0x17] = Instruction{kind: kindRLA}
	t[0x1F] = Instruction{kind: kindRRA}
	t[0x27] = Instruction{kind: kindDAA}
	t[0x2F] = Instruction{kind: kindCPL}
	t[0x37] = Instruction{kind: kindSCF}
	t[0x3F] = Instruction{kind: kindCCF}

	for i, c := range conds {
		t[0x20+i<<3] = Instruction{mode: modeImm8, kind: kindJR, cond: c}
		t[0xC0+i<<3] = Instruction{kind: kindRET, cond: c}
		t[0xC2+i<<3] = Instruction{mode: modeImm16, kind: kindJP, cond: c}
		t[0xC4+i<<3] = Instruction{mode: modeImm16, kind: kindCALL, cond: c}
	}

	for i, rr := range r16 {
		base := i << 4
		t[base|0x01] = Instruction{mode: modeImm16, kind: kindLD, dst: rr}
		t[base|0x03] = Instruction{mode: modeReg, kind: kindINC, dst: rr, src: rr}
		t[base|0x09] = Instruction{mode: modeReg, kind: kindADD, dst: RegHL, src: rr}
		t[base|0x0B] = Instruction{mode: modeReg, kind: kindDEC, dst: rr, src: rr}
	}

	for i, r := range r8 {
		base := i << 3
		if r == RegHL {
			t[base|0x04] = Instruction{mode: modeMemRMW, kind: kindINC, dst: RegHL, src: RegHL}
			t[base|0x05] = Instruction{mode: modeMemRMW, kind: kindDEC, dst: RegHL, src: RegHL}
			t[base|0x06] = Instruction{mode: modeImm8ToMem, kind: kindLD, dst: RegHL}
			continue
		}
		t[base|0x04] = Instruction{mode: modeReg, kind: kindINC, dst: r, src: r}
		t[base|0x05] = Instruction{mode: modeReg, kind: kindDEC, dst: r, src: r}
		t[base|0x06] = Instruction{mode: modeImm8, kind: kindLD, dst: r}
	}

	for op := 0x40; op < 0x80; op++ {
		dst, src := r8[(op>>3)&7], r8[op&7]
		switch {
		case op == 0x76:
			t[op] = Instruction{kind: kindHALT}
		case src == RegHL:
			t[op] = Instruction{mode: modeMem, kind: kindLD, dst: dst, src: RegHL}
		case dst == RegHL:
			t[op] = Instruction{mode: modeRegToMem, kind: kindLD, dst: RegHL, src: src}
		default:
			t[op] = Instruction{mode: modeReg, kind: kindLD, dst: dst, src: src}
		}
	}

	for op := 0x80; op < 0xC0; op++ {
		k, src := aluKinds[(op>>3)&7], r8[op&7]
		if src == RegHL {
			t[op] = Instruction{mode: modeMem, kind: k, dst: RegA, src: RegHL}
		} else {
			t[op] = Instruction{mode: modeReg, kind: k, dst: RegA, src: src}
		}
	}

	for i, rr := range r16Stack {
		t[0xC1+i<<4] = Instruction{kind: kindPOP, dst: rr}
		t[0xC5+i<<4] = Instruction{mode: modeReg, kind: kindPUSH, src: rr}
	}
	for i, k := range aluKinds {
		t[0xC6+i<<3] = Instruction{mode: modeImm8, kind: k, dst: RegA}
		t[0xC7+i<<3] = Instruction{kind: kindRST, param: uint8(i << 3)}
	}

	t[0xC3] = Instruction{mode: modeImm16, kind: kindJP}
	t[0xC9] = Instruction{kind: kindRET}
	t[0xCB] = Instruction{mode: modeImm8, kind: kindCB}
	t[0xCD] = Instruction{mode: modeImm16, kind: kindCALL}
	t[0xD9] = Instruction{kind: kindRETI}
	t[0xE0] = Instruction{mode: modeRegToHighImm8, kind: kindLD, src: RegA}
	t[0xE2] = Instruction{mode: modeRegToHighReg, kind: kindLD, dst: RegC, src: RegA}
	t[0xE8] = Instruction{mode: modeSPOffset, kind: kindADD, dst: RegSP}
	t[0xE9] = Instruction{mode: modeReg, kind: kindJP, src: RegHL}
	t[0xEA] = Instruction{mode: modeRegToAbsImm16, kind: kindLD, src: RegA}
	t[0xF0] = Instruction{mode: modeHighImm8, kind: kindLD, dst: RegA}
	t[0xF2] = Instruction{mode: modeHighReg, kind: kindLD, dst: RegA, src: RegC}
	t[0xF3] = Instruction{kind: kindDI}
	t[0xF8] = Instruction{mode: modeSPOffset, kind: kindLD, dst: RegHL}
	t[0xF9] = Instruction{mode: modeReg, kind: kindLD, dst: RegSP, src: RegHL}
	t[0xFA] = Instruction{mode: modeAbsImm16, kind: kindLD, dst: RegA}
	t[0xFB] = Instruction{kind: kindEI}

	return t
}
