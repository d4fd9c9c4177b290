package tmc4210

// Register is a TMC4210 register write address. Reading a register sets
// the low address bit.
type Register uint8

const (
	X_TARGET          Register = 0x00
	X_ACTUAL          Register = 0x02
	V_MIN             Register = 0x04
	V_MAX             Register = 0x06
	V_TARGET          Register = 0x08
	V_ACTUAL          Register = 0x0A // read only
	A_MAX             Register = 0x0C
	A_ACTUAL          Register = 0x0E // read only
	PMUL_PDIV         Register = 0x12
	REFCONF_RM        Register = 0x14
	PDIV_RDIV         Register = 0x18
	IF_CONF           Register = 0x68
	TYPE_VERSION      Register = 0x72 // read only
	GLOBAL_PARAMETERS Register = 0x7E
)

// Field bits
const (
	IF_CONF_EN_SD   = 1 << 5 // step/direction outputs enabled
	RAMP_MODE_MASK  = 0x03   // REFCONF_RM ramp mode, 0 = ramp
	PMUL_ALWAYS_SET = 0x80   // PMUL bit 7 must be written as 1
	DATA_MASK       = 0xFFFFFF
)

// readAddr returns the address byte for a register read
func (r Register) readAddr() byte {
	return byte(r) | 1
}
