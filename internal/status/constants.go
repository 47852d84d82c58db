// internal/status/constants.go
package status

// Status block layout. Line labels are padded so values line up.

// ---- LABELS ----

const (
	LabelInput0  = "input0:  "
	LabelInput1  = "input1:  "
	LabelOutput0 = "output0: "
	LabelOutput1 = "output1: "
	LabelEncoder = "encoder: "
	LabelDDR     = "ddr: "
)

// Off is printed for a disabled sink.
const Off = "off"

// EOL terminates every console line.
const EOL = "\r\n"

// ---- FREQUENCY SPLIT ----

const (
	hzPerMHz       = 1_000_000
	hzPerHundredth = 10_000
)
