// internal/status/snapshot.go
package status

// Snapshot is one reading of every status source.
// Entries with Present unset are left out of the block.
type Snapshot struct {
	Inputs  [2]Input
	Outputs [2]Output
	Encoder Encoder
	DDR     DDR
}

type Input struct {
	Present bool
	HRes    uint32
	VRes    uint32
	FreqHz  uint32
}

type Output struct {
	Present    bool
	Enabled    bool
	HActive    uint32
	VActive    uint32
	Refresh    uint32
	Source     string
	Underflows uint32
}

type Encoder struct {
	Present bool
	Enabled bool
	HActive uint32
	VActive uint32
	FPS     uint32
	Source  string
	Quality uint32
}

// DDR bandwidth, megabits per second.
type DDR struct {
	Present   bool
	ReadMbps  uint32
	WriteMbps uint32
}
