package dataset

import (
	_ "embed"
)

// Default is the bundled free-kick dataset.
//
//go:embed data/beckham.json
var Default []byte
