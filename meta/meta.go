// meta/meta.go
package meta

import "time"

// MAX_TURNS is the move ceiling after which a match is a draw.
const MAX_TURNS = 100

// THINK_TIME is the default search budget per move.
const THINK_TIME = time.Second

// GAMES is the default number of games per tournament pairing and colour.
const GAMES = 10

const OUTPUT_DIR = "experiments"
