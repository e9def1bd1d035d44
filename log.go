package guide

import "github.com/rs/zerolog"

// Logger receives debug-level traces of the tolerated anomalies spec.md
// §4 and §7 describe (a lone trailing 0xFF or missing terminator in a
// NUL-terminated RLE string, a menu count above the maximum, a menu type
// other than 1, an unrecognized magic). It is a no-op by
// default; callers that want visibility reassign it, the way the
// broader retrieval pack's readers expose a zerolog.Logger for an
// embedding caller to configure (see DESIGN.md).
var Logger zerolog.Logger = zerolog.Nop()
