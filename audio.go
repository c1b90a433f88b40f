package mpegscan

import "github.com/simonhull/mpegscan/internal/types"

// StreamInfo is an alias to types.StreamInfo.
// Re-exporting from internal/types to maintain public API.
type StreamInfo = types.StreamInfo
