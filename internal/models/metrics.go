package models

// SystemMetrics summarises process counters exposed on the metrics snapshot endpoint.
type SystemMetrics struct {
	RequestCount      float64 `json:"request_count"`
	ErrorCount        float64 `json:"error_count"`
	CacheHits         float64 `json:"cache_hits"`
	CacheMisses       float64 `json:"cache_misses"`
	CacheHitRatio     float64 `json:"cache_hit_ratio"`
	CodeCollisions    float64 `json:"code_collisions"`
	CodeExhaustions   float64 `json:"code_exhaustions"`
	InviteDeadLetters float64 `json:"invite_dead_letters"`
}
