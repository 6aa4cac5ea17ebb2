// Package config loads runwatch settings from a TOML file.
//
// Load reads ~/.config/runwatch/config.toml unless another path is given. A
// missing file is not an error; every field has a default and blank values
// fall back to it.
//
//	log_name = "train.log"
//	result_name = "result.json"
//	stale_after = "60s"
//	very_stale_after = "5m"
//	max_bytes_per_read = 65536
//	max_lines_per_read = 1000
//	tail_lines = 200
//
//	[intervals]
//	receiving = "500ms"
//	backlog = "100ms"
//	stale = "3s"
//	very_stale = "10s"
//	terminal = "30s"
//
// Durations use time.ParseDuration syntax. Invalid values are reported with
// the offending key. Paths starting with ~ are expanded to the home directory.
package config
