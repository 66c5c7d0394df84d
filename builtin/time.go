package builtin

import "time"

// nowSeconds returns Unix time as a float with fractional seconds, the
// unit the "time" host module exposes as time.now().
func nowSeconds() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
