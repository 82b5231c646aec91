// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package pool

const defaultScaleThreshold = 1

// Config carries the pool's tuning knobs.
type Config struct {
	// ScaleThreshold is the queue length above which an additional
	// worker is started, up to the pool's cap.
	ScaleThreshold int32
}

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	return &Config{ScaleThreshold: defaultScaleThreshold}
}
