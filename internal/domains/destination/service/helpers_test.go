package service_test

import "time"

const (
	waitFor = 2 * time.Second
	tick    = 10 * time.Millisecond
)
